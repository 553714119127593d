// Package objstore stores uploaded images in MinIO, S3 or a local
// directory.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

// Bucket is a flat key/value object store.
type Bucket interface {
	// Put stores size bytes read from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get opens the object; the caller closes it. ErrNotFound when absent.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// New opens the bucket selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (Bucket, error) {
	switch cfg.Driver {
	case config.StorageMinIO:
		c, err := NewMinIO(cfg)
		if err != nil {
			return nil, err
		}
		if err := c.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Info("object storage ready", zap.String("driver", cfg.Driver), zap.String("bucket", cfg.Bucket))
		return c, nil
	case config.StorageS3:
		c, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("object storage ready", zap.String("driver", cfg.Driver), zap.String("bucket", cfg.Bucket))
		return c, nil
	case config.StorageLocal, "":
		return NewLocal(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// cleanKey rejects keys that could escape the bucket.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean != key || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", ErrInvalidKey
	}
	return clean, nil
}
