package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/apperror"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/imaging"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/objstore"
)

// MaxUploadBytes caps a multipart upload.
const MaxUploadBytes = 10 << 20

// Folders of the image bucket.
const (
	folderUsers = "users"
	folderTours = "tours"
)

var errNotImage = apperror.Validation("Not an image! Please upload only images.")

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.Validation("Upload too large").Wrap(err)
		}
		return apperror.Validation("Invalid multipart form").Wrap(err)
	}
	return nil
}

// formFiles returns the files uploaded under field, at most limit of them.
func formFiles(r *http.Request, field string, limit int) ([]*multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[field]
	if len(files) > limit {
		return nil, apperror.Validation("Too many files for %s (max %d)", field, limit)
	}
	return files, nil
}

// saveImage resizes an uploaded image to size and stores it as
// folder/name.
func saveImage(ctx context.Context, bucket objstore.Bucket, fh *multipart.FileHeader, size imaging.Size, folder, name string) error {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return errNotImage
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	img, err := imaging.Resize(f, size)
	if err != nil {
		if errors.Is(err, imaging.ErrNotImage) {
			return errNotImage.Wrap(err)
		}
		return err
	}

	key := folder + "/" + name
	if err := bucket.Put(ctx, key, bytes.NewReader(img), int64(len(img)), "image/jpeg"); err != nil {
		return fmt.Errorf("store image %s: %w", key, err)
	}
	return nil
}
