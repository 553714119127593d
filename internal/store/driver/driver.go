// Package driver opens the document store selected in configuration.
package driver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/memstore"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/mongostore"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/pgstore"
)

// ConnectTimeout bounds connecting and migrating on startup.
const ConnectTimeout = 30 * time.Second

// Open connects the backend named by cfg.Database.Driver.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	switch cfg.Database.Driver {
	case config.DriverMongo:
		s, err := mongostore.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		log.Info("DB connection successful", zap.String("driver", cfg.Database.Driver))
		return s, nil
	case config.DriverPostgres:
		s, err := pgstore.NewStore(ctx, cfg.GetDSN(), cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		log.Info("DB connection successful", zap.String("driver", cfg.Database.Driver))
		return s, nil
	case config.DriverMemory:
		log.Warn("using the in-memory store, data is lost on exit")
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Database.Driver)
	}
}
