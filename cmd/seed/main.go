// Command seed imports fixture data into the configured store or wipes it.
//
//	seed -import [-dir dev-data/data]
//	seed -delete
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/logging"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/seed"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/store/driver"
)

func main() {
	doImport := flag.Bool("import", false, "import fixtures from -dir")
	doDelete := flag.Bool("delete", false, "delete all data")
	dir := flag.String("dir", "dev-data/data", "fixture directory holding tours, users and reviews (.json or .yaml)")
	flag.Parse()

	if *doImport == *doDelete {
		fmt.Fprintln(os.Stderr, "usage: seed -import [-dir DIR] | seed -delete")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), cfg, logger, *doImport, *dir); err != nil {
		logger.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, doImport bool, dir string) error {
	s, err := driver.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close(context.Background()) }()

	im := seed.NewImporter(s, logger)
	if !doImport {
		return im.Delete(ctx)
	}

	fixtures, err := seed.Load(dir)
	if err != nil {
		return err
	}
	return im.Import(ctx, fixtures)
}
