// Command seed migrates the storefront database, creates the admin account
// and loads the default catalog into an empty product table. It is safe to
// run repeatedly.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/utafrali/sportsstore/internal/app"
	"github.com/utafrali/sportsstore/internal/auth"
	"github.com/utafrali/sportsstore/internal/config"
	"github.com/utafrali/sportsstore/internal/event"
	"github.com/utafrali/sportsstore/internal/seed"
	"github.com/utafrali/sportsstore/internal/service"
	pkgkafka "github.com/utafrali/sportsstore/pkg/kafka"
	"github.com/utafrali/sportsstore/pkg/logger"
)

func main() {
	catalogFile := flag.String("catalog", "", "YAML catalog to load instead of SEED_CATALOG_FILE or the built-in one")
	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *catalogFile != "" {
		cfg.SeedCatalogFile = *catalogFile
	}

	log := logger.New("storefront-seed", cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	products, err := seed.Catalog(cfg.SeedCatalogFile)
	if err != nil {
		return err
	}

	storage, err := app.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = storage.Close() }()

	// Seeding runs outside the storefront, so no events are published.
	producer := event.NewProducer(pkgkafka.NoopPublisher{}, log)

	identity := service.NewIdentityService(storage.Users, auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL()), log)
	if err := identity.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	catalog := service.NewCatalogService(storage.Products, producer, log, cfg.CatalogPageSize, products)
	n, err := catalog.Seed(ctx)
	if err != nil {
		return err
	}

	log.Info("seed complete", slog.Int("products_inserted", n), slog.String("admin", cfg.AdminUsername))
	return nil
}
