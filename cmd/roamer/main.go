package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/roamer/internal/cli"
	"github.com/alexanderramin/roamer/internal/config"
	"github.com/alexanderramin/roamer/internal/db"
	"github.com/alexanderramin/roamer/internal/logging"
	"github.com/alexanderramin/roamer/internal/repository"
	"github.com/alexanderramin/roamer/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logging.Configure(cfg.Log.Level); err != nil {
		return err
	}

	// Open database
	database, err := db.OpenDB(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	planRepo := repository.NewSQLitePlanRepo(database)
	promoRepo := repository.NewSQLitePromoRepo(database)
	overrideRepo := repository.NewSQLiteOverrideRepo(database)
	settingsRepo := repository.NewSQLiteSettingsRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	observer := service.NewLogUseCaseObserver(logging.NewModuleLogger("service"))

	app := &cli.App{
		Optimize: service.NewOptimizeService(planRepo, promoRepo, overrideRepo, settingsRepo,
			logging.NewModuleLogger("optimizer"), observer),
		Catalog:   service.NewCatalogService(planRepo, uow, observer),
		Promos:    service.NewPromoService(promoRepo, uow, observer),
		Overrides: service.NewOverrideService(overrideRepo, uow, observer),
		Config:    cfg,
	}

	// Ctrl-C cancels a running search; the best results found so far are
	// still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
