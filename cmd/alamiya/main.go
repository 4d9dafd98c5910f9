package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Hazem7575/alamiya-sub000/internal/application"
	"github.com/Hazem7575/alamiya-sub000/internal/config"
	httptransport "github.com/Hazem7575/alamiya-sub000/internal/http"
	"github.com/Hazem7575/alamiya-sub000/internal/logging"
	"github.com/Hazem7575/alamiya-sub000/internal/notify"
	"github.com/Hazem7575/alamiya-sub000/internal/persistence/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "alamiya",
		Short:         "Event scheduling service with travel-time conflict validation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML configuration file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newMigrateCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := logging.New(os.Stdout, cfg.LogLevel)

			pool, err := sqlite.Open(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer pool.Close()

			if err := sqlite.Migrate(cmd.Context(), pool); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("migrations applied", "dsn", cfg.SQLiteDSN)
			return nil
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	idGenerator := uuid.NewString
	now := time.Now

	events := newEventRepositoryAdapter(pool)
	cities := &cityStoreAdapter{repo: sqlite.NewCityRepository(pool)}
	venues := &venueStoreAdapter{repo: sqlite.NewVenueRepository(pool)}
	eventTypes := &eventTypeStoreAdapter{repo: sqlite.NewEventTypeRepository(pool)}
	resources := &resourceStoreAdapter{repo: sqlite.NewResourceRepository(pool)}
	distances := &distanceRepositoryAdapter{repo: sqlite.NewDistanceRepository(pool)}

	catalogService := application.NewCatalogService(cities, venues, eventTypes, resources, idGenerator, now, logger)
	distanceService := application.NewDistanceService(distances, catalogService, idGenerator, now, logger)

	broadcaster := notify.NewBroadcaster(cfg.FeedBufferSize, logger)
	eventService := application.NewEventService(events, catalogService, catalogService, catalogService, catalogService,
		distanceService, broadcaster, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Events:     httptransport.NewEventHandler(eventService, logger),
		Distances:  httptransport.NewDistanceHandler(distanceService, logger),
		Catalog:    httptransport.NewCatalogHandler(catalogService, logger),
		Feed:       notify.NewFeedHandler(broadcaster, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("event scheduling API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
