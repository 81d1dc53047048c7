package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ecopulse/config"
	"ecopulse/handlers"
	"ecopulse/middleware"
	"ecopulse/services"
	"ecopulse/utils"
	"ecopulse/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "ecopulse",
	Short:         "EcoPulse sustainability tracking service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, sync worker and snapshot scheduler",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the eco_profiles schema",
	RunE:  runMigrate,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Archive the current leaderboard to R2 (prints it when R2 is not configured)",
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, snapshotCmd)
	serveCmd.Flags().Bool("migrate", true, "Run schema migration before serving")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg config.Config) (*services.GormProfileStore, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return services.NewGormProfileStore(db), nil
}

func newEcoService(cfg config.Config, store services.ProfileStore) (*services.EcoService, *services.RedisLeaderboardCache, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	var filler services.FillerProvider
	if cfg.LeaderboardFiller {
		filler = services.NewSyntheticFiller()
	}

	var cache *services.RedisLeaderboardCache
	svc := services.NewEcoService(store, services.NewStreakEngine(loc), filler, nil)
	if cfg.RedisURL != "" {
		cache, err = services.NewRedisLeaderboardCache(cfg.RedisURL, cfg.LeaderboardCacheTTL)
		if err != nil {
			return nil, nil, err
		}
		svc.Cache = cache
	}
	return svc, cache, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	store, err := openStore(config.Load())
	if err != nil {
		return err
	}
	if err := store.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("✅ eco_profiles schema is up to date")
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	svc, _, err := newEcoService(cfg, store)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if !cfg.R2.Enabled() {
		snap, err := svc.SnapshotLeaderboard(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	uploader, err := utils.NewR2Uploader(ctx, cfg.R2)
	if err != nil {
		return err
	}
	url, err := svc.ExportSnapshot(ctx, uploader)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.ServiceToken == "" {
		return fmt.Errorf("ECO_SERVICE_TOKEN environment variable not set")
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if doMigrate, _ := cmd.Flags().GetBool("migrate"); doMigrate {
		if err := store.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	ecoService, cache, err := newEcoService(cfg, store)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SyncServiceURL != "" {
		if err := cfg.RequireSyncToken(); err != nil {
			return err
		}
		syncWorker := workers.NewProfileSyncWorker(ecoService, cfg.SyncServiceURL, "/api/v1/public/profiles", cfg.SyncServiceToken, cfg.SyncInterval)
		syncWorker.Start(ctx)
	} else {
		log.Println("⚠️  SYNC_SERVICE_URL not set, profiles are only created through POST /eco/profiles")
	}

	if cfg.R2.Enabled() {
		uploader, err := utils.NewR2Uploader(ctx, cfg.R2)
		if err != nil {
			return fmt.Errorf("failed to initialize R2 client: %w", err)
		}
		sched, err := ecoService.StartSnapshotScheduler(ctx, uploader)
		if err != nil {
			return fmt.Errorf("failed to start snapshot scheduler: %w", err)
		}
		defer func() { _ = sched.Shutdown() }()
		log.Println("✅ Weekly leaderboard snapshots scheduled (Sunday 00:05)")
	}

	app := newApp(cfg, ecoService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func newApp(cfg config.Config, ecoService *services.EcoService) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Name",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// health and metrics are registered ahead of the gateway check
	handlers.SetupSystemRoutes(app)

	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken))
	handlers.SetupEcoRoutes(app, ecoService)
	return app
}
