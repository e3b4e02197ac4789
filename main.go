package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notedeck/notedeck-be/internal/api"
	"github.com/notedeck/notedeck-be/internal/auth"
	"github.com/notedeck/notedeck-be/internal/config"
	"github.com/notedeck/notedeck-be/internal/database"
	"github.com/notedeck/notedeck-be/internal/logger"
	"github.com/notedeck/notedeck-be/internal/models"
	"github.com/notedeck/notedeck-be/internal/monitoring"
	"github.com/notedeck/notedeck-be/internal/services"
	"github.com/notedeck/notedeck-be/internal/storage"
	"github.com/notedeck/notedeck-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Ensure the persisted-state layout exists: userFiles tree and snapshots
	if err := os.MkdirAll(cfg.UserFilesDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create userFiles directory")
	}
	if err := os.MkdirAll(cfg.SnapshotDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create snapshot directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the file store and make sure the shared tree exists
	store := storage.NewUserFileStore(cfg.UserFilesDir)
	if err := store.EnsureRoot(models.PublicNamespace); err != nil {
		log.Fatal().Err(err).Msg("Failed to create public namespace directory")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	snapshotService := services.NewSnapshotService(db, store, eventService, cfg.SnapshotDir)

	// Set up and run the background usage updater
	usageUpdater := monitoring.NewUsageUpdater(cfg.DataRoot, eventService)
	go usageUpdater.Run()

	// Set up and run the background snapshot scheduler, if configured
	scheduler, err := monitoring.NewSnapshotScheduler(snapshotService, store, eventService, cfg.SnapshotCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up snapshot scheduler")
	}
	if scheduler != nil {
		go scheduler.Run()
	}

	// Set up router
	router := api.NewRouter(api.Deps{
		Tokens:        tokens,
		Users:         userService,
		Events:        eventService,
		Snapshots:     snapshotService,
		Store:         store,
		Hub:           hub,
		Usage:         usageUpdater,
		AllowedOrigin: cfg.AllowedOrigin,
		SecureCookies: os.Getenv("APP_ENV") == "production",
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	usageUpdater.Stop()
	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
