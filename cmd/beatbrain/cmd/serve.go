package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/beatbrain/beatbrain/internal/database"
	"github.com/beatbrain/beatbrain/internal/database/migrations"
	internalhttp "github.com/beatbrain/beatbrain/internal/http"
	"github.com/beatbrain/beatbrain/internal/http/handlers"
	"github.com/beatbrain/beatbrain/internal/library"
	"github.com/beatbrain/beatbrain/internal/repository"
	"github.com/beatbrain/beatbrain/internal/scheduler"
	"github.com/beatbrain/beatbrain/internal/service"
	"github.com/beatbrain/beatbrain/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the beatbrain server",
	Long: `Start the beatbrain HTTP server and API.

The server provides:
- REST API for playlists, library browsing, settings and exports
- Health check endpoint
- OpenAPI documentation at /docs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().String("host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().Int("port", 8512, "Port to listen on")
	serveCmd.Flags().String("database", "", "Application database file path")
	serveCmd.Flags().String("library", "", "Mixxx database file path (empty = auto-discover)")

	// Bind flags to viper
	mustBindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	mustBindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	mustBindPFlag("database.path", serveCmd.Flags().Lookup("database"))
	mustBindPFlag("library.path", serveCmd.Flags().Lookup("library"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.Default()

	// Initialize the application database and bring the schema up to date.
	db, err := database.New(cfg.Database, logger, nil)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing database", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	migrator := migrations.NewMigrator(db.DB, logger)
	migrator.RegisterAll(migrations.AllMigrations())
	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Initialize repositories
	playlistRepo := repository.NewPlaylistRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)
	preferencesRepo := repository.NewPreferencesRepository(db.DB)

	// Connect the Mixxx library. A failed connect is not fatal: the client
	// prompts the user for a path and retries through the API.
	reader := library.NewReader(cfg.Library.ConnectTimeout, logger)
	if result := reader.Connect(ctx, cfg.Library.Path); result.Success {
		logger.Info("connected to Mixxx library", slog.String("path", result.Path))
	} else {
		logger.Warn("Mixxx library not connected", slog.String("error", result.Error))
	}
	defer reader.Disconnect()

	// Initialize services
	exportService := service.NewExportService(playlistRepo, settingsRepo).
		WithLogger(logger)

	backupService := service.NewBackupService(
		db.DB,
		cfg.Backup.BackupPath(cfg.Database.Path),
		cfg.Backup.Retention,
	).WithLogger(logger)

	if cfg.Backup.Enabled {
		backupScheduler := scheduler.NewBackupScheduler(backupService, cfg.Backup.Cron).
			WithLogger(logger)
		if err := backupScheduler.Start(); err != nil {
			return fmt.Errorf("starting backup scheduler: %w", err)
		}
		defer backupScheduler.Stop()
	}

	// Initialize HTTP server
	serverCfg := internalhttp.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	serverCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout

	server := internalhttp.NewServer(serverCfg, logger, version.Version)

	// Register API handlers
	handlers.NewHealthHandler(version.Version).
		WithDB(db.DB).
		WithLibraryReader(reader).
		Register(server.API())
	handlers.NewPlaylistHandler(playlistRepo).Register(server.API())
	handlers.NewLibraryHandler(reader).Register(server.API())
	handlers.NewSettingsHandler(settingsRepo).Register(server.API())
	handlers.NewPreferencesHandler(preferencesRepo).Register(server.API())
	handlers.NewExportHandler(exportService).Register(server.API())
	handlers.NewBackupHandler(backupService).Register(server.API())

	docsHandler := handlers.NewDocsHandler("beatbrain API", "/openapi.yaml")
	server.Router().Get("/docs", docsHandler.ServeHTTP)

	// Shut down cleanly on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("starting beatbrain",
		slog.String("version", version.Version),
		slog.String("address", serverCfg.Host),
		slog.Int("port", serverCfg.Port),
		slog.String("database", cfg.Database.Path),
	)

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
