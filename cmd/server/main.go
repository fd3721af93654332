package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/config"
	"github.com/haratakeru-crypto/Tab-button-game/internal/db"
	"github.com/haratakeru-crypto/Tab-button-game/internal/handlers"
	"github.com/haratakeru-crypto/Tab-button-game/internal/logging"
	"github.com/haratakeru-crypto/Tab-button-game/internal/services"
)

func main() {
	root := flag.String("root", ".", "project root containing config/config.yaml")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *printConfig {
		out, err := config.Render(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	// Initialize logger
	log, err := logging.New(cfg.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize answer log database; an empty path disables it
	var answers *services.AnswerLog
	if cfg.Database.Path != "" {
		var database *sql.DB
		database, err = db.Open(cfg.Database.Path)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.String("path", cfg.Database.Path), zap.Error(err))
		}
		defer database.Close()
		answers = services.NewAnswerLog(database)
	}

	// Initialize services
	hub := services.NewUpdateHub(log)
	go hub.Run()
	defer hub.Stop()

	store := services.NewDatasetStore(cfg.Data.Dir, cfg.Runtime.Production(), log)
	store.SetPublisher(hub)
	game := services.NewGameService(store, answers, log)

	assets, err := services.NewAssetStore(cfg.Data.AssetsDir, cfg.Runtime.Production(), log)
	if err != nil {
		log.Fatal("Failed to initialize asset store", zap.String("dir", cfg.Data.AssetsDir), zap.Error(err))
	}

	// Setup routes
	router := handlers.SetupRoutes(handlers.Handlers{
		Datasets:  handlers.NewDatasetHandler(store, log),
		Sessions:  handlers.NewSessionHandler(game, log),
		Assets:    handlers.NewAssetHandler(assets, log),
		WebSocket: handlers.NewWebSocketHandler(hub, log),
	}, handlers.RouterOptions{
		AssetsDir:   cfg.Data.AssetsDir,
		Development: !cfg.Runtime.Production(),
		Log:         log,
	})

	// Configure server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info("Starting server",
		zap.String("addr", cfg.Addr()),
		zap.String("mode", cfg.Runtime.Mode),
		zap.String("data_dir", cfg.Data.Dir),
		zap.Bool("tls", cfg.TLS.Enabled),
	)

	errCh := make(chan error, 1)
	go func() {
		// Configure TLS if enabled
		if cfg.TLS.Enabled {
			server.TLSConfig = &tls.Config{
				MinVersion: getTLSVersion(cfg.TLS.MinVersion),
			}
			log.Info("TLS enabled",
				zap.String("cert_file", cfg.TLS.CertFile),
				zap.String("key_file", cfg.TLS.KeyFile),
				zap.String("min_version", cfg.TLS.MinVersion),
			)
			errCh <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
			return
		}
		log.Warn("HTTP mode is not recommended for production")
		errCh <- server.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
		}
	}
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
