package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/pharmaguard-server/internal/api"
	"github.com/pharmaguard-server/internal/audit"
	"github.com/pharmaguard-server/internal/config"
	"github.com/pharmaguard-server/internal/domain"
	"github.com/pharmaguard-server/internal/narrative"
	"github.com/pharmaguard-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting PharmaGuard server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Usage-audit store selected by driver; disabled by default
	auditor, err := newAuditStore(cfg.Audit, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open audit store")
	}
	defer auditor.Close()

	// Narrator with its summary cache
	cache, err := newNarrativeCache(cfg.Cache)
	if err != nil {
		logger.WithError(err).Warn("Shared narrative cache unavailable, using local cache only")
	}
	narrator, err := narrative.NewGenerator(ctx, cfg.Narrator, cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize narrator")
	}

	mapper := service.NewResponseMapper(narrator)
	analysis := service.NewAnalysisService(mapper, cfg.Upload.MaxFileSize, logger)

	server := api.NewServer(cfg, analysis, auditor, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(cfg.Format) == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

func newAuditStore(cfg domain.AuditConfig, logger *logrus.Logger) (audit.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		return audit.NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		if cfg.MigrationsPath != "" {
			runner, err := audit.NewMigrationRunner(cfg.PostgresURL, cfg.MigrationsPath, logger)
			if err != nil {
				return nil, err
			}
			defer runner.Close()
			if err := runner.Up(); err != nil {
				return nil, err
			}
		}
		return audit.NewPostgresStoreFromURL(cfg.PostgresURL)
	default:
		return audit.NopStore{}, nil
	}
}

func newNarrativeCache(cfg domain.CacheConfig) (narrative.Cache, error) {
	local, err := narrative.NewLRUCache(cfg.LRUSize)
	if err != nil {
		return nil, err
	}
	if cfg.RedisURL == "" {
		return local, nil
	}

	shared, err := narrative.NewRedisCache(cfg.RedisURL, cfg.TTL)
	if err != nil {
		// Local cache still works without Redis
		return local, err
	}
	return narrative.NewTieredCache(local, shared), nil
}
