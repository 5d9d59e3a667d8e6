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

	"github.com/dukerupert/shoplist/internal/backup"
	"github.com/dukerupert/shoplist/internal/config"
	"github.com/dukerupert/shoplist/internal/database"
	"github.com/dukerupert/shoplist/internal/logging"
	"github.com/dukerupert/shoplist/internal/server"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.RestoreKey != "" {
		restorer := backup.NewManager(cfg.Backup, nil, logger.With("component", "backup"))
		if err := restorer.Restore(context.Background(), cfg.RestoreKey, cfg.DBPath); err != nil {
			logger.Error("restore failed", "key", cfg.RestoreKey, "error", err)
			os.Exit(1)
		}
		logger.Info("restore complete", "key", cfg.RestoreKey, "path", cfg.DBPath)
		return
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, server.Options{
		UserHeader:     cfg.UserHeader,
		WriteLimit:     cfg.WriteLimit,
		AutoCategorize: cfg.AutoCategorize,
	}, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Expired rate-limit windows.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	backups := backup.NewManager(cfg.Backup, db, logger.With("component", "backup"))
	if cfg.Backup.Enabled() {
		logger.Info("scheduled backups enabled", "bucket", cfg.Backup.Bucket, "interval", cfg.Backup.Interval)
		go backups.Start(ctx)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("shoplist listening", "addr", httpServer.Addr, "db", cfg.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
