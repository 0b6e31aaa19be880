package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/carbon/internal/api/v1"
	"github.com/vmunix/carbon/internal/app"
	"github.com/vmunix/carbon/internal/config"
	"github.com/vmunix/carbon/internal/events"
	"github.com/vmunix/carbon/internal/handlers"
	"github.com/vmunix/carbon/internal/migrations"
	"github.com/vmunix/carbon/internal/server"
)

// resolveConfig loads path, or the discovered config. With nothing found the
// default config is written to the XDG location first.
func resolveConfig(path string) (*config.Config, error) {
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			if os.Getenv("CARBON_CONFIG") != "" {
				return nil, err
			}
			return config.LoadOrCreate(config.DefaultPath())
		}
		path = found
	}
	return config.Load(path)
}

func openDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func runServer(configPath string) error {
	cfg, err := resolveConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeLog := config.SetupLogger(cfg.Log, os.Stdout)
	defer func() { _ = closeLog() }()

	if err := app.CheckTools(cfg); err != nil {
		// Jobs fail with a clear error until the tool is installed.
		logger.Warn("external tools missing", "error", err)
	}

	db, err := openDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	pipeline, err := app.Build(cfg, bus, logger)
	if err != nil {
		return err
	}

	journal := handlers.NewJournalHandler(bus, eventLog, handlers.JournalConfig{
		Retention: cfg.Database.Retention,
	}, logger.With("component", "journal"))

	api := v1.New(pipeline.Scheduler, eventLog, v1.Config{
		Version:       version,
		CancelTimeout: cfg.Queue.CancelTimeout,
	}, logger.With("component", "api"))
	defer api.Close()

	runner := server.NewRunner(server.Config{Addr: cfg.Addr()}, pipeline.Scheduler,
		[]handlers.Handler{journal}, api.Handler(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("server starting",
		"addr", cfg.Addr(),
		"output", cfg.Output.Directory,
		"database", cfg.Database.Path,
		"max_concurrent", cfg.Queue.MaxConcurrent,
		"auto_convert", cfg.Output.AutoConvert,
		"log_level", cfg.Log.Level,
	)

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
