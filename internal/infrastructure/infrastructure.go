// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, tracing, database) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/roster/internal/config"
	"github.com/JaimeStill/roster/internal/migrations"
	"github.com/JaimeStill/roster/pkg/database"
	"github.com/JaimeStill/roster/pkg/lifecycle"
	"github.com/JaimeStill/roster/pkg/telemetry"
)

const telemetryFlushTimeout = 5 * time.Second

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, tracing, and document store access.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Telemetry telemetry.ShutdownFunc
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with log output directed to w.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(&cfg.Logging, w)

	source, err := migrations.For(cfg.Database.Driver)
	if err != nil {
		return nil, fmt.Errorf("migrations init failed: %w", err)
	}

	db, err := database.New(&cfg.Database, logger, source)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	shutdown, err := telemetry.Setup(context.Background(), &cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("telemetry init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Telemetry: shutdown,
	}, nil
}

// NewLogger creates a structured logger writing to w in the configured format and level.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The database connects and migrates on startup; spans are flushed and the
// connection closed on shutdown.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()

		if err := i.Telemetry(ctx); err != nil {
			i.Logger.Error("telemetry flush failed", "error", err)
		}
	})

	return nil
}
