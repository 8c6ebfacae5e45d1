package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vk/wavegrid/internal/config"
	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/dag"
	"github.com/vk/wavegrid/internal/metrics"
	"github.com/vk/wavegrid/internal/pipeline"
	"github.com/vk/wavegrid/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	registry *registry.Registry

	promRegistry *prometheus.Registry
	metrics      *metrics.Recorder

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns an App with
// its own logger, runner registry and Prometheus registry. When no modules
// are given, CoreModules is used.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = CoreModules(outW)
	}
	reg.Load(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "runners", reg.Names())

	promRegistry := prometheus.NewRegistry()

	return &App{
		outW:         outW,
		logger:       logger,
		config:       cfg,
		loader:       loader,
		registry:     reg,
		promRegistry: promRegistry,
		metrics:      metrics.New(promRegistry),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Gatherer exposes the application's metrics.
func (a *App) Gatherer() prometheus.Gatherer {
	return a.promRegistry
}

// Load reads the pipeline files and builds a validated graph from them.
func (a *App) Load(ctx context.Context) (*config.Model, *dag.Graph, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, err := a.loader.Load(ctx, a.config.PipelinePaths...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	a.logger.Debug("Pipeline loaded.", "tasks", len(model.Tasks), "files", model.Files)

	g, err := pipeline.FromModel(ctx, model, a.registry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build task graph: %w", err)
	}
	return model, g, nil
}
