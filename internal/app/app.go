package app

import (
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/dirty"
	"github.com/vk/meepgen/internal/notify"
	"github.com/vk/meepgen/internal/orchestrator"
	"github.com/vk/meepgen/internal/scene"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer // script destination when OutputPath is "-"
	logger *slog.Logger
	config *Config

	tracker *dirty.Tracker
	store   *blockstore.Memory
	orch    *orchestrator.Orchestrator

	mu   sync.RWMutex
	snap *scene.Snapshot

	httpServer *http.Server
	notifier   *notify.Notifier
}

// NewApp is the constructor for the main application. Scripts written to
// standard output go to outW; log records go to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	tracker := dirty.New()
	store := blockstore.NewMemory()
	orch := orchestrator.New(tracker, store, orchestrator.Config{Workers: cfg.Workers})
	logger.Debug("Orchestrator created.", "workers", cfg.Workers)

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		tracker: tracker,
		store:   store,
		orch:    orch,
	}
}

// Orchestrator returns the application's orchestrator. This is primarily for testing.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orch
}

// Snapshot returns the scene the last pass generated from.
func (a *App) Snapshot() *scene.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap
}

func (a *App) setSnapshot(s *scene.Snapshot) {
	a.mu.Lock()
	a.snap = s
	a.mu.Unlock()
}
