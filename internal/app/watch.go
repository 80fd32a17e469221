package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/orchestrator"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/sceneio"
)

// watch regenerates the sections affected by scene file changes until ctx
// is done. Bursts of events are coalesced over the configured debounce.
func (a *App) watch(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	root := filepath.Clean(a.config.ScenePath)
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to watch scene: %w", err)
	}
	if info.IsDir() {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
	} else {
		// Editors often replace files on save, so the parent is watched.
		err = watcher.Add(filepath.Dir(root))
	}
	if err != nil {
		return fmt.Errorf("failed to watch scene: %w", err)
	}

	debounce := a.config.Debounce
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	logger.Info("👀 Watching scene for changes.", "path", root, "debounce", debounce)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(root, info.IsDir(), event) {
				continue
			}
			if info.IsDir() && event.Has(fsnotify.Create) {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("Failed to watch new directory.", "path", event.Name, "error", err)
					}
				}
			}
			logger.Debug("Scene file event.", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("File watcher error.", "error", err)

		case <-timer.C:
			a.regenerate(ctx)
		}
	}
}

// relevant filters watcher events down to the scene files.
func relevant(root string, isDir bool, event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Clean(event.Name)
	if !isDir {
		return name == root
	}
	if _, err := sceneio.FormatOf(name); err == nil {
		return true
	}
	st, err := os.Stat(name)
	return err == nil && st.IsDir()
}

// regenerate reloads the scene, marks the sections its changes affect and
// runs a pass over them.
func (a *App) regenerate(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	next, err := a.loadScene(ctx)
	if err != nil {
		logger.Error("Failed to reload scene, keeping the previous script.", "error", err)
		return
	}

	changed := scene.Diff(a.Snapshot(), next)
	if len(changed) == 0 {
		logger.Debug("Scene reloaded without changes.")
		return
	}
	a.tracker.MarkMultipleDirty(changed...)
	a.setSnapshot(next)
	logger.Info("Scene changed.", "sections", changed)

	result, err := a.orch.GenerateDirty(ctx, next)
	if err != nil {
		if errors.Is(err, orchestrator.ErrPassInFlight) || errors.Is(err, orchestrator.ErrAborted) {
			logger.Warn("Regeneration did not complete, dirty sections stay queued.", "error", err)
			return
		}
		logger.Error("Regeneration failed.", "error", err)
		return
	}
	a.report(result)

	if err := a.writeOutput(ctx, next); err != nil {
		logger.Error("Failed to write script.", "error", err)
	}
}
