package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/meepgen/internal/assembler"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/notify"
	"github.com/vk/meepgen/internal/orchestrator"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/sceneio"
)

// Run loads the scene, generates every section and writes the script. In
// watch mode it then keeps regenerating on file changes until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	snap, err := a.loadScene(ctx)
	if err != nil {
		return err
	}
	a.setSnapshot(snap)

	if a.config.StatusPort > 0 {
		a.startStatusServer(ctx)
		defer a.closeStatusServer(ctx)
	}
	if a.config.Notify.URL != "" {
		if stop := a.connectNotifier(ctx); stop != nil {
			defer stop()
		}
	}

	a.logger.Info("🚀 Generating simulation script...", "scene", a.config.ScenePath, "entities", snap.EntityCount())
	result, err := a.orch.GenerateAll(ctx, snap)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	a.report(result)

	if !a.config.Watch {
		if !result.OK() {
			return fmt.Errorf("generation failed: %w", errors.Join(result.Errors()...))
		}
		if err := a.writeOutput(ctx, snap); err != nil {
			return err
		}
		a.logger.Debug("App.Run method finished.")
		return nil
	}

	if err := a.writeOutput(ctx, snap); err != nil {
		a.logger.Error("Failed to write script.", "error", err)
	}
	return a.watch(ctx)
}

// loadScene reads the scene and applies the configured title.
func (a *App) loadScene(ctx context.Context) (*scene.Snapshot, error) {
	snap, err := sceneio.Load(ctx, a.config.ScenePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	if a.config.Title != "" {
		snap.Title = a.config.Title
	}
	return snap, nil
}

// report logs the failed sections of a pass. Warnings are logged by the
// orchestrator as they are found.
func (a *App) report(result *orchestrator.PassResult) {
	for _, o := range result.Outcomes {
		if o.State == orchestrator.StateError {
			a.logger.Error("Section generation failed.", "section", string(o.Section), "error", o.Err)
		}
	}
	a.logger.Info("🏁 Generation finished.",
		"sections", len(result.Outcomes),
		"errors", len(result.Errors()),
		"warnings", len(result.Warnings()))
}

// outputPath resolves where the script for snap is written.
func (a *App) outputPath(snap *scene.Snapshot) string {
	if a.config.OutputPath != "" {
		return a.config.OutputPath
	}
	return assembler.ExportFilename(snap.Title)
}

// writeOutput assembles the stored blocks and writes them out. It refuses
// to write a script with sections that never generated.
func (a *App) writeOutput(ctx context.Context, snap *scene.Snapshot) error {
	missing, err := assembler.Missing(ctx, a.store)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("script is incomplete, sections without code: %v", missing)
	}

	path := a.outputPath(snap)
	if path == "-" {
		if err := assembler.Export(ctx, a.outW, a.store); err != nil {
			return err
		}
		a.publishScript(ctx, snap, assembler.ExportFilename(snap.Title))
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := assembler.ExportFile(ctx, path, a.store); err != nil {
		return err
	}
	a.logger.Info("Script written.", "path", path)
	a.publishScript(ctx, snap, filepath.Base(path))
	return nil
}

// connectNotifier dials the live editor and forwards status updates to it.
// The editor is optional: a failed dial is logged and generation goes on.
func (a *App) connectNotifier(ctx context.Context) (stop func()) {
	n, err := notify.Dial(ctx, a.config.Notify)
	if err != nil {
		a.logger.Warn("Editor notifications disabled.", "error", err)
		return nil
	}
	a.notifier = n
	unsubscribe := a.orch.OnStatusUpdate(n.Status)
	return func() {
		unsubscribe()
		n.Close()
	}
}

// publishScript sends the assembled script to the live editor, if any.
func (a *App) publishScript(ctx context.Context, snap *scene.Snapshot, filename string) {
	if a.notifier == nil {
		return
	}
	script, err := assembler.Assemble(ctx, a.store)
	if err != nil {
		a.logger.Warn("Failed to assemble script for the editor.", "error", err)
		return
	}
	a.notifier.Script(snap.Title, filename, script)
}
