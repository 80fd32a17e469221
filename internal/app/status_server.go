package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vk/meepgen/internal/assembler"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/orchestrator"
)

// sectionStatus is the wire form of orchestrator.Status.
type sectionStatus struct {
	Section   string             `json:"section"`
	Label     string             `json:"label"`
	State     orchestrator.State `json:"state"`
	StartTime *time.Time         `json:"startTime,omitempty"`
	EndTime   *time.Time         `json:"endTime,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// statusReport is the body of GET /status.
type statusReport struct {
	Generating bool            `json:"generating"`
	Dirty      []string        `json:"dirty"`
	Sections   []sectionStatus `json:"sections"`
}

func toSectionStatus(st orchestrator.Status) sectionStatus {
	out := sectionStatus{
		Section: string(st.Section),
		Label:   st.Section.Label(),
		State:   st.State,
	}
	if !st.StartTime.IsZero() {
		t := st.StartTime
		out.StartTime = &t
	}
	if !st.EndTime.IsZero() {
		t := st.EndTime
		out.EndTime = &t
	}
	if st.Err != nil {
		out.Error = st.Err.Error()
	}
	return out
}

func (a *App) statusReport() statusReport {
	report := statusReport{
		Generating: a.orch.IsAnyGenerating(),
		Dirty:      []string{},
	}
	for _, s := range a.tracker.DirtySections() {
		report.Dirty = append(report.Dirty, string(s))
	}
	for _, st := range a.orch.AllSectionStatus() {
		report.Sections = append(report.Sections, toSectionStatus(st))
	}
	return report
}

// routes builds the status server's handler.
func (a *App) routes(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)
	mux.HandleFunc("GET /status", a.statusHandler)
	mux.HandleFunc("GET /script", func(w http.ResponseWriter, r *http.Request) {
		a.scriptHandler(ctx, w, r)
	})
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		a.wsHandler(ctx, w, r)
	})
	return mux
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remoteAddr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.statusReport()); err != nil {
		a.logger.Error("Failed to encode status.", "error", err)
	}
}

// scriptHandler serves the assembled script. Until every section has
// generated once it answers 503.
func (a *App) scriptHandler(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	missing, err := assembler.Missing(ctx, a.store)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(missing) > 0 {
		http.Error(w, fmt.Sprintf("script not ready, sections without code: %v", missing), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/x-python; charset=utf-8")
	if snap := a.Snapshot(); snap != nil {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", assembler.ExportFilename(snap.Title)))
	}
	if err := assembler.Export(ctx, w, a.store); err != nil {
		a.logger.Error("Failed to serve script.", "error", err)
	}
}

var upgrader = websocket.Upgrader{}

// wsHandler streams status updates as JSON messages. The current status of
// every section is sent first.
func (a *App) wsHandler(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(ctx)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed.", "error", err)
		return
	}
	defer conn.Close()
	logger.Debug("Status stream client connected.", "remoteAddr", r.RemoteAddr)

	updates, cancel := a.orch.Subscribe(64)
	defer cancel()

	// The read loop only exists to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for _, st := range a.orch.AllSectionStatus() {
		if err := conn.WriteJSON(toSectionStatus(st)); err != nil {
			return
		}
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		case <-closed:
			logger.Debug("Status stream client disconnected.", "remoteAddr", r.RemoteAddr)
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(toSectionStatus(st)); err != nil {
				logger.Debug("Status stream write failed.", "error", err)
				return
			}
		}
	}
}

// startStatusServer runs the status HTTP server in the background.
func (a *App) startStatusServer(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Configuring status server.")

	serverCtx, cancel := context.WithCancel(ctx)
	addr := fmt.Sprintf(":%d", a.config.StatusPort)
	a.httpServer = &http.Server{
		Addr:    addr,
		Handler: a.routes(serverCtx),
	}
	a.httpServer.RegisterOnShutdown(cancel)

	go func() {
		logger.Info("🩺 Status server starting", "address", fmt.Sprintf("http://localhost%s/status", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Status server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeStatusServer(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.httpServer == nil {
		logger.Debug("Status server was not running.")
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	logger.Info("🩺 Shutting down status server...")
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Status server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Status server shut down gracefully.")
	return nil
}
