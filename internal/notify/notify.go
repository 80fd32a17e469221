// Package notify pushes generation progress to a live editor over
// Socket.IO. Section status transitions and finished scripts are emitted as
// events on a namespace of the editor's server.
package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/orchestrator"
)

// Event names.
const (
	EventStatus = "section_status"
	EventScript = "script_ready"
)

// Options configures a Notifier.
type Options struct {
	URL                string
	Namespace          string
	ConnectTimeout     time.Duration
	InsecureSkipVerify bool
}

// Notifier emits events to a connected Socket.IO namespace. Emits made
// while disconnected are dropped.
type Notifier struct {
	emit       func(event string, data any)
	disconnect func()
	connected  atomic.Bool
	closeOnce  sync.Once
}

// Dial connects to the editor and waits for the connection to be
// established, up to opts.ConnectTimeout.
func Dial(ctx context.Context, opts Options) (*Notifier, error) {
	logger := ctxlog.FromContext(ctx).With("url", opts.URL, "namespace", opts.Namespace)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notify URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must be absolute", opts.URL)
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(namespace, sockOpts)

	n := &Notifier{
		emit:       func(event string, data any) { io.Emit(event, data) },
		disconnect: func() { io.Disconnect() },
	}

	ready := make(chan error, 1)
	io.On(types.EventName("connect"), func(...any) {
		n.connected.Store(true)
		logger.Info("Connected to editor.", "sid", io.Id())
		select {
		case ready <- nil:
		default:
		}
	})
	io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case ready <- err:
		default:
		}
	})
	io.On(types.EventName("disconnect"), func(...any) {
		n.connected.Store(false)
		logger.Debug("Disconnected from editor.")
	})

	io.Connect()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	select {
	case <-waitCtx.Done():
		n.Close()
		return nil, fmt.Errorf("timed out connecting to editor at %s", opts.URL)
	case err := <-ready:
		if err != nil {
			n.Close()
			return nil, fmt.Errorf("failed to connect to editor at %s: %w", opts.URL, err)
		}
	}
	return n, nil
}

// Connected reports whether the socket is currently connected.
func (n *Notifier) Connected() bool {
	return n.connected.Load()
}

// StatusPayload is the data of a section_status event.
func StatusPayload(st orchestrator.Status) map[string]any {
	payload := map[string]any{
		"section": string(st.Section),
		"label":   st.Section.Label(),
		"state":   string(st.State),
	}
	if st.Err != nil {
		payload["error"] = st.Err.Error()
	}
	return payload
}

// Status emits a section status transition.
func (n *Notifier) Status(st orchestrator.Status) {
	n.send(EventStatus, StatusPayload(st))
}

// Script emits a finished script with the filename it is exported under.
func (n *Notifier) Script(title, filename, script string) {
	n.send(EventScript, map[string]any{
		"title":    title,
		"filename": filename,
		"script":   script,
	})
}

func (n *Notifier) send(event string, data any) {
	if !n.Connected() {
		return
	}
	n.emit(event, data)
}

// Close disconnects the socket. It is safe to call more than once.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		n.connected.Store(false)
		n.disconnect()
	})
}
