package notify

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/meepgen/internal/orchestrator"
	"github.com/vk/meepgen/internal/section"
)

type recorded struct {
	event string
	data  any
}

func fakeNotifier(events *[]recorded) *Notifier {
	n := &Notifier{
		emit:       func(event string, data any) { *events = append(*events, recorded{event, data}) },
		disconnect: func() {},
	}
	n.connected.Store(true)
	return n
}

func TestStatusPayload(t *testing.T) {
	got := StatusPayload(orchestrator.Status{
		Section: section.Simulation,
		State:   orchestrator.StateError,
		Err:     errors.New("boom"),
	})
	assert.Equal(t, map[string]any{
		"section": "simulation",
		"label":   "Simulation Assembly",
		"state":   "error",
		"error":   "boom",
	}, got)

	ok := StatusPayload(orchestrator.Status{Section: section.Materials, State: orchestrator.StateComplete})
	assert.NotContains(t, ok, "error")
}

func TestNotifier_EmitsWhileConnected(t *testing.T) {
	var events []recorded
	n := fakeNotifier(&events)

	n.Status(orchestrator.Status{Section: section.Sources, State: orchestrator.StateGenerating})
	n.Script("Ring", "ring.py", "import meep as mp\n")

	require.Len(t, events, 2)
	assert.Equal(t, EventStatus, events[0].event)
	assert.Equal(t, EventScript, events[1].event)
	assert.Equal(t, "ring.py", events[1].data.(map[string]any)["filename"])
}

func TestNotifier_DropsAfterClose(t *testing.T) {
	var events []recorded
	n := fakeNotifier(&events)
	disconnects := 0
	n.disconnect = func() { disconnects++ }

	n.Close()
	n.Close()
	n.Status(orchestrator.Status{Section: section.Sources, State: orchestrator.StateComplete})

	assert.Empty(t, events)
	assert.Equal(t, 1, disconnects)
	assert.False(t, n.Connected())
}

func TestDial_RejectsRelativeURL(t *testing.T) {
	_, err := Dial(context.Background(), Options{URL: "/editor"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be absolute")
}

func TestDial_UnreachableEditor(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	n, err := Dial(context.Background(), Options{URL: "http://" + addr, ConnectTimeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.Nil(t, n)
	assert.Regexp(t, `^(failed to connect|timed out connecting) to editor at http://`, err.Error())
}
