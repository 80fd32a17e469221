package orchestrator

import (
	"context"
	"sync"

	"github.com/vk/meepgen/internal/ctxlog"
)

// OnStatusUpdate registers fn for every status transition and returns a
// function that removes it.
func (o *Orchestrator) OnStatusUpdate(fn func(Status)) (unsubscribe func()) {
	o.obsMu.Lock()
	id := o.nextObs
	o.nextObs++
	o.observers[id] = fn
	o.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.obsMu.Lock()
			delete(o.observers, id)
			o.obsMu.Unlock()
		})
	}
}

// Subscribe returns a channel of status transitions buffered to buf. A
// subscriber that falls behind misses transitions rather than stalling the
// pass. cancel closes the channel.
func (o *Orchestrator) Subscribe(buf int) (<-chan Status, func()) {
	ch := make(chan Status, buf)
	var (
		mu     sync.Mutex
		closed bool
	)
	unsubscribe := o.OnStatusUpdate(func(st Status) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- st:
		default:
		}
	})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}
	return ch, cancel
}

// publish records st and delivers it to the observers.
func (o *Orchestrator) publish(ctx context.Context, st Status) {
	o.mu.Lock()
	o.statuses[st.Section] = st
	o.mu.Unlock()

	o.obsMu.Lock()
	fns := make([]func(Status), 0, len(o.observers))
	for _, fn := range o.observers {
		fns = append(fns, fn)
	}
	o.obsMu.Unlock()

	for _, fn := range fns {
		notify(ctx, fn, st)
	}
}

func notify(ctx context.Context, fn func(Status), st Status) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Status observer panicked.", "section", string(st.Section), "panic", r)
		}
	}()
	fn(st)
}
