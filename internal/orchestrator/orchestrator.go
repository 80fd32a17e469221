package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/codegen"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/dirty"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
	"github.com/vk/meepgen/internal/validate"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrPassInFlight is returned when a pass is requested while another
	// one is running.
	ErrPassInFlight = errors.New("generation pass already in flight")
	// ErrAborted marks sections and passes stopped by Abort or by the
	// caller's context.
	ErrAborted = errors.New("generation aborted")
)

// GenerateFunc produces the block of one section.
type GenerateFunc func(ctx context.Context, s section.Section, snap *scene.Snapshot) (blockstore.CodeBlock, error)

// ValidateFunc returns the warnings of one section.
type ValidateFunc func(s section.Section, snap *scene.Snapshot) []validate.Warning

// Config tunes an Orchestrator. Zero fields take defaults.
type Config struct {
	// Workers bounds concurrent section tasks; defaults to GOMAXPROCS.
	Workers int
	// Generate defaults to codegen.Generate.
	Generate GenerateFunc
	// Validate defaults to validate.Section.
	Validate ValidateFunc
}

// Orchestrator schedules generation passes.
type Orchestrator struct {
	tracker  *dirty.Tracker
	store    blockstore.Store
	workers  int
	generate GenerateFunc
	validate ValidateFunc

	mu       sync.Mutex
	cancel   context.CancelFunc
	statuses map[section.Section]Status

	obsMu     sync.Mutex
	observers map[uint64]func(Status)
	nextObs   uint64
}

// New creates an orchestrator over tracker and store.
func New(tracker *dirty.Tracker, store blockstore.Store, cfg Config) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Generate == nil {
		cfg.Generate = codegen.Generate
	}
	if cfg.Validate == nil {
		cfg.Validate = validate.Section
	}
	o := &Orchestrator{
		tracker:   tracker,
		store:     store,
		workers:   cfg.Workers,
		generate:  cfg.Generate,
		validate:  cfg.Validate,
		statuses:  make(map[section.Section]Status, section.Count()),
		observers: make(map[uint64]func(Status)),
	}
	for _, s := range section.All() {
		o.statuses[s] = Status{Section: s, State: StatePending}
	}
	return o
}

// Tracker returns the dirty tracker the orchestrator reads.
func (o *Orchestrator) Tracker() *dirty.Tracker { return o.tracker }

// Store returns the code block registry the orchestrator writes.
func (o *Orchestrator) Store() blockstore.Store { return o.store }

// GenerateDirty runs a pass over the currently dirty sections. The returned
// error is ErrPassInFlight, or ErrAborted together with a partial result;
// section failures are reported in the result only.
func (o *Orchestrator) GenerateDirty(ctx context.Context, snap *scene.Snapshot) (*PassResult, error) {
	passCtx, done, err := o.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()
	return o.pass(passCtx, snap)
}

// GenerateAll marks every section dirty and runs a pass.
func (o *Orchestrator) GenerateAll(ctx context.Context, snap *scene.Snapshot) (*PassResult, error) {
	passCtx, done, err := o.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()
	o.tracker.MarkAllDirty()
	return o.pass(passCtx, snap)
}

// begin claims the single pass slot and installs its cancel func in one
// step, so an Abort issued once InFlight reports true always lands.
func (o *Orchestrator) begin(ctx context.Context) (context.Context, func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		return nil, nil, ErrPassInFlight
	}
	passCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	return passCtx, func() {
		o.mu.Lock()
		o.cancel = nil
		o.mu.Unlock()
		cancel()
	}, nil
}

// InFlight reports whether a pass is running.
func (o *Orchestrator) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancel != nil
}

// Abort cancels the pass in flight, if any, and reports whether there was
// one.
func (o *Orchestrator) Abort() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel == nil {
		return false
	}
	o.cancel()
	return true
}

func (o *Orchestrator) pass(ctx context.Context, snap *scene.Snapshot) (*PassResult, error) {
	logger := ctxlog.FromContext(ctx)
	if snap == nil {
		snap = scene.New()
	} else {
		snap = snap.Clone()
	}

	sections, epochs := o.tracker.Capture()
	logger.Debug("Starting generation pass.", "sections", len(sections), "workers", o.workers)
	start := time.Now()
	for _, s := range sections {
		o.publish(ctx, Status{Section: s, State: StateGenerating, StartTime: start})
	}

	outcomes := make([]Outcome, len(sections))
	g := new(errgroup.Group)
	g.SetLimit(o.workers)
	for i, s := range sections {
		g.Go(func() error {
			outcomes[i] = o.runSection(ctx, s, snap, epochs[s])
			return nil
		})
	}
	_ = g.Wait()

	res := &PassResult{Outcomes: outcomes}
	logger.Info("Generation pass finished.",
		"sections", len(sections),
		"failed", len(res.Errors()),
		"warnings", len(res.Warnings()),
		"duration", time.Since(start))
	if res.Aborted() {
		return res, ErrAborted
	}
	return res, nil
}

func (o *Orchestrator) runSection(ctx context.Context, s section.Section, snap *scene.Snapshot, epoch uint64) Outcome {
	logger := ctxlog.FromContext(ctx).With("section", string(s))
	start := time.Now()
	aborted := func() Outcome {
		err := fmt.Errorf("%s: %w", s, ErrAborted)
		logger.Debug("Section generation aborted.")
		o.publish(ctx, Status{Section: s, State: StateAborted, StartTime: start, EndTime: time.Now(), Err: err})
		return Outcome{Section: s, State: StateAborted, Err: err, Duration: time.Since(start)}
	}

	if ctx.Err() != nil {
		return aborted()
	}
	block, err := o.safeGenerate(ctx, s, snap)
	if ctx.Err() != nil {
		return aborted()
	}

	warnings := o.validate(s, snap)
	for _, w := range warnings {
		logger.Warn("Validation warning.", "entity", w.EntityID, "message", w.Message)
	}

	end := time.Now()
	if err != nil {
		logger.Error("Section generation failed.", "error", err)
		if serr := o.store.SetError(ctx, s, err); serr != nil {
			logger.Error("Failed to record section error.", "error", serr)
		}
		o.publish(ctx, Status{Section: s, State: StateError, StartTime: start, EndTime: end, Err: err})
		return Outcome{Section: s, State: StateError, Err: err, Warnings: warnings, Duration: end.Sub(start)}
	}

	if perr := o.store.Put(ctx, block); perr != nil {
		err := &codegen.GenerationError{Section: s, Message: "cannot store block", Err: perr}
		logger.Error("Section generation failed.", "error", err)
		o.publish(ctx, Status{Section: s, State: StateError, StartTime: start, EndTime: end, Err: err})
		return Outcome{Section: s, State: StateError, Err: err, Warnings: warnings, Duration: end.Sub(start)}
	}
	if !o.tracker.ClearIfUnchanged(s, epoch) {
		logger.Debug("Section changed during generation, keeping it dirty.")
	}
	logger.Debug("Section generated.", "bytes", len(block.Content), "duration", end.Sub(start))
	o.publish(ctx, Status{Section: s, State: StateComplete, StartTime: start, EndTime: end})
	return Outcome{Section: s, State: StateComplete, Warnings: warnings, Duration: end.Sub(start)}
}

// safeGenerate turns generator panics and foreign errors into
// *codegen.GenerationError.
func (o *Orchestrator) safeGenerate(ctx context.Context, s section.Section, snap *scene.Snapshot) (block blockstore.CodeBlock, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &codegen.GenerationError{Section: s, Message: fmt.Sprintf("generator panicked: %v", r)}
		}
	}()
	block, err = o.generate(ctx, s, snap)
	if err != nil {
		var ge *codegen.GenerationError
		if !errors.As(err, &ge) {
			err = &codegen.GenerationError{Section: s, Message: "generator failed", Err: err}
		}
	}
	return block, err
}

// SectionStatus returns the latest status of s.
func (o *Orchestrator) SectionStatus(s section.Section) Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.statuses[s]
}

// AllSectionStatus returns the latest status of every section in canonical
// order.
func (o *Orchestrator) AllSectionStatus() []Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Status, 0, len(o.statuses))
	for _, s := range section.All() {
		out = append(out, o.statuses[s])
	}
	return out
}

// IsAnyGenerating reports whether any section is being generated.
func (o *Orchestrator) IsAnyGenerating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, st := range o.statuses {
		if st.State == StateGenerating {
			return true
		}
	}
	return false
}
