// Package dirty tracks which sections are stale relative to the scene.
//
// A section other than simulation going dirty always takes simulation with
// it in the same locked transition; callers never mark simulation
// themselves.
package dirty

import (
	"sync"

	"github.com/vk/meepgen/internal/section"
)

// Tracker holds one flag per section. The zero value is not usable; call New.
type Tracker struct {
	mu    sync.Mutex
	flags map[section.Section]bool
	// epochs counts dirty transitions per section so a pass can clear only
	// the flags nobody re-raised while it ran.
	epochs map[section.Section]uint64
}

// New returns a tracker with every section dirty, so the first pass
// generates everything.
func New() *Tracker {
	t := &Tracker{
		flags:  make(map[section.Section]bool, section.Count()),
		epochs: make(map[section.Section]uint64, section.Count()),
	}
	t.MarkAllDirty()
	return t
}

// markLocked marks s and applies propagation. Unknown sections are ignored.
func (t *Tracker) markLocked(s section.Section) {
	if !s.Valid() {
		return
	}
	t.flags[s] = true
	t.epochs[s]++
	if s != section.Simulation {
		t.flags[section.Simulation] = true
		t.epochs[section.Simulation]++
	}
}

// MarkDirty marks s dirty, and simulation with it.
func (t *Tracker) MarkDirty(s section.Section) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.markLocked(s)
}

// MarkMultipleDirty marks every section in ss in one transition.
func (t *Tracker) MarkMultipleDirty(ss ...section.Section) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range ss {
		t.markLocked(s)
	}
}

// MarkAllDirty forces a full regeneration.
func (t *Tracker) MarkAllDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range section.All() {
		t.flags[s] = true
		t.epochs[s]++
	}
}

// ClearDirty marks s clean.
func (t *Tracker) ClearDirty(s section.Section) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flags[s] = false
}

// ClearAll marks every section clean.
func (t *Tracker) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range section.All() {
		t.flags[s] = false
	}
}

// Epoch returns the dirty-transition counter of s. Pair it with
// ClearIfUnchanged.
func (t *Tracker) Epoch(s section.Section) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epochs[s]
}

// Capture returns the dirty sections in canonical order together with
// their epochs, atomically.
func (t *Tracker) Capture() ([]section.Section, map[section.Section]uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []section.Section
	epochs := make(map[section.Section]uint64)
	for _, s := range section.All() {
		if t.flags[s] {
			out = append(out, s)
			epochs[s] = t.epochs[s]
		}
	}
	return out, epochs
}

// ClearIfUnchanged clears s only if it was not marked dirty again since
// epoch was read. It reports whether the flag was cleared.
func (t *Tracker) ClearIfUnchanged(s section.Section, epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.epochs[s] != epoch {
		return false
	}
	t.flags[s] = false
	return true
}

// IsDirty reports whether s is dirty.
func (t *Tracker) IsDirty(s section.Section) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flags[s]
}

// IsAnyDirty reports whether any section is dirty.
func (t *Tracker) IsAnyDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, dirty := range t.flags {
		if dirty {
			return true
		}
	}
	return false
}

// DirtySections returns the dirty sections in canonical order.
func (t *Tracker) DirtySections() []section.Section {
	out, _ := t.Capture()
	return out
}

// Flags returns a copy of every flag.
func (t *Tracker) Flags() map[section.Section]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[section.Section]bool, len(t.flags))
	for s, dirty := range t.flags {
		out[s] = dirty
	}
	return out
}
