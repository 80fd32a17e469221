package dirty

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/meepgen/internal/section"
)

func clean() *Tracker {
	t := New()
	t.ClearAll()
	return t
}

func TestNewTrackerIsAllDirty(t *testing.T) {
	tr := New()
	assert.Equal(t, section.All(), tr.DirtySections())
	assert.True(t, tr.IsAnyDirty())
}

func TestPropagationToSimulation(t *testing.T) {
	for _, s := range section.All() {
		if s == section.Simulation {
			continue
		}
		t.Run(string(s), func(t *testing.T) {
			tr := clean()
			tr.MarkDirty(s)
			assert.True(t, tr.IsDirty(s))
			assert.True(t, tr.IsDirty(section.Simulation))
			assert.Equal(t, []section.Section{s, section.Simulation}, tr.DirtySections())
		})
	}
}

func TestSimulationAloneDoesNotPropagate(t *testing.T) {
	tr := clean()
	tr.MarkDirty(section.Simulation)
	assert.Equal(t, []section.Section{section.Simulation}, tr.DirtySections())
}

func TestMarkMultipleDirtyIsCanonicallyOrdered(t *testing.T) {
	tr := clean()
	tr.MarkMultipleDirty(section.Regions, section.Materials, section.Section("nope"))
	assert.Equal(t, []section.Section{section.Materials, section.Regions, section.Simulation}, tr.DirtySections())
}

func TestClear(t *testing.T) {
	tr := New()
	tr.ClearDirty(section.Sources)
	assert.False(t, tr.IsDirty(section.Sources))
	assert.True(t, tr.IsDirty(section.Simulation))

	tr.ClearAll()
	assert.False(t, tr.IsAnyDirty())
	assert.Empty(t, tr.DirtySections())
}

func TestClearIfUnchanged(t *testing.T) {
	tr := clean()
	tr.MarkDirty(section.Geometries)
	dirty, epochs := tr.Capture()
	require.Equal(t, []section.Section{section.Geometries, section.Simulation}, dirty)

	// Re-dirtied while the pass ran: the flag must survive.
	tr.MarkDirty(section.Geometries)
	assert.False(t, tr.ClearIfUnchanged(section.Geometries, epochs[section.Geometries]))
	assert.True(t, tr.IsDirty(section.Geometries))

	assert.False(t, tr.ClearIfUnchanged(section.Simulation, epochs[section.Simulation]))
	assert.True(t, tr.ClearIfUnchanged(section.Simulation, tr.Epoch(section.Simulation)))
	assert.False(t, tr.IsDirty(section.Simulation))
}

func TestFlagsIsACopy(t *testing.T) {
	tr := clean()
	flags := tr.Flags()
	require.Len(t, flags, section.Count())
	flags[section.Boundaries] = true
	assert.False(t, tr.IsDirty(section.Boundaries))
}

func TestConcurrentMarking(t *testing.T) {
	tr := clean()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := section.All()[i%section.Count()]
			tr.MarkDirty(s)
			_ = tr.IsAnyDirty()
			_ = tr.Flags()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, section.All(), tr.DirtySections())
}
