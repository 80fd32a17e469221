package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalOrder(t *testing.T) {
	assert.Equal(t, []Section{
		Initialization, Materials, Geometries, Lattices,
		Sources, Boundaries, Regions, Simulation,
	}, All())
	assert.Equal(t, 8, Count())

	all := All()
	all[0] = Simulation
	assert.Equal(t, Initialization, All()[0], "All must return a copy")
}

func TestCanonicalOrderRespectsDependencies(t *testing.T) {
	order, err := graph.TopologicalOrder()
	require.NoError(t, err)
	assert.Len(t, order, Count())

	for _, s := range All() {
		for _, dep := range s.Dependencies() {
			assert.Less(t, Index(dep), Index(s), "%s must come after %s", s, dep)
		}
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Simulation Assembly", Simulation.Label())
	assert.Equal(t, "Geometries", Geometries.Label())
	assert.Equal(t, "bogus", Section("bogus").Label())
}

func TestDependents(t *testing.T) {
	assert.Equal(t, []Section{Simulation}, Regions.Dependents())
	assert.ElementsMatch(t, []Section{Geometries, Lattices, Sources, Simulation}, Materials.Dependents())
	assert.Empty(t, Simulation.Dependents())
}

func TestSortAndParse(t *testing.T) {
	got := Sort([]Section{Simulation, Geometries, Section("nope"), Geometries, Initialization})
	assert.Equal(t, []Section{Initialization, Geometries, Simulation}, got)

	s, err := Parse("boundaries")
	require.NoError(t, err)
	assert.Equal(t, Boundaries, s)

	_, err = Parse("simulation-assembly")
	assert.ErrorContains(t, err, "unknown section")
}
