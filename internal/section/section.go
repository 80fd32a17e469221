// Package section names the eight units of a generated simulation program,
// their canonical assembly order, display labels and declared dependencies.
package section

import (
	"fmt"

	"github.com/vk/meepgen/internal/dag"
)

// Section identifies one unit of the generated program. Its string value is
// also the key of the dirty-flag record and of the code block registry.
type Section string

const (
	Initialization Section = "initialization"
	Materials      Section = "materials"
	Geometries     Section = "geometries"
	Lattices       Section = "lattices"
	Sources        Section = "sources"
	Boundaries     Section = "boundaries"
	Regions        Section = "regions"
	Simulation     Section = "simulation"
)

// canonical is the fixed assembly order. It never depends on the order in
// which generation tasks complete.
var canonical = [...]Section{
	Initialization,
	Materials,
	Geometries,
	Lattices,
	Sources,
	Boundaries,
	Regions,
	Simulation,
}

var labels = map[Section]string{
	Initialization: "Initialization",
	Materials:      "Materials",
	Geometries:     "Geometries",
	Lattices:       "Lattices",
	Sources:        "Sources",
	Boundaries:     "Boundaries",
	Regions:        "Regions",
	Simulation:     "Simulation Assembly",
}

var dependencies = map[Section][]Section{
	Initialization: nil,
	Materials:      {Initialization},
	Geometries:     {Initialization, Materials},
	Lattices:       {Initialization, Materials, Geometries},
	Sources:        {Initialization, Geometries},
	Boundaries:     {Initialization},
	Regions:        {Initialization},
	Simulation:     {Initialization, Materials, Geometries, Lattices, Sources, Boundaries, Regions},
}

var graph = mustBuildGraph()

// All returns the sections in canonical order. The returned slice is a copy.
func All() []Section {
	out := make([]Section, len(canonical))
	copy(out, canonical[:])
	return out
}

// Count is the number of sections.
func Count() int { return len(canonical) }

// Index returns the position of s in the canonical order, or -1.
func Index(s Section) int {
	for i, c := range canonical {
		if c == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the eight known sections.
func (s Section) Valid() bool { return Index(s) >= 0 }

// Label is the human-readable name shown in the banner and in status output.
func (s Section) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Dependencies returns the sections whose output s refers to.
func (s Section) Dependencies() []Section {
	deps := dependencies[s]
	out := make([]Section, len(deps))
	copy(out, deps)
	return out
}

// Dependents returns every section that directly or transitively depends on s.
func (s Section) Dependents() []Section {
	ids, err := graph.Closure(string(s))
	if err != nil {
		return nil
	}
	out := make([]Section, len(ids))
	for i, id := range ids {
		out[i] = Section(id)
	}
	return out
}

// Sort orders secs canonically in place and drops duplicates and unknown
// values, returning the resulting slice.
func Sort(secs []Section) []Section {
	present := make(map[Section]bool, len(secs))
	for _, s := range secs {
		present[s] = true
	}
	out := secs[:0]
	for _, s := range canonical {
		if present[s] {
			out = append(out, s)
		}
	}
	return out
}

// Parse converts a string into a Section.
func Parse(v string) (Section, error) {
	s := Section(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown section %q", v)
	}
	return s, nil
}

func mustBuildGraph() *dag.Graph {
	g := dag.New()
	for _, s := range canonical {
		g.AddNode(string(s))
	}
	for _, s := range canonical {
		for _, dep := range dependencies[s] {
			if err := g.AddEdge(string(dep), string(s)); err != nil {
				panic(fmt.Errorf("section graph: %w", err))
			}
		}
	}
	if err := g.DetectCycles(); err != nil {
		panic(fmt.Errorf("section graph: %w", err))
	}
	order := make([]string, len(canonical))
	for i, s := range canonical {
		order[i] = string(s)
	}
	if err := g.IsOrdered(order); err != nil {
		panic(fmt.Errorf("canonical section order is not a topological order: %w", err))
	}
	return g
}
