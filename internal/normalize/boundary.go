package normalize

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/scene"
)

// Edge is one side of the simulation cell.
type Edge string

const (
	Top    Edge = "top"
	Right  Edge = "right"
	Bottom Edge = "bottom"
	Left   Edge = "left"
)

// Edges lists the four edges in emission order.
var Edges = []Edge{Top, Right, Bottom, Left}

// ParamSetCount is the number of parameter sets a boundary carries.
const ParamSetCount = 4

// ParamSet is one named bundle of PML parameters.
type ParamSet struct {
	Active      bool
	Thickness   float64
	RAsymptotic float64
}

// Rejection records an edge assignment that was dropped.
type Rejection struct {
	Edge   string
	Set    int
	Reason string
}

// PML is a normalized PML boundary entity.
type PML struct {
	ID          string
	Sets        [ParamSetCount]ParamSet
	Assignments map[Edge]int
	// Rejected lists assignments to unknown edges or to missing or inactive
	// parameter sets. Those edges get no boundary.
	Rejected []Rejection
}

// IsPML reports whether e is a PML boundary entity.
func IsPML(e scene.Entity) bool {
	switch e.Tag() {
	case scene.KindPmlBoundary, "pml", "PML":
		return true
	}
	return false
}

// Boundary normalizes a PML boundary entity. Parameter sets that are absent take the
// defaults (set 0 active, the rest inactive); a set without a thickness takes
// the simulation's default boundary thickness.
func Boundary(e scene.Entity, params scene.SimulationParams) PML {
	b := PML{ID: e.ID, Assignments: make(map[Edge]int)}
	fallbackThickness := floatOr(e.Attrs, params.PMLThickness, "thickness")
	if !positive(fallbackThickness) {
		fallbackThickness = defaults.PML.Thickness
	}
	fallbackR := floatOr(e.Attrs, defaults.PML.RAsymptotic, "R_asymptotic", "rAsymptotic")

	for i := range b.Sets {
		b.Sets[i] = ParamSet{Active: i == 0, Thickness: fallbackThickness, RAsymptotic: fallbackR}
	}
	for i, raw := range paramSetEntries(e.Attrs) {
		if i < 0 || i >= ParamSetCount || raw == nil {
			continue
		}
		a := scene.Attributes(raw)
		set := b.Sets[i]
		if active, ok := a.Bool("active"); ok {
			set.Active = active
		}
		set.Thickness = floatOr(a, set.Thickness, "thickness")
		set.RAsymptotic = floatOr(a, set.RAsymptotic, "R_asymptotic", "rAsymptotic")
		b.Sets[i] = set
	}

	assigned, _ := e.Attrs.Map("edgeAssignments")
	names := make([]string, 0, len(assigned))
	for name := range assigned {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		edge := Edge(name)
		idx, ok := scene.Attributes(assigned).Int(name)
		switch {
		case !validEdge(edge):
			b.Rejected = append(b.Rejected, Rejection{Edge: name, Set: idx, Reason: "unknown edge"})
		case !ok:
			b.Rejected = append(b.Rejected, Rejection{Edge: name, Set: -1, Reason: "parameter set index is not an integer"})
		case idx < 0 || idx >= ParamSetCount:
			b.Rejected = append(b.Rejected, Rejection{Edge: name, Set: idx, Reason: fmt.Sprintf("parameter set %d does not exist", idx)})
		case !b.Sets[idx].Active:
			b.Rejected = append(b.Rejected, Rejection{Edge: name, Set: idx, Reason: fmt.Sprintf("parameter set %d is inactive", idx)})
		default:
			b.Assignments[edge] = idx
		}
	}
	return b
}

// HasAssignments reports whether the entity declared any edge assignment,
// valid or not.
func (b PML) HasAssignments() bool {
	return len(b.Assignments) > 0 || len(b.Rejected) > 0
}

func validEdge(e Edge) bool {
	for _, known := range Edges {
		if e == known {
			return true
		}
	}
	return false
}

// paramSetEntries accepts parameter sets as an object keyed "0".."3" or as
// a list.
func paramSetEntries(a scene.Attributes) map[int]map[string]any {
	out := make(map[int]map[string]any)
	if m, ok := a.Map("parameterSets"); ok {
		for k, v := range m {
			i, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			if set, ok := v.(map[string]any); ok {
				out[i] = set
			}
		}
		return out
	}
	if list, ok := a["parameterSets"].([]any); ok {
		for i, v := range list {
			if set, ok := v.(map[string]any); ok {
				out[i] = set
			}
		}
	}
	return out
}
