package codegen

import (
	"sort"

	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/normalize"
)

// Layer is one boundary layer produced by GroupEdges, with the edges it
// covers.
type Layer struct {
	PML   meep.PML
	Set   int
	Edges []normalize.Edge
}

var edgePlacement = map[normalize.Edge]struct {
	dir  meep.Direction
	side meep.Side
}{
	normalize.Top:    {meep.DirY, meep.SideHigh},
	normalize.Bottom: {meep.DirY, meep.SideLow},
	normalize.Left:   {meep.DirX, meep.SideLow},
	normalize.Right:  {meep.DirX, meep.SideHigh},
}

// GroupEdges partitions the edge assignments of b by parameter set and
// emits as few layers as keep every edge's parameters: all four edges of a
// set become one layer in every direction, exactly top and bottom one Y
// layer, exactly left and right one X layer, and any other subset one layer
// per edge. Sets are visited in ascending order, edges in the order top,
// right, bottom, left.
//
// Without any edge assignment a boundary covers the whole cell with set 0,
// or nothing when set 0 is inactive. Rejected assignments produce no layer.
func GroupEdges(b normalize.PML) []Layer {
	if !b.HasAssignments() {
		if !b.Sets[0].Active {
			return nil
		}
		return []Layer{{PML: layer(b.Sets[0], meep.DirAll, meep.SideAll), Set: 0, Edges: append([]normalize.Edge(nil), normalize.Edges...)}}
	}

	groups := make(map[int][]normalize.Edge)
	for _, edge := range normalize.Edges {
		if idx, ok := b.Assignments[edge]; ok {
			groups[idx] = append(groups[idx], edge)
		}
	}
	sets := make([]int, 0, len(groups))
	for idx := range groups {
		sets = append(sets, idx)
	}
	sort.Ints(sets)

	var out []Layer
	for _, idx := range sets {
		edges := groups[idx]
		params := b.Sets[idx]
		switch {
		case len(edges) == 4:
			out = append(out, Layer{PML: layer(params, meep.DirAll, meep.SideAll), Set: idx, Edges: edges})
		case exactly(edges, normalize.Top, normalize.Bottom):
			out = append(out, Layer{PML: layer(params, meep.DirY, meep.SideAll), Set: idx, Edges: edges})
		case exactly(edges, normalize.Right, normalize.Left):
			out = append(out, Layer{PML: layer(params, meep.DirX, meep.SideAll), Set: idx, Edges: edges})
		default:
			for _, edge := range edges {
				p := edgePlacement[edge]
				out = append(out, Layer{PML: layer(params, p.dir, p.side), Set: idx, Edges: []normalize.Edge{edge}})
			}
		}
	}
	return out
}

// exactly reports whether edges, which follow normalize.Edges order, is the
// pair a, b.
func exactly(edges []normalize.Edge, a, b normalize.Edge) bool {
	return len(edges) == 2 && edges[0] == a && edges[1] == b
}

func layer(p normalize.ParamSet, dir meep.Direction, s meep.Side) meep.PML {
	return meep.PML{Thickness: p.Thickness, Direction: dir, Side: s, RAsymptotic: p.RAsymptotic}
}
