package scene

import (
	"reflect"

	"github.com/vk/meepgen/internal/section"
)

// Diff returns, in canonical order, the sections whose inputs differ between
// prev and next. A nil prev means everything changed.
//
// The mapping mirrors what each generator reads:
//   - geometries feed the geometries and materials sections, and lattices when
//     a changed geometry is a lattice template;
//   - lattices feed the lattices and materials sections;
//   - sources, boundaries and regions each feed their own section;
//   - cell size, resolution, run time and Courant feed initialization;
//   - the default material feeds initialization and materials;
//   - the default PML thickness feeds boundaries.
//
// Simulation is never listed: the dirty tracker marks it alongside any other
// section.
func Diff(prev, next *Snapshot) []section.Section {
	if prev == nil || next == nil {
		return section.All()
	}

	var out []section.Section
	add := func(s ...section.Section) { out = append(out, s...) }

	if changed := changedIDs(prev.Geometries, next.Geometries); len(changed) > 0 {
		add(section.Geometries, section.Materials)
		if tiesAny(prev.Lattices, changed) || tiesAny(next.Lattices, changed) {
			add(section.Lattices)
		}
	}
	if !reflect.DeepEqual(prev.Sources, next.Sources) {
		add(section.Sources)
	}
	if !reflect.DeepEqual(prev.Boundaries, next.Boundaries) {
		add(section.Boundaries)
	}
	if !reflect.DeepEqual(prev.Lattices, next.Lattices) {
		// A geometry-mode lattice pulls its template's material into the
		// materials section.
		add(section.Materials, section.Lattices)
	}
	if !reflect.DeepEqual(prev.Regions, next.Regions) {
		add(section.Regions)
	}

	p, n := prev.Params, next.Params
	if p.CellSize != n.CellSize || p.Resolution != n.Resolution || p.RunTime != n.RunTime || p.Courant != n.Courant {
		add(section.Initialization)
	}
	if p.DefaultMaterial != n.DefaultMaterial {
		add(section.Initialization, section.Materials)
	}
	if p.PMLThickness != n.PMLThickness {
		add(section.Boundaries)
	}

	return section.Sort(out)
}

// changedIDs returns the IDs of geometries added, removed or modified. A pure
// reorder reports every moved ID because emission order follows slice order.
func changedIDs(prev, next []Entity) map[string]bool {
	changed := make(map[string]bool)
	before := make(map[string]int, len(prev))
	for i, e := range prev {
		before[e.ID] = i
	}
	for i, e := range next {
		j, ok := before[e.ID]
		if !ok || j != i || !reflect.DeepEqual(prev[j], e) {
			changed[e.ID] = true
		}
		delete(before, e.ID)
	}
	for id := range before {
		changed[id] = true
	}
	return changed
}

func tiesAny(lattices []Entity, ids map[string]bool) bool {
	for _, l := range lattices {
		if id, ok := l.Attrs.String("tiedGeometryId"); ok && ids[id] {
			return true
		}
	}
	return false
}
