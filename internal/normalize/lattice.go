package normalize

import (
	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/scene"
)

// FillMode selects how lattice points are produced.
type FillMode string

const (
	FillManual FillMode = "manual"
	FillCenter FillMode = "centerFill"
)

// ShowMode selects whether a lattice replicates its tied geometry.
type ShowMode string

const (
	ShowPoints   ShowMode = "points"
	ShowGeometry ShowMode = "geometry"
)

// Lattice is a normalized 2D Bravais lattice.
type Lattice struct {
	ID             string
	Basis1, Basis2 meep.Vector3
	Origin         meep.Vector3
	Multiplier     int
	FillMode       FillMode
	ShowMode       ShowMode
	TiedGeometryID string
	// Calculated holds pre-computed point offsets for centerFill mode,
	// relative to Origin.
	Calculated []meep.Vector3
}

// LatticeOf reads a lattice entity. Missing basis vectors default to
// the unit square lattice; a missing or non-positive multiplier defaults to 3.
func LatticeOf(e scene.Entity) Lattice {
	a := e.Attrs
	l := Lattice{
		ID:         e.ID,
		Basis1:     meep.Vector3{X: 1},
		Basis2:     meep.Vector3{Y: 1},
		Origin:     meep.Vector3{X: e.Pos.X, Y: e.Pos.Y},
		Multiplier: defaults.LatticeMultiplier,
		FillMode:   FillManual,
		ShowMode:   ShowPoints,
	}
	if b, ok := vec(a, "basis1"); ok {
		l.Basis1 = meep.Vector3{X: b.X, Y: b.Y}
	}
	if b, ok := vec(a, "basis2"); ok {
		l.Basis2 = meep.Vector3{X: b.X, Y: b.Y}
	}
	if m, ok := a.Int("multiplier"); ok && m > 0 {
		l.Multiplier = m
	}
	if fm, ok := str(a, "fillMode"); ok && FillMode(fm) == FillCenter {
		l.FillMode = FillCenter
	}
	if sm, ok := str(a, "showMode"); ok && ShowMode(sm) == ShowGeometry {
		l.ShowMode = ShowGeometry
	}
	l.TiedGeometryID, _ = str(a, "tiedGeometryId", "tiedGeometryID")
	if pts, ok := a.Points("calculatedPoints"); ok {
		for _, p := range pts {
			l.Calculated = append(l.Calculated, meep.Vector3{X: p.X, Y: p.Y})
		}
	}
	return l
}

// Replicates reports whether the lattice emits copies of a tied geometry.
func (l Lattice) Replicates() bool {
	return l.ShowMode == ShowGeometry && l.TiedGeometryID != ""
}

// Points returns the absolute lattice points: the pre-computed offsets in
// centerFill mode, otherwise a square grid of 2*(multiplier/2)+1 points per
// side around Origin. An even multiplier rounds up to the next odd side.
func (l Lattice) Points() []meep.Vector3 {
	if l.FillMode == FillCenter && len(l.Calculated) > 0 {
		out := make([]meep.Vector3, len(l.Calculated))
		for i, p := range l.Calculated {
			out[i] = meep.Vector3{X: l.Origin.X + p.X, Y: l.Origin.Y + p.Y}
		}
		return out
	}
	half := l.Multiplier / 2
	out := make([]meep.Vector3, 0, (2*half+1)*(2*half+1))
	for i := -half; i <= half; i++ {
		for j := -half; j <= half; j++ {
			fi, fj := float64(i), float64(j)
			out = append(out, meep.Vector3{
				X: l.Origin.X + fi*l.Basis1.X + fj*l.Basis2.X,
				Y: l.Origin.Y + fi*l.Basis1.Y + fj*l.Basis2.Y,
			})
		}
	}
	return out
}
