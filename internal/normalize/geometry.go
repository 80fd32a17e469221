package normalize

import (
	"math"
	"strings"

	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/scene"
)

// Geometry lifts a 2D editor shape into a target geometry. It reports false
// for unrecognized kinds and for polygons with fewer than three vertices.
func Geometry(e scene.Entity) (meep.Geometry, bool) {
	a := e.Attrs
	c := center(e)
	mat := Material(a)

	switch strings.ToLower(e.Tag()) {
	case "cylinder", "circle":
		g := defaults.Cylinder
		g.Center = c
		g.Radius = floatOr(a, 1, "radius")
		g.Height = floatOr(a, g.Height, "height")
		if axis, ok := vec(a, "axis"); ok && !axis.IsZero() {
			g.Axis = axis
		}
		g.Material = mat
		return g, true

	case "rectangle", "rect", "block":
		g := defaults.Block
		g.Center = c
		g.Size = meep.Vector3{
			X: floatOr(a, 1, "width"),
			Y: floatOr(a, 1, "height"),
			Z: math.Inf(1),
		}
		if e.Orientation != 0 {
			s, cs := math.Sincos(e.Orientation)
			g.E1 = meep.Vector3{X: cs, Y: s}
			g.E2 = meep.Vector3{X: -s, Y: cs}
		}
		g.Material = mat
		return g, true

	case "triangle", "wedge":
		if verts, ok := vertices(a); ok && len(verts) == 3 {
			return prism(a, c, verts, mat), true
		}
		g := defaults.Wedge
		g.Center = c
		g.Radius = floatOr(a, 1, "radius")
		g.Height = floatOr(a, g.Height, "height")
		g.WedgeAngle = floatOr(a, g.WedgeAngle, "wedge_angle", "wedgeAngle")
		if ws, ok := vec(a, "wedge_start", "wedgeStart"); ok && !ws.IsZero() {
			g.WedgeStart = ws
		} else {
			g.WedgeStart = rotate(g.WedgeStart, e.Orientation)
		}
		g.Material = mat
		return g, true

	case "polygon", "prism":
		verts, ok := vertices(a)
		if !ok || len(verts) < 3 {
			return nil, false
		}
		return prism(a, c, verts, mat), true

	case "sphere":
		return meep.Sphere{Center: c, Radius: floatOr(a, 1, "radius"), Material: mat}, true
	}
	return nil, false
}

func vertices(a scene.Attributes) ([]meep.Vector3, bool) {
	pts, ok := a.Points("vertices")
	if !ok {
		return nil, false
	}
	out := make([]meep.Vector3, len(pts))
	for i, p := range pts {
		out[i] = meep.Vector3{X: p.X, Y: p.Y}
	}
	return out, true
}

func prism(a scene.Attributes, c meep.Vector3, verts []meep.Vector3, mat string) meep.Prism {
	g := defaults.Prism
	g.Center = c
	g.Vertices = verts
	g.Height = floatOr(a, g.Height, "height")
	g.SidewallAngle = floatOr(a, g.SidewallAngle, "sidewall_angle", "sidewallAngle")
	if axis, ok := vec(a, "axis"); ok && !axis.IsZero() {
		g.Axis = axis
	}
	g.Material = mat
	return g
}

// Material returns the geometry's material reference. The legacy value "air"
// (lower case) means the default material and normalizes to "".
func Material(a scene.Attributes) string {
	m, _ := str(a, "material")
	if m == "air" {
		return ""
	}
	return m
}
