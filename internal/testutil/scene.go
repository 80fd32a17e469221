package testutil

import "github.com/vk/meepgen/internal/scene"

// EntityOption customizes an entity built by the helpers below.
type EntityOption func(*scene.Entity)

// At places the entity.
func At(x, y float64) EntityOption {
	return func(e *scene.Entity) { e.Pos = scene.Vec2{X: x, Y: y} }
}

// With sets an attribute.
func With(key string, value any) EntityOption {
	return func(e *scene.Entity) { e.Attrs[key] = value }
}

// Hidden marks the entity invisible.
func Hidden() EntityOption {
	return func(e *scene.Entity) { e.Invisible = true }
}

func entity(id, kind string, attrs scene.Attributes, opts []EntityOption) scene.Entity {
	e := scene.Entity{ID: id, Kind: kind, Attrs: attrs}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func Rectangle(id string, width, height float64, opts ...EntityOption) scene.Entity {
	return entity(id, scene.KindRectangle, scene.Attributes{"width": width, "height": height}, opts)
}

func Cylinder(id string, radius float64, opts ...EntityOption) scene.Entity {
	return entity(id, scene.KindCylinder, scene.Attributes{"radius": radius}, opts)
}

func ContinuousSource(id string, frequency float64, opts ...EntityOption) scene.Entity {
	return entity(id, scene.KindContinuousSource, scene.Attributes{"frequency": frequency}, opts)
}

func GaussianSource(id string, frequency, width float64, opts ...EntityOption) scene.Entity {
	return entity(id, scene.KindGaussianSource, scene.Attributes{"frequency": frequency, "width": width}, opts)
}

// PMLBoundary is a boundary whose first parameter set covers every edge.
func PMLBoundary(id string, thickness float64, opts ...EntityOption) scene.Entity {
	sets := []any{map[string]any{"thickness": thickness, "active": true}}
	return entity(id, scene.KindPmlBoundary, scene.Attributes{"parameterSets": sets}, opts)
}

func FluxRegion(id string, width, height float64, opts ...EntityOption) scene.Entity {
	return entity(id, scene.KindFluxRegion, scene.Attributes{
		"regionType": "flux",
		"size":       map[string]any{"x": width, "y": height},
	}, opts)
}

// Scene sorts entities into the collections their kinds belong to.
func Scene(entities ...scene.Entity) *scene.Snapshot {
	s := scene.New()
	for _, e := range entities {
		switch e.Kind {
		case scene.KindCylinder, scene.KindRectangle, scene.KindTriangle:
			s.Geometries = append(s.Geometries, e)
		case scene.KindContinuousSource, scene.KindGaussianSource, scene.KindEigenModeSource, scene.KindGaussianBeamSource:
			s.Sources = append(s.Sources, e)
		case scene.KindPmlBoundary:
			s.Boundaries = append(s.Boundaries, e)
		case scene.KindLattice:
			s.Lattices = append(s.Lattices, e)
		default:
			s.Regions = append(s.Regions, e)
		}
	}
	return s
}
