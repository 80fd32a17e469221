package scene

// Vec2 is a point on the editor canvas, in lattice units.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a raw three-component vector as stored by the editor.
type Vec3 struct {
	X, Y, Z float64
}

// Entity kind tags written by the current editor.
const (
	KindCylinder           = "cylinder"
	KindRectangle          = "rectangle"
	KindTriangle           = "triangle"
	KindContinuousSource   = "continuousSource"
	KindGaussianSource     = "gaussianSource"
	KindEigenModeSource    = "eigenModeSource"
	KindGaussianBeamSource = "gaussianBeamSource"
	KindPmlBoundary        = "pmlBoundary"
	KindLattice            = "lattice"
	KindFluxRegion         = "fluxRegion"
	KindEnergyRegion       = "energyRegion"
	KindForceRegion        = "forceRegion"
)

// Entity is one drawable element of the scene.
type Entity struct {
	ID string
	// Kind is the explicit kind tag. Older scenes may leave it empty and rely
	// on Type or on attribute heuristics.
	Kind string
	// Type is the legacy type tag.
	Type        string
	Pos         Vec2
	Orientation float64
	Name        string
	// Invisible entities are excluded from standalone emission. Geometries
	// tied to a lattice are hidden this way and act as templates.
	Invisible bool
	Attrs     Attributes
}

// Tag returns the explicit kind tag, falling back to the legacy type tag.
func (e Entity) Tag() string {
	if e.Kind != "" {
		return e.Kind
	}
	return e.Type
}

// Clone returns a deep copy of e.
func (e Entity) Clone() Entity {
	e.Attrs = e.Attrs.Clone()
	return e
}

func cloneEntities(in []Entity) []Entity {
	if in == nil {
		return nil
	}
	out := make([]Entity, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}
