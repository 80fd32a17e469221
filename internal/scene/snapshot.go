package scene

import (
	"errors"
	"fmt"
)

// SimulationParams are the global parameters every generator reads.
type SimulationParams struct {
	CellSize   Vec3
	Resolution float64
	// PMLThickness is the boundary thickness used when a parameter set does
	// not carry its own.
	PMLThickness float64
	RunTime      float64
	// Courant is the time-step stability factor.
	Courant float64
	// DefaultMaterial is a material key or raw medium expression; empty means
	// vacuum.
	DefaultMaterial string
}

// DefaultParams returns the parameters of a freshly created project.
func DefaultParams() SimulationParams {
	return SimulationParams{
		CellSize:     Vec3{X: 16, Y: 8, Z: 0},
		Resolution:   10,
		PMLThickness: 1.0,
		RunTime:      100,
		Courant:      0.5,
	}
}

// Snapshot is a point-in-time read of the whole scene.
type Snapshot struct {
	Title      string
	Params     SimulationParams
	Geometries []Entity
	Sources    []Entity
	Boundaries []Entity
	Lattices   []Entity
	Regions    []Entity
}

// New returns an empty snapshot with default parameters.
func New() *Snapshot {
	return &Snapshot{Params: DefaultParams()}
}

// Clone returns a deep copy. Mutating the clone's entities or attribute bags
// never affects s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		Title:      s.Title,
		Params:     s.Params,
		Geometries: cloneEntities(s.Geometries),
		Sources:    cloneEntities(s.Sources),
		Boundaries: cloneEntities(s.Boundaries),
		Lattices:   cloneEntities(s.Lattices),
		Regions:    cloneEntities(s.Regions),
	}
}

// Geometry finds a geometry by ID.
func (s *Snapshot) Geometry(id string) (Entity, bool) {
	for _, g := range s.Geometries {
		if g.ID == id {
			return g, true
		}
	}
	return Entity{}, false
}

// VisibleGeometries returns the geometries that are emitted standalone.
func (s *Snapshot) VisibleGeometries() []Entity {
	out := make([]Entity, 0, len(s.Geometries))
	for _, g := range s.Geometries {
		if !g.Invisible {
			out = append(out, g)
		}
	}
	return out
}

// EntityCount is the number of entities across all collections.
func (s *Snapshot) EntityCount() int {
	return len(s.Geometries) + len(s.Sources) + len(s.Boundaries) + len(s.Lattices) + len(s.Regions)
}

// Validate checks structural invariants: every entity has an ID and IDs are
// unique across the whole snapshot.
func (s *Snapshot) Validate() error {
	var errs []error
	seen := make(map[string]string)
	check := func(collection string, entities []Entity) {
		for i, e := range entities {
			if e.ID == "" {
				errs = append(errs, fmt.Errorf("%s[%d]: missing id", collection, i))
				continue
			}
			if prev, dup := seen[e.ID]; dup {
				errs = append(errs, fmt.Errorf("%s[%d]: duplicate id %q (already used in %s)", collection, i, e.ID, prev))
				continue
			}
			seen[e.ID] = collection
		}
	}
	check("geometries", s.Geometries)
	check("sources", s.Sources)
	check("boundaries", s.Boundaries)
	check("lattices", s.Lattices)
	check("regions", s.Regions)
	return errors.Join(errs...)
}

// Merge appends the entity collections of other to s. Params and Title are
// left untouched.
func (s *Snapshot) Merge(other *Snapshot) {
	s.Geometries = append(s.Geometries, other.Geometries...)
	s.Sources = append(s.Sources, other.Sources...)
	s.Boundaries = append(s.Boundaries, other.Boundaries...)
	s.Lattices = append(s.Lattices, other.Lattices...)
	s.Regions = append(s.Regions, other.Regions...)
}
