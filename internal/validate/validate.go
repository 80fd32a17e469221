// Package validate runs the non-blocking parameter-range checks. Warnings
// never stop generation; the orchestrator collects them into the pass result.
package validate

import (
	"fmt"
	"math"

	"github.com/vk/meepgen/internal/materials"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/normalize"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// Warning is a parameter outside its recommended range.
type Warning struct {
	Section section.Section
	// EntityID is empty for warnings about global parameters.
	EntityID string
	Message  string
}

func (w Warning) String() string {
	if w.EntityID == "" {
		return fmt.Sprintf("%s: %s", w.Section, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Section, w.EntityID, w.Message)
}

type collector struct {
	sec section.Section
	out []Warning
}

func (c *collector) add(id, format string, args ...any) {
	c.out = append(c.out, Warning{Section: c.sec, EntityID: id, Message: fmt.Sprintf(format, args...)})
}

var checks = map[section.Section]func(*collector, *scene.Snapshot){
	section.Initialization: checkParams,
	section.Materials:      checkMaterials,
	section.Geometries:     checkGeometries,
	section.Lattices:       checkLattices,
	section.Sources:        checkSources,
	section.Boundaries:     checkBoundaries,
	section.Regions:        checkRegions,
	section.Simulation:     checkSimulation,
}

// Section returns the warnings relevant to one section.
func Section(s section.Section, snap *scene.Snapshot) []Warning {
	check, ok := checks[s]
	if !ok || snap == nil {
		return nil
	}
	c := &collector{sec: s}
	check(c, snap)
	return c.out
}

// All returns the warnings of every section in canonical order.
func All(snap *scene.Snapshot) []Warning {
	var out []Warning
	for _, s := range section.All() {
		out = append(out, Section(s, snap)...)
	}
	return out
}

func checkParams(c *collector, snap *scene.Snapshot) {
	p := snap.Params
	if p.Resolution <= 0 {
		c.add("", "resolution must be positive, got %g", p.Resolution)
	}
	if p.CellSize.X <= 0 || p.CellSize.Y <= 0 {
		c.add("", "cell size dimensions must be positive, got %gx%g", p.CellSize.X, p.CellSize.Y)
	}
	if p.CellSize.Z < 0 {
		c.add("", "cell size z cannot be negative, got %g", p.CellSize.Z)
	}
	if p.PMLThickness < 0 {
		c.add("", "PML thickness cannot be negative, got %g", p.PMLThickness)
	}
	if p.RunTime <= 0 {
		c.add("", "run time must be positive, got %g", p.RunTime)
	}
	if p.Courant <= 0 || p.Courant > 1 {
		c.add("", "Courant factor should be in (0, 1], got %g", p.Courant)
	}
}

func checkMaterials(c *collector, snap *scene.Snapshot) {
	seen := make(map[string]bool)
	check := func(id, ref string) {
		if ref == "" || materials.IsRawExpression(ref) || seen[ref] {
			return
		}
		seen[ref] = true
		if _, ok := materials.Lookup(ref); !ok {
			c.add(id, "unknown material %q, a default medium is used", ref)
		}
	}
	check("", snap.Params.DefaultMaterial)
	for _, g := range snap.Geometries {
		check(g.ID, normalize.Material(g.Attrs))
	}
}

func checkGeometries(c *collector, snap *scene.Snapshot) {
	for _, e := range snap.Geometries {
		g, ok := normalize.Geometry(e)
		if !ok {
			c.add(e.ID, "geometry kind %q is not supported and is skipped", e.Tag())
			continue
		}
		switch g := g.(type) {
		case meep.Cylinder:
			positiveOr(c, e.ID, "radius", g.Radius)
		case meep.Sphere:
			positiveOr(c, e.ID, "radius", g.Radius)
		case meep.Wedge:
			positiveOr(c, e.ID, "radius", g.Radius)
		case meep.Block:
			if g.Size.X <= 0 || g.Size.Y <= 0 {
				c.add(e.ID, "rectangle dimensions must be positive, got %gx%g", g.Size.X, g.Size.Y)
			}
		case meep.Prism:
			if area(g.Vertices) == 0 {
				c.add(e.ID, "prism vertices are collinear")
			}
		}
	}
}

func positiveOr(c *collector, id, field string, v float64) {
	if v <= 0 {
		c.add(id, "%s must be positive, got %g", field, v)
	}
}

func area(vs []meep.Vector3) float64 {
	var a float64
	for i := range vs {
		j := (i + 1) % len(vs)
		a += vs[i].X*vs[j].Y - vs[j].X*vs[i].Y
	}
	return math.Abs(a) / 2
}

func checkLattices(c *collector, snap *scene.Snapshot) {
	for _, e := range snap.Lattices {
		l := normalize.LatticeOf(e)
		det := l.Basis1.X*l.Basis2.Y - l.Basis1.Y*l.Basis2.X
		if math.Abs(det) < 1e-10 {
			c.add(e.ID, "basis vectors are linearly dependent")
		}
		if m, ok := e.Attrs.Int("multiplier"); ok && m < 1 {
			c.add(e.ID, "multiplier must be at least 1, got %d, using %d", m, l.Multiplier)
		}
		if l.Replicates() {
			g, ok := snap.Geometry(l.TiedGeometryID)
			if !ok {
				c.add(e.ID, "tied geometry %q does not exist", l.TiedGeometryID)
			} else if _, ok := normalize.Geometry(g); !ok {
				c.add(e.ID, "tied geometry %q cannot be replicated", l.TiedGeometryID)
			}
		}
	}
}

func checkSources(c *collector, snap *scene.Snapshot) {
	for _, e := range snap.Sources {
		src := normalize.Source(e)
		switch t := src.Time().(type) {
		case meep.ContinuousSource:
			positiveOr(c, e.ID, "frequency", t.Frequency)
		case meep.GaussianSource:
			positiveOr(c, e.ID, "frequency", t.Frequency)
			positiveOr(c, e.ID, "pulse width", t.Width)
		}
		if beam, ok := src.(meep.GaussianBeamSource); ok {
			positiveOr(c, e.ID, "beam waist", beam.BeamW0)
		}
	}
}

func checkBoundaries(c *collector, snap *scene.Snapshot) {
	pmls := 0
	for _, e := range snap.Boundaries {
		if !normalize.IsPML(e) {
			c.add(e.ID, "boundary kind %q is not supported and is skipped", e.Tag())
			continue
		}
		pmls++
		if pmls > 1 {
			c.add(e.ID, "only the first PML boundary is used")
			continue
		}
		b := normalize.Boundary(e, snap.Params)
		for i, set := range b.Sets {
			if !set.Active {
				continue
			}
			if set.Thickness <= 0 {
				c.add(e.ID, "parameter set %d: thickness must be positive, got %g", i, set.Thickness)
			}
			if set.RAsymptotic <= 0 || set.RAsymptotic >= 1 {
				c.add(e.ID, "parameter set %d: R_asymptotic must be between 0 and 1, got %g", i, set.RAsymptotic)
			}
		}
		for _, r := range b.Rejected {
			c.add(e.ID, "edge %q has no boundary: %s", r.Edge, r.Reason)
		}
	}
}

func checkRegions(c *collector, snap *scene.Snapshot) {
	for _, e := range snap.Regions {
		rt, ok := normalize.RegionTypeOf(e)
		if !ok {
			v, _ := e.Attrs.String("regionType")
			c.add(e.ID, "invalid region type %q, treated as flux", v)
		}
		spec := normalize.Region(e).Spec()
		if spec.Size.X < 0 || spec.Size.Y < 0 {
			c.add(e.ID, "region size cannot be negative")
		}
		if spec.Size.X == 0 && spec.Size.Y == 0 && rt != normalize.Flux {
			c.add(e.ID, "%s regions should have non-zero size", rt)
		}
		if spec.Size.X > 1000 || spec.Size.Y > 1000 {
			c.add(e.ID, "region size seems unusually large (%g x %g)", spec.Size.X, spec.Size.Y)
		}
		if w, ok := e.Attrs.Float("weight"); ok {
			if w == 0 {
				c.add(e.ID, "weight is zero, the region has no effect")
			}
			if math.Abs(w) > 1000 {
				c.add(e.ID, "weight %g seems unusually large", w)
			}
		}
		if s, ok := e.Attrs.Float("directionSign"); ok && math.Abs(s) != 1 {
			c.add(e.ID, "direction sign must be +1 or -1, got %g", s)
		}
	}
}

func checkSimulation(c *collector, snap *scene.Snapshot) {
	if len(snap.Sources) == 0 {
		c.add("", "no sources defined, the simulation has no excitation")
	}
}
