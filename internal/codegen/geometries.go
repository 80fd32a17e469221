package codegen

import (
	"context"
	"strings"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/materials"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/normalize"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// Geometries emits one geometry.append per visible geometry. Invisible
// geometries are lattice templates and only appear through the lattices
// section.
func Geometries(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	log := ctxlog.FromContext(ctx)
	e := open(section.Geometries)
	e.comment("Geometry objects")
	e.line("geometry = []")
	for _, ent := range snap.VisibleGeometries() {
		g, ok := normalize.Geometry(ent)
		if !ok {
			log.Debug("Skipping unsupported geometry.", "id", ent.ID, "kind", ent.Tag())
			continue
		}
		e.blank()
		e.comment(entityComment(ent))
		e.call("", "geometry.append(mp."+meep.GeometryName(g)+"(", geometryArgs(e, g, e.vec(g.GeometryCenter())), "))")
	}
	return finish(section.Geometries, e)
}

// geometryArgs returns the keyword arguments of g with the given center
// expression. Optional fields equal to their defaults are left out.
func geometryArgs(e *emitter, g meep.Geometry, center string) kwargs {
	var args kwargs
	switch g := g.(type) {
	case meep.Cylinder:
		d := defaults.Cylinder
		args.add("center", center)
		args.add("radius", e.num(g.Radius))
		if !defaults.Equal(g.Height, d.Height) {
			args.add("height", e.num(g.Height))
		}
		if !defaults.EqualVec(g.Axis, d.Axis) {
			args.add("axis", e.vec(g.Axis))
		}
	case meep.Block:
		d := defaults.Block
		args.add("center", center)
		args.add("size", e.vec(g.Size))
		if !defaults.EqualVec(g.E1, d.E1) {
			args.add("e1", e.vec(g.E1))
		}
		if !defaults.EqualVec(g.E2, d.E2) {
			args.add("e2", e.vec(g.E2))
		}
		if !defaults.EqualVec(g.E3, d.E3) {
			args.add("e3", e.vec(g.E3))
		}
	case meep.Wedge:
		d := defaults.Wedge
		args.add("center", center)
		args.add("radius", e.num(g.Radius))
		if !defaults.Equal(g.Height, d.Height) {
			args.add("height", e.num(g.Height))
		}
		if !defaults.EqualVec(g.Axis, d.Axis) {
			args.add("axis", e.vec(g.Axis))
		}
		if !defaults.Equal(g.WedgeAngle, d.WedgeAngle) {
			args.add("wedge_angle", e.num(g.WedgeAngle))
		}
		if !defaults.EqualVec(g.WedgeStart, d.WedgeStart) {
			args.add("wedge_start", e.vec(g.WedgeStart))
		}
	case meep.Sphere:
		args.add("center", center)
		args.add("radius", e.num(g.Radius))
	case meep.Prism:
		d := defaults.Prism
		args.add("vertices", "["+strings.Join(e.vecList(g.Vertices), ", ")+"]")
		// mp.Prism has no default height.
		args.add("height", e.num(g.Height))
		args.add("center", center)
		if !defaults.EqualVec(g.Axis, d.Axis) {
			args.add("axis", e.vec(g.Axis))
		}
		if !defaults.Equal(g.SidewallAngle, d.SidewallAngle) {
			args.add("sidewall_angle", e.num(g.SidewallAngle))
		}
	}
	if m := materials.Reference(g.MaterialRef()); m != "" {
		args.add("material", m)
	}
	return args
}
