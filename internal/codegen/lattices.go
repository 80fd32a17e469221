package codegen

import (
	"context"
	"fmt"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/normalize"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// Lattices emits the basis vectors of every lattice, and for lattices in
// geometry mode a copy of the tied geometry at each lattice point. The tied
// geometry may be invisible; it is then a pure template.
func Lattices(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	log := ctxlog.FromContext(ctx)
	e := open(section.Lattices)
	e.comment("Lattice structures")
	e.line("lattice_geometries = []")
	for i, le := range snap.Lattices {
		l := normalize.LatticeOf(le)
		v := fmt.Sprintf("lattice_%d", i+1)
		e.blank()
		e.comment(entityComment(le))
		e.linef("%s_basis1 = %s", v, e.vec(l.Basis1))
		e.linef("%s_basis2 = %s", v, e.vec(l.Basis2))
		e.linef("%s_origin = %s", v, e.vec(l.Origin))
		if !l.Replicates() {
			continue
		}
		tied, ok := snap.Geometry(l.TiedGeometryID)
		if !ok {
			log.Debug("Lattice template not found.", "lattice", le.ID, "geometry", l.TiedGeometryID)
			continue
		}
		g, ok := normalize.Geometry(tied)
		if !ok {
			log.Debug("Lattice template cannot be replicated.", "lattice", le.ID, "geometry", tied.ID)
			continue
		}
		e.linef("%s_points = [", v)
		for _, p := range l.Points() {
			e.linef("    %s,", e.vec(p))
		}
		e.line("]")
		e.linef("for point in %s_points:", v)
		e.call("    ", "lattice_geometries.append(mp."+meep.GeometryName(g)+"(", geometryArgs(e, g, "point"), "))")
	}
	e.blank()
	e.line("geometry.extend(lattice_geometries)")
	return finish(section.Lattices, e)
}
