package codegen

import (
	"context"
	"strings"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/normalize"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// Boundaries emits the PML layers of the first PML boundary entity. A scene
// without one gets an empty boundary_layers list.
func Boundaries(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	log := ctxlog.FromContext(ctx)
	e := open(section.Boundaries)
	e.comment("Boundary conditions")
	e.line("boundary_layers = []")

	var pml *normalize.PML
	for _, ent := range snap.Boundaries {
		if !normalize.IsPML(ent) {
			log.Debug("Skipping unsupported boundary.", "id", ent.ID, "kind", ent.Tag())
			continue
		}
		if pml != nil {
			log.Debug("Ignoring additional PML boundary.", "id", ent.ID)
			continue
		}
		b := normalize.Boundary(ent, snap.Params)
		pml = &b
	}
	if pml == nil {
		return finish(section.Boundaries, e)
	}
	for _, l := range GroupEdges(*pml) {
		e.blank()
		e.comment(layerComment(l))
		d := defaults.PML
		var args kwargs
		args.add("thickness", e.num(l.PML.Thickness))
		if l.PML.Direction != d.Direction {
			args.add("direction", direction(l.PML.Direction))
		}
		if l.PML.Side != d.Side {
			args.add("side", side(l.PML.Side))
		}
		if !defaults.Equal(l.PML.RAsymptotic, d.RAsymptotic) {
			args.add("R_asymptotic", e.num(l.PML.RAsymptotic))
		}
		e.linef("boundary_layers.append(%s)", inline("mp.PML", args))
	}
	return finish(section.Boundaries, e)
}

func layerComment(l Layer) string {
	if len(l.Edges) == 4 {
		return "PML for all boundaries"
	}
	names := make([]string, len(l.Edges))
	for i, edge := range l.Edges {
		names[i] = string(edge)
	}
	if len(names) == 1 {
		return "PML for " + names[0] + " boundary"
	}
	return "PML for " + strings.Join(names, " and ") + " boundaries"
}
