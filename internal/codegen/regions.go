package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/normalize"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

var regionLists = []struct {
	typ  normalize.RegionType
	name string
}{
	{normalize.Flux, "flux"},
	{normalize.Energy, "energy"},
	{normalize.Force, "force"},
}

// Regions emits one variable per monitor region and the lists
// flux_regions, energy_regions and force_regions. The lists are always
// defined so the simulation section can test them.
func Regions(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	e := open(section.Regions)
	e.comment("Measurement regions")

	byType := make(map[normalize.RegionType][]string)
	for _, ent := range snap.Regions {
		rt, _ := normalize.RegionTypeOf(ent)
		r := normalize.Region(ent)
		v := fmt.Sprintf("%s_region_%d", rt, len(byType[rt])+1)
		byType[rt] = append(byType[rt], v)

		e.blank()
		e.comment(entityComment(ent))
		e.call("", v+" = mp."+meep.RegionName(r)+"(", regionArgs(e, r), ")")
	}

	e.blank()
	for _, l := range regionLists {
		e.linef("%s_regions = [%s]", l.name, strings.Join(byType[l.typ], ", "))
	}
	return finish(section.Regions, e)
}

func regionArgs(e *emitter, r meep.Region) kwargs {
	d := defaults.Region
	spec := r.Spec()
	var args kwargs
	args.add("center", e.vec(spec.Center))
	args.add("size", e.vec(spec.Size))
	_, force := r.(meep.ForceRegion)
	if force || spec.Direction != d.Direction {
		args.add("direction", direction(spec.Direction))
	}
	if !defaults.Equal(spec.Weight, d.Weight) {
		args.add("weight", e.num(spec.Weight))
	}
	return args
}
