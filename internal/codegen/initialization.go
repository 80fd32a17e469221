package codegen

import (
	"context"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// DefaultRunTime replaces a run time that is not positive.
const DefaultRunTime = 100.0

// Initialization emits the imports and the global simulation parameters.
func Initialization(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	p := snap.Params
	e := open(section.Initialization)
	e.comment("Initialize Meep simulation environment")
	e.line("import meep as mp")
	e.line("import numpy as np")
	e.blank()
	e.comment("Simulation parameters")
	e.linef("cell_size = mp.Vector3(%s, %s, %s)", e.num(p.CellSize.X), e.num(p.CellSize.Y), e.num(p.CellSize.Z))
	e.linef("resolution = %s", e.num(p.Resolution))
	e.linef("run_time = %s", e.num(runTime(p)))
	if !defaults.Equal(p.Courant, defaults.Simulation.Courant) {
		e.linef("courant = %s", e.num(p.Courant))
	}
	return finish(section.Initialization, e, "import meep as mp", "import numpy as np")
}

func runTime(p scene.SimulationParams) float64 {
	if p.RunTime > 0 {
		return p.RunTime
	}
	return DefaultRunTime
}
