package codegen

import (
	"context"
	"math"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/materials"
	"github.com/vk/meepgen/internal/normalize"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// Window is the DFT frequency range the monitors sample.
type Window struct {
	Min, Max float64
	Points   int
	// Fallback is true when the fixed default range was used.
	Fallback bool
}

// DFTWindow derives the monitor frequency range. When the scene has regions
// and at least one source with a positive frequency, the range spans the
// source frequencies widened by defaults.DFTMargin on both sides; otherwise
// it is the fixed fallback range. This is a heuristic: it does not account
// for pulse bandwidth or material dispersion.
func DFTWindow(snap *scene.Snapshot) Window {
	fallback := Window{Min: defaults.FallbackFreqMin, Max: defaults.FallbackFreqMax, Points: defaults.DFTPoints, Fallback: true}
	if len(snap.Regions) == 0 {
		return fallback
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, ent := range snap.Sources {
		f := normalize.Source(ent).Time().CenterFrequency()
		if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if math.IsInf(lo, 1) {
		return fallback
	}
	return Window{
		Min:    lo * (1 - defaults.DFTMargin),
		Max:    hi * (1 + defaults.DFTMargin),
		Points: defaults.DFTPoints,
	}
}

// Simulation ties the other sections together into mp.Simulation, adds the
// DFT monitors and runs it.
func Simulation(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	p := snap.Params
	e := open(section.Simulation)
	e.comment("Assemble and run the FDTD simulation")

	var args kwargs
	args.add("cell_size", "cell_size")
	args.add("resolution", "resolution")
	args.add("geometry", "geometry")
	args.add("sources", "sources")
	args.add("boundary_layers", "boundary_layers")
	if m := materials.Reference(p.DefaultMaterial); m != "" {
		args.add("default_material", m)
	}
	if !defaults.Equal(p.Courant, defaults.Simulation.Courant) {
		args.add("Courant", "courant")
	}
	e.call("", "sim = mp.Simulation(", args, ")")

	w := DFTWindow(snap)
	e.blank()
	if w.Fallback {
		e.comment("DFT window: fixed default range")
	} else {
		e.comment("DFT window: source frequencies widened by 20% (heuristic)")
	}
	e.linef("freq_min = %s", e.num(w.Min))
	e.linef("freq_max = %s", e.num(w.Max))
	e.linef("nfreq = %d", w.Points)
	e.line("fcen = (freq_min + freq_max) / 2")
	e.line("df = freq_max - freq_min")

	if len(snap.Regions) > 0 {
		e.blank()
		e.comment("DFT monitors")
		e.line("flux_monitors = [sim.add_flux(fcen, df, nfreq, r) for r in flux_regions]")
		e.line("energy_monitors = [sim.add_energy(fcen, df, nfreq, r) for r in energy_regions]")
		e.line("force_monitors = [sim.add_force(fcen, df, nfreq, r) for r in force_regions]")
	}

	e.blank()
	e.line("sim.run(until=run_time)")

	if len(snap.Regions) > 0 {
		e.blank()
		e.comment("Results")
		e.line("flux_data = [mp.get_fluxes(m) for m in flux_monitors]")
		e.line("energy_data = [mp.get_total_energy(m) for m in energy_monitors]")
		e.line("force_data = [mp.get_forces(m) for m in force_monitors]")
	}
	return finish(section.Simulation, e)
}
