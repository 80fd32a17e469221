package codegen

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

func quietCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

// concreteScene is one rectangle of default material and one continuous
// source at the default frequency.
func concreteScene() *scene.Snapshot {
	s := scene.New()
	s.Geometries = []scene.Entity{{
		ID:    "wg",
		Kind:  scene.KindRectangle,
		Attrs: scene.Attributes{"width": 4.0, "height": 0.5},
	}}
	s.Sources = []scene.Entity{{
		ID:   "src",
		Kind: scene.KindContinuousSource,
		Pos:  scene.Vec2{X: -3},
	}}
	return s
}

func generate(t *testing.T, s section.Section, snap *scene.Snapshot) string {
	t.Helper()
	block, err := Generate(quietCtx(), s, snap)
	require.NoError(t, err)
	assert.Equal(t, s, block.Section)
	assert.Equal(t, s.Label(), block.Label)
	require.True(t, strings.HasPrefix(block.Content, Banner(s.Label())+"\n"))
	return block.Content
}

func TestConcreteScenario(t *testing.T) {
	snap := concreteScene()

	mats := generate(t, section.Materials, snap)
	assert.Equal(t, 2, strings.Count(mats, "mp.Medium("), mats)
	assert.Contains(t, mats, "\nair = mp.Medium(index=1.000293)")
	assert.Contains(t, mats, "\nvacuum = mp.Medium()")

	geo := generate(t, section.Geometries, snap)
	assert.Equal(t, strings.Join([]string{
		Banner("Geometries"),
		"",
		"# Geometry objects",
		"geometry = []",
		"",
		"# wg",
		"geometry.append(mp.Block(",
		"    center=mp.Vector3(0, 0, 0),",
		"    size=mp.Vector3(4, 0.5, mp.inf)",
		"))",
	}, "\n"), geo)

	bounds := generate(t, section.Boundaries, snap)
	assert.Contains(t, bounds, "boundary_layers = []")
	assert.NotContains(t, bounds, "mp.PML")

	src := generate(t, section.Sources, snap)
	assert.Contains(t, src, strings.Join([]string{
		"sources.append(mp.Source(",
		"    src=mp.ContinuousSource(frequency=1),",
		"    component=mp.Ez,",
		"    center=mp.Vector3(-3, 0, 0)",
		"))",
	}, "\n"))

	sim := generate(t, section.Simulation, snap)
	assert.Contains(t, sim, "freq_min = 0.5\nfreq_max = 1.5\nnfreq = 21")
	assert.Contains(t, sim, "sim.run(until=run_time)")
	assert.NotContains(t, sim, "add_flux")
	assert.NotContains(t, sim, "default_material")
	assert.NotContains(t, sim, "Courant")
}

func TestInitialization(t *testing.T) {
	snap := scene.New()
	out := generate(t, section.Initialization, snap)
	assert.Contains(t, out, "import meep as mp\nimport numpy as np")
	assert.Contains(t, out, "cell_size = mp.Vector3(16, 8, 0)\nresolution = 10\nrun_time = 100")
	assert.NotContains(t, out, "courant")

	snap.Params.Courant = 0.25
	snap.Params.RunTime = 0
	out = generate(t, section.Initialization, snap)
	assert.Contains(t, out, "run_time = 100\ncourant = 0.25")
	assert.Contains(t, generate(t, section.Simulation, snap), "    Courant=courant")
}

func TestDefaultElision(t *testing.T) {
	snap := scene.New()
	snap.Geometries = []scene.Entity{{
		ID:   "rod",
		Kind: scene.KindCylinder,
		Attrs: scene.Attributes{
			"radius":   0.2,
			"height":   math.Inf(1),
			"axis":     map[string]any{"x": 0.0, "y": 0.0, "z": 1.0},
			"material": "air",
		},
	}}
	snap.Sources = []scene.Entity{{
		ID:   "cw",
		Kind: scene.KindContinuousSource,
		Attrs: scene.Attributes{
			"frequency": 1.0,
			"end_time":  1e20,
			"slowness":  3.0,
			"amplitude": 1.0,
			"component": "mp.Ez",
		},
	}}
	snap.Boundaries = []scene.Entity{{
		ID:    "pml",
		Kind:  scene.KindPmlBoundary,
		Attrs: scene.Attributes{"thickness": 1.0, "R_asymptotic": 1e-15},
	}}

	geo := generate(t, section.Geometries, snap)
	assert.Contains(t, geo, "geometry.append(mp.Cylinder(\n    center=mp.Vector3(0, 0, 0),\n    radius=0.2\n))")

	src := generate(t, section.Sources, snap)
	assert.Contains(t, src, "src=mp.ContinuousSource(frequency=1),")
	for _, field := range []string{"end_time", "slowness", "amplitude", "size="} {
		assert.NotContains(t, src, field)
	}

	bounds := generate(t, section.Boundaries, snap)
	assert.Contains(t, bounds, "# PML for all boundaries\nboundary_layers.append(mp.PML(thickness=1))")
}

func TestNonDefaultFieldsAreEmitted(t *testing.T) {
	snap := scene.New()
	snap.Geometries = []scene.Entity{{
		ID:          "tri",
		Kind:        scene.KindTriangle,
		Orientation: math.Pi,
		Attrs:       scene.Attributes{"radius": 1.5, "material": "Silicon"},
	}}
	snap.Sources = []scene.Entity{{
		ID:   "eig",
		Kind: scene.KindEigenModeSource,
		Attrs: scene.Attributes{
			"eig_band":   2,
			"direction":  "X",
			"eig_parity": "EVEN_Y+ODD_Z",
			"size":       map[string]any{"y": 2.0},
			"frequency":  0.15,
			"width":      0.1,
		},
	}}

	geo := generate(t, section.Geometries, snap)
	assert.Contains(t, geo, "geometry.append(mp.Wedge(")
	assert.Contains(t, geo, "    wedge_start=mp.Vector3(-1, ")
	assert.Contains(t, geo, "    material=silicon\n))")
	assert.NotContains(t, geo, "wedge_angle")

	src := generate(t, section.Sources, snap)
	assert.Contains(t, src, strings.Join([]string{
		"sources.append(mp.EigenModeSource(",
		"    src=mp.GaussianSource(frequency=0.15, width=0.1),",
		"    center=mp.Vector3(0, 0, 0),",
		"    size=mp.Vector3(0, 2, 0),",
		"    eig_band=2,",
		"    direction=mp.X,",
		"    eig_parity=mp.EVEN_Y + mp.ODD_Z",
		"))",
	}, "\n"))

	mats := generate(t, section.Materials, snap)
	assert.Contains(t, mats, "\nsilicon = mp.Medium(")
}

func TestMaterialsOrderingAndUnknown(t *testing.T) {
	snap := scene.New()
	snap.Params.DefaultMaterial = "Silica"
	snap.Geometries = []scene.Entity{
		{ID: "a", Kind: scene.KindCylinder, Attrs: scene.Attributes{"radius": 1.0, "material": "Unobtainium"}},
		{ID: "b", Kind: scene.KindCylinder, Attrs: scene.Attributes{"radius": 1.0, "material": "Gold"}},
		{ID: "c", Kind: scene.KindCylinder, Attrs: scene.Attributes{"radius": 1.0, "material": "mp.Medium(epsilon=12)"}},
		{ID: "d", Kind: scene.KindCylinder, Invisible: true, Attrs: scene.Attributes{"radius": 1.0, "material": "Germanium"}},
	}
	assert.Equal(t, []string{"Gold", "Silica", "Unobtainium"}, UsedMaterials(snap))

	mats := generate(t, section.Materials, snap)
	gold := strings.Index(mats, "gold = mp.Medium(")
	silica := strings.Index(mats, "silica = mp.Medium(")
	require.Positive(t, gold)
	require.Positive(t, silica)
	assert.Less(t, gold, silica)
	assert.Contains(t, mats, "E_susceptibilities=[mp.DrudeSusceptibility(")
	assert.Contains(t, mats, "# WARNING: Unknown material 'Unobtainium' - using default medium\nunobtainium = mp.Medium()")
	assert.NotContains(t, mats, "germanium")

	geo := generate(t, section.Geometries, snap)
	assert.Contains(t, geo, "    material=mp.Medium(epsilon=12)\n))")
	assert.NotContains(t, geo, "# d")
	assert.Contains(t, generate(t, section.Simulation, snap), "    default_material=silica\n)")
}

func TestLatticeReplicatesTemplate(t *testing.T) {
	snap := scene.New()
	snap.Geometries = []scene.Entity{{
		ID:        "hole",
		Kind:      scene.KindCylinder,
		Invisible: true,
		Attrs:     scene.Attributes{"radius": 0.2, "material": "Germanium"},
	}}
	snap.Lattices = []scene.Entity{{
		ID:   "lat",
		Kind: scene.KindLattice,
		Pos:  scene.Vec2{X: 1, Y: 2},
		Attrs: scene.Attributes{
			"multiplier":     1,
			"showMode":       "geometry",
			"tiedGeometryId": "hole",
		},
	}}

	out := generate(t, section.Lattices, snap)
	assert.Contains(t, out, strings.Join([]string{
		"lattice_1_basis1 = mp.Vector3(1, 0, 0)",
		"lattice_1_basis2 = mp.Vector3(0, 1, 0)",
		"lattice_1_origin = mp.Vector3(1, 2, 0)",
		"lattice_1_points = [",
		"    mp.Vector3(1, 2, 0),",
		"]",
		"for point in lattice_1_points:",
		"    lattice_geometries.append(mp.Cylinder(",
		"        center=point,",
		"        radius=0.2,",
		"        material=germanium",
		"    ))",
	}, "\n"))
	assert.True(t, strings.HasSuffix(out, "geometry.extend(lattice_geometries)"))
	assert.Contains(t, UsedMaterials(snap), "Germanium")
}

func TestRegionsAndDFTWindow(t *testing.T) {
	snap := scene.New()
	snap.Sources = []scene.Entity{
		{ID: "s1", Kind: scene.KindContinuousSource, Attrs: scene.Attributes{"frequency": 2.0}},
		{ID: "s2", Kind: scene.KindGaussianSource, Attrs: scene.Attributes{"frequency": 1.0}},
	}
	snap.Regions = []scene.Entity{
		{ID: "f", Kind: scene.KindFluxRegion, Attrs: scene.Attributes{"size": map[string]any{"y": 2.0}}},
		{ID: "p", Kind: scene.KindForceRegion, Attrs: scene.Attributes{"size": map[string]any{"x": 1.0, "y": 1.0}, "weight": -1.0}},
	}

	out := generate(t, section.Regions, snap)
	assert.Contains(t, out, strings.Join([]string{
		"flux_region_1 = mp.FluxRegion(",
		"    center=mp.Vector3(0, 0, 0),",
		"    size=mp.Vector3(0, 2, 0),",
		"    direction=mp.X",
		")",
	}, "\n"))
	assert.Contains(t, out, "force_region_1 = mp.ForceRegion(")
	assert.Contains(t, out, "    direction=mp.Z,\n    weight=-1\n)")
	assert.Contains(t, out, "flux_regions = [flux_region_1]\nenergy_regions = []\nforce_regions = [force_region_1]")

	w := DFTWindow(snap)
	assert.False(t, w.Fallback)
	assert.InDelta(t, 0.8, w.Min, 1e-12)
	assert.InDelta(t, 2.4, w.Max, 1e-12)
	assert.Equal(t, 21, w.Points)

	sim := generate(t, section.Simulation, snap)
	assert.Contains(t, sim, "flux_monitors = [sim.add_flux(fcen, df, nfreq, r) for r in flux_regions]")
}

func TestEmptyRegionsStillDefineLists(t *testing.T) {
	out := generate(t, section.Regions, scene.New())
	assert.Contains(t, out, "flux_regions = []\nenergy_regions = []\nforce_regions = []")
}

func TestIdempotence(t *testing.T) {
	snap := concreteScene()
	for _, s := range section.All() {
		first := generate(t, s, snap)
		second := generate(t, s, snap.Clone())
		assert.Equal(t, first, second, s)
	}
}

func TestNaNIsGenerationError(t *testing.T) {
	snap := scene.New()
	snap.Geometries = []scene.Entity{{ID: "bad", Kind: scene.KindCylinder, Attrs: scene.Attributes{"radius": math.NaN()}}}

	_, err := Generate(quietCtx(), section.Geometries, snap)
	require.Error(t, err)
	var ge *GenerationError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, section.Geometries, ge.Section)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestGenerateRejectsUnknownSectionAndNilSnapshot(t *testing.T) {
	_, err := Generate(quietCtx(), section.Section("bogus"), scene.New())
	var ge *GenerationError
	require.ErrorAs(t, err, &ge)

	_, err = Generate(quietCtx(), section.Sources, nil)
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, section.Sources, ge.Section)
}
