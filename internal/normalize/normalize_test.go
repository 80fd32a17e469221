package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/scene"
)

func TestResolveSourceKind(t *testing.T) {
	tests := []struct {
		name   string
		entity scene.Entity
		want   SourceKind
	}{
		{"editor continuous", scene.Entity{Kind: "continuousSource"}, Continuous},
		{"editor gaussian", scene.Entity{Kind: "gaussianSource"}, Gaussian},
		{"editor eigen", scene.Entity{Kind: "eigenModeSource"}, EigenMode},
		{"editor beam", scene.Entity{Kind: "gaussianBeamSource"}, GaussianBeam},
		{"legacy pulse", scene.Entity{Type: "PULSE"}, Gaussian},
		{"legacy cw", scene.Entity{Attrs: scene.Attributes{"srcType": "cw"}}, Continuous},
		{"sourceType beats type", scene.Entity{Type: "continuous", Attrs: scene.Attributes{"sourceType": "eigenmode"}}, EigenMode},
		{"heuristic eig band", scene.Entity{Type: "source", Attrs: scene.Attributes{"eig_band": 2}}, EigenMode},
		{"heuristic beam waist", scene.Entity{Attrs: scene.Attributes{"beamW0": 1.5}}, GaussianBeam},
		{"heuristic width and cutoff", scene.Entity{Attrs: scene.Attributes{"width": 2.0, "cutoff": 4.0}}, Gaussian},
		{"width alone is not gaussian", scene.Entity{Attrs: scene.Attributes{"width": 2.0}}, Continuous},
		{"nothing at all", scene.Entity{}, Continuous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceKindOf(tt.entity))
		})
	}
}

// An explicit tag wins over structural heuristics.
func TestExplicitTagBeatsHeuristic(t *testing.T) {
	e := scene.Entity{Kind: "gaussian", Attrs: scene.Attributes{"eig_band": 1}}
	r := ResolveSourceKind(e)
	assert.Equal(t, Gaussian, r.Kind)
	assert.Equal(t, "kind", r.Tag)
	assert.Empty(t, r.Heuristic)

	e.Kind = ""
	r = ResolveSourceKind(e)
	assert.Equal(t, EigenMode, r.Kind)
	assert.Equal(t, "eig_band", r.Heuristic)
}

func TestBlankTagFallsThrough(t *testing.T) {
	r := ResolveSourceKind(scene.Entity{Kind: "  ", Attrs: scene.Attributes{"sourceType": "", "srcType": "gaussian", "eig_band": 1}})
	assert.Equal(t, Gaussian, r.Kind)
	assert.Equal(t, "srcType", r.Tag)
	assert.False(t, r.Fallback)
}

func TestResolutionReportsFallback(t *testing.T) {
	r := ResolveSourceKind(scene.Entity{Type: "mystery"})
	assert.True(t, r.Fallback)
	assert.Equal(t, Continuous, r.Kind)
	assert.Equal(t, "mystery", r.Value)
}

func TestSourceNormalization(t *testing.T) {
	t.Run("continuous defaults", func(t *testing.T) {
		src := Source(scene.Entity{Kind: "continuousSource", Pos: scene.Vec2{X: -3, Y: 1}})
		plain, ok := src.(meep.PlainSource)
		require.True(t, ok)
		assert.Equal(t, meep.Vector3{X: -3, Y: 1}, plain.Center)
		assert.Equal(t, "Ez", plain.Component)
		assert.Equal(t, 1.0, plain.Amplitude)
		assert.Equal(t, meep.ContinuousSource{Frequency: 1, EndTime: 1e20, Slowness: 3}, plain.Src)
	})

	t.Run("complex amplitude keeps real part", func(t *testing.T) {
		src := Source(scene.Entity{Kind: "continuousSource", Attrs: scene.Attributes{
			"amplitude": map[string]any{"real": 0.5, "imag": 2.0},
			"component": "mp.Hz",
		}})
		plain := src.(meep.PlainSource)
		assert.Equal(t, 0.5, plain.Amplitude)
		assert.Equal(t, "Hz", plain.Component)
	})

	t.Run("gaussian fwidth becomes width", func(t *testing.T) {
		src := Source(scene.Entity{Kind: "gaussianSource", Attrs: scene.Attributes{"frequency": 2.0, "fwidth": 0.5}})
		g := src.(meep.PlainSource).Src.(meep.GaussianSource)
		assert.Equal(t, 2.0, g.Frequency)
		assert.Equal(t, 2.0, g.Width)
	})

	t.Run("eigenmode", func(t *testing.T) {
		src := Source(scene.Entity{Kind: "eigenModeSource", Attrs: scene.Attributes{
			"eigBand":        2,
			"direction":      "mp.X",
			"eigParity":      "ODD_Z",
			"sourceTimeType": "cw",
			"component":      "Ez",
		}})
		eig, ok := src.(meep.EigenModeSource)
		require.True(t, ok)
		assert.Equal(t, 2, eig.EigBand)
		assert.Equal(t, meep.DirX, eig.Direction)
		assert.Equal(t, "ODD_Z", eig.EigParity)
		assert.Equal(t, "ALL_COMPONENTS", eig.Component)
		assert.IsType(t, meep.ContinuousSource{}, eig.Src)
		assert.True(t, eig.EigMatchFreq)
	})

	t.Run("beam direction follows orientation", func(t *testing.T) {
		src := Source(scene.Entity{Kind: "gaussianBeamSource", Orientation: math.Pi / 2, Attrs: scene.Attributes{"beamW0": 0.8}})
		beam := src.(meep.GaussianBeamSource)
		assert.Equal(t, 0.8, beam.BeamW0)
		assert.InDelta(t, 0, beam.BeamKdir.X, 1e-12)
		assert.InDelta(t, 1, beam.BeamKdir.Y, 1e-12)
		assert.Equal(t, meep.Vector3{Z: 1}, beam.BeamE0)
	})
}

func TestGeometryLift(t *testing.T) {
	t.Run("circle", func(t *testing.T) {
		g, ok := Geometry(scene.Entity{Type: "circle", Pos: scene.Vec2{X: 1}, Attrs: scene.Attributes{"radius": 0.3, "material": "air"}})
		require.True(t, ok)
		cyl := g.(meep.Cylinder)
		assert.Equal(t, 0.3, cyl.Radius)
		assert.True(t, math.IsInf(cyl.Height, 1))
		assert.Empty(t, cyl.Material, "legacy air is the default material")
	})

	t.Run("rotated rectangle", func(t *testing.T) {
		g, ok := Geometry(scene.Entity{Kind: "rectangle", Orientation: math.Pi / 2, Attrs: scene.Attributes{"width": 2.0, "height": 1.0, "material": "Silicon"}})
		require.True(t, ok)
		b := g.(meep.Block)
		assert.Equal(t, 2.0, b.Size.X)
		assert.Equal(t, 1.0, b.Size.Y)
		assert.True(t, math.IsInf(b.Size.Z, 1))
		assert.InDelta(t, 1, b.E1.Y, 1e-12)
		assert.InDelta(t, -1, b.E2.X, 1e-12)
		assert.Equal(t, "Silicon", b.Material)
	})

	t.Run("triangle with vertices", func(t *testing.T) {
		g, ok := Geometry(scene.Entity{Kind: "triangle", Attrs: scene.Attributes{"vertices": []any{
			map[string]any{"x": 0.0, "y": 1.0},
			map[string]any{"x": -1.0, "y": -1.0},
			map[string]any{"x": 1.0, "y": -1.0},
		}}})
		require.True(t, ok)
		p := g.(meep.Prism)
		assert.Len(t, p.Vertices, 3)
		assert.Equal(t, meep.Vector3{X: -1, Y: -1}, p.Vertices[1])
	})

	t.Run("triangle without vertices is a wedge", func(t *testing.T) {
		g, ok := Geometry(scene.Entity{Kind: "triangle"})
		require.True(t, ok)
		w := g.(meep.Wedge)
		assert.InDelta(t, 2*math.Pi/3, w.WedgeAngle, 1e-15)
		assert.Equal(t, meep.Vector3{X: 1}, w.WedgeStart)
	})

	t.Run("sphere", func(t *testing.T) {
		g, ok := Geometry(scene.Entity{Kind: "sphere", Attrs: scene.Attributes{"radius": 2.0}})
		require.True(t, ok)
		assert.Equal(t, 2.0, g.(meep.Sphere).Radius)
	})

	t.Run("degenerate polygon", func(t *testing.T) {
		_, ok := Geometry(scene.Entity{Kind: "polygon", Attrs: scene.Attributes{"vertices": []any{map[string]any{"x": 0.0}}}})
		assert.False(t, ok)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, ok := Geometry(scene.Entity{Kind: "torus"})
		assert.False(t, ok)
	})
}

func TestBoundary(t *testing.T) {
	params := scene.DefaultParams()
	params.PMLThickness = 2

	t.Run("defaults", func(t *testing.T) {
		b := Boundary(scene.Entity{ID: "pml", Kind: scene.KindPmlBoundary}, params)
		assert.True(t, b.Sets[0].Active)
		assert.Equal(t, 2.0, b.Sets[0].Thickness)
		assert.Equal(t, 1e-15, b.Sets[0].RAsymptotic)
		assert.False(t, b.Sets[1].Active)
		assert.False(t, b.HasAssignments())
	})

	t.Run("rejects inactive and missing sets", func(t *testing.T) {
		b := Boundary(scene.Entity{ID: "pml", Kind: scene.KindPmlBoundary, Attrs: scene.Attributes{
			"parameterSets": map[string]any{
				"1": map[string]any{"active": true, "thickness": 0.5},
			},
			"edgeAssignments": map[string]any{"top": 1, "bottom": 2, "left": 7, "north": 0, "right": 0},
		}}, params)
		assert.Equal(t, map[Edge]int{Top: 1, Right: 0}, b.Assignments)
		assert.Equal(t, 0.5, b.Sets[1].Thickness)
		require.Len(t, b.Rejected, 3)
		assert.Equal(t, "bottom", b.Rejected[0].Edge)
		assert.Contains(t, b.Rejected[0].Reason, "inactive")
		assert.Equal(t, "left", b.Rejected[1].Edge)
		assert.Contains(t, b.Rejected[1].Reason, "does not exist")
		assert.Equal(t, "north", b.Rejected[2].Edge)
	})
}

func TestRegion(t *testing.T) {
	t.Run("auto line along x measures y", func(t *testing.T) {
		r := Region(scene.Entity{Kind: "fluxRegion", Attrs: scene.Attributes{"size": map[string]any{"x": 2.0, "y": 0.0}, "direction": 0}})
		flux, ok := r.(meep.FluxRegion)
		require.True(t, ok)
		assert.Equal(t, meep.DirY, flux.Direction)
	})

	t.Run("rotated line", func(t *testing.T) {
		r := Region(scene.Entity{Kind: "fluxRegion", Orientation: math.Pi / 2, Attrs: scene.Attributes{"size": map[string]any{"x": 2.0}}})
		assert.Equal(t, meep.DirX, r.Spec().Direction)
	})

	t.Run("negative sign flips weight", func(t *testing.T) {
		r := Region(scene.Entity{Kind: "fluxRegion", Attrs: scene.Attributes{"direction": 2, "directionSign": -1, "weight": 0.5, "regionType": "force"}})
		force, ok := r.(meep.ForceRegion)
		require.True(t, ok)
		assert.Equal(t, -0.5, force.Weight)
		assert.Equal(t, meep.DirY, force.Direction)
	})

	t.Run("area measures z", func(t *testing.T) {
		assert.Equal(t, meep.DirZ, NormalDirection(meep.Vector3{X: 1, Y: 1}, 0))
		assert.Equal(t, meep.DirX, NormalDirection(meep.Vector3{}, 0))
	})

	t.Run("energy kind", func(t *testing.T) {
		rt, ok := RegionTypeOf(scene.Entity{Kind: "energyRegion"})
		assert.True(t, ok)
		assert.Equal(t, Energy, rt)

		rt, ok = RegionTypeOf(scene.Entity{Attrs: scene.Attributes{"regionType": "heat"}})
		assert.False(t, ok)
		assert.Equal(t, Flux, rt)
	})
}

func TestLattice(t *testing.T) {
	l := LatticeOf(scene.Entity{ID: "lat", Pos: scene.Vec2{X: 1, Y: 1}, Attrs: scene.Attributes{
		"basis1":         map[string]any{"x": 2.0, "y": 0.0},
		"basis2":         map[string]any{"x": 0.0, "y": 2.0},
		"showMode":       "geometry",
		"tiedGeometryId": "rod",
	}})
	assert.True(t, l.Replicates())
	assert.Equal(t, 3, l.Multiplier)

	pts := l.Points()
	require.Len(t, pts, 9)
	assert.Equal(t, meep.Vector3{X: -1, Y: -1}, pts[0])
	assert.Equal(t, meep.Vector3{X: 3, Y: 3}, pts[8])

	l.FillMode = FillCenter
	l.Calculated = []meep.Vector3{{X: 0.5}, {Y: 0.5}}
	assert.Equal(t, []meep.Vector3{{X: 1.5, Y: 1}, {X: 1, Y: 1.5}}, l.Points())
}

func TestLatticeGridSide(t *testing.T) {
	for multiplier, want := range map[int]int{1: 1, 2: 9, 3: 9, 4: 25} {
		l := LatticeOf(scene.Entity{ID: "lat", Attrs: scene.Attributes{"multiplier": multiplier}})
		assert.Len(t, l.Points(), want, "multiplier %d", multiplier)
	}
}
