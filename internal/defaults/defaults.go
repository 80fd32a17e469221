// Package defaults is the single table of canonical default values for every
// optional field the generators can emit. A field is written to the output
// only when its normalized value differs from the entry here.
//
// Comparison is exact. A value that is close to but not bit-equal to its
// default is emitted.
package defaults

import (
	"math"

	"github.com/vk/meepgen/internal/meep"
)

// InfiniteTimeThreshold marks source end times treated as "never stops".
const InfiniteTimeThreshold = 1e19

// InfiniteTime is the editor's stand-in for an unbounded end time.
const InfiniteTime = 1e20

var (
	zAxis = meep.Vector3{Z: 1}
	inf   = math.Inf(1)
)

// Geometry defaults. Center, radius, size and vertices have no default.
var (
	Cylinder = meep.Cylinder{Height: inf, Axis: zAxis}
	Block    = meep.Block{
		E1: meep.Vector3{X: 1},
		E2: meep.Vector3{Y: 1},
		E3: meep.Vector3{Z: 1},
	}
	Wedge = meep.Wedge{
		Height:     inf,
		Axis:       zAxis,
		WedgeAngle: 2 * math.Pi / 3,
		WedgeStart: meep.Vector3{X: 1},
	}
	Sphere = meep.Sphere{}
	Prism  = meep.Prism{Height: inf, Axis: zAxis}
)

// Source-time defaults. Frequency is always emitted; Gaussian width too.
var (
	ContinuousSource = meep.ContinuousSource{
		Frequency: 1,
		EndTime:   InfiniteTime,
		Slowness:  3.0,
	}
	GaussianSource = meep.GaussianSource{
		Frequency: 1,
		Width:     1,
		Cutoff:    5.0,
	}
)

// Source defaults. PlainSource.Component is mandatory in the output even
// though the editor falls back to Ez when it is missing.
var (
	PlainSource = meep.PlainSource{
		Component: "Ez",
		Amplitude: 1,
	}
	EigenModeSource = meep.EigenModeSource{
		Amplitude:    1,
		EigBand:      1,
		Direction:    meep.DirAutomatic,
		EigMatchFreq: true,
		EigParity:    "NO_PARITY",
		EigTolerance: 1e-12,
		Component:    "ALL_COMPONENTS",
	}
	GaussianBeamSource = meep.GaussianBeamSource{
		Amplitude: 1,
	}
)

// PML defaults. Thickness is always emitted.
var PML = meep.PML{
	Thickness:   1.0,
	Direction:   meep.DirAll,
	Side:        meep.SideAll,
	RAsymptotic: 1e-15,
}

// Region defaults shared by flux, energy and force regions.
var Region = meep.RegionSpec{
	Direction: meep.DirAutomatic,
	Weight:    1.0,
}

// Medium mirrors the defaults of mp.Medium.
var Medium = struct {
	Epsilon       float64
	Index         float64
	Mu            float64
	DConductivity float64
	Chi2          float64
	Chi3          float64
	EpsilonDiag   meep.Vector3
	MuDiag        meep.Vector3
}{
	Epsilon:     1,
	Index:       1,
	Mu:          1,
	EpsilonDiag: meep.Vector3{X: 1, Y: 1, Z: 1},
	MuDiag:      meep.Vector3{X: 1, Y: 1, Z: 1},
}

// Simulation holds the defaults of the mp.Simulation keyword arguments the
// generator may elide.
var Simulation = struct {
	Courant         float64
	DefaultMaterial string
}{
	Courant: 0.5,
}

// DFT window used when the source frequencies cannot bound one.
const (
	FallbackFreqMin = 0.5
	FallbackFreqMax = 1.5
	DFTPoints       = 21
	// DFTMargin widens the observed source frequency range on both sides.
	DFTMargin = 0.2
)

// LatticeMultiplier is the manual fill size when none is given.
const LatticeMultiplier = 3

// Equal is the elision comparison for scalars. Exact, with NaN never equal.
func Equal(value, def float64) bool {
	return value == def
}

// EqualVec compares vectors component-wise with Equal.
func EqualVec(value, def meep.Vector3) bool {
	return Equal(value.X, def.X) && Equal(value.Y, def.Y) && Equal(value.Z, def.Z)
}

// IsInfiniteTime reports whether t is an unbounded source time.
func IsInfiniteTime(t float64) bool {
	return t >= InfiniteTimeThreshold
}

// EndTimeIsDefault applies the infinite-time rule on top of Equal.
func EndTimeIsDefault(t float64) bool {
	return IsInfiniteTime(t) || Equal(t, ContinuousSource.EndTime)
}
