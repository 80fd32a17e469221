package defaults

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/meepgen/internal/meep"
)

func TestEqualIsExact(t *testing.T) {
	assert.True(t, Equal(1.0, 1.0))
	assert.False(t, Equal(1.0000000001, 1.0), "near-default values are not elided")
	assert.True(t, Equal(math.Inf(1), math.Inf(1)))
	assert.False(t, Equal(math.NaN(), math.NaN()))
}

func TestEqualVec(t *testing.T) {
	assert.True(t, EqualVec(meep.Vector3{Z: 1}, Cylinder.Axis))
	assert.False(t, EqualVec(meep.Vector3{X: 1}, Cylinder.Axis))
}

func TestInfiniteTime(t *testing.T) {
	assert.True(t, IsInfiniteTime(1e20))
	assert.True(t, IsInfiniteTime(1e19))
	assert.True(t, IsInfiniteTime(math.Inf(1)))
	assert.False(t, IsInfiniteTime(5e18))

	assert.True(t, EndTimeIsDefault(3e19))
	assert.False(t, EndTimeIsDefault(50))
}

func TestTables(t *testing.T) {
	assert.InDelta(t, 2*math.Pi/3, Wedge.WedgeAngle, 1e-15)
	assert.True(t, math.IsInf(Cylinder.Height, 1))
	assert.Equal(t, 1e-15, PML.RAsymptotic)
	assert.Equal(t, "NO_PARITY", EigenModeSource.EigParity)
	assert.Equal(t, 5.0, GaussianSource.Cutoff)
	assert.Equal(t, 3.0, ContinuousSource.Slowness)
}
