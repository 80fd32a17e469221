package normalize

import (
	"math"
	"strings"

	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/scene"
)

// RegionType is the measurement a region feeds.
type RegionType string

const (
	Flux   RegionType = "flux"
	Energy RegionType = "energy"
	Force  RegionType = "force"
)

// RegionTypeOf resolves the region type from the regionType attribute, then
// from the kind tag. Unknown values fall back to flux; the second result is
// false in that case.
func RegionTypeOf(e scene.Entity) (RegionType, bool) {
	if rt, ok := str(e.Attrs, "regionType"); ok {
		switch RegionType(strings.ToLower(rt)) {
		case Flux:
			return Flux, true
		case Energy:
			return Energy, true
		case Force:
			return Force, true
		}
		return Flux, false
	}
	switch strings.ToLower(e.Tag()) {
	case "energyregion", "energy":
		return Energy, true
	case "forceregion", "force":
		return Force, true
	}
	return Flux, true
}

// Region normalizes a monitor region. AUTO directions are resolved to the
// normal of the region's extent; the direction sign is folded into the
// weight since the target only accepts positive directions.
func Region(e scene.Entity) meep.Region {
	a := e.Attrs
	spec := meep.RegionSpec{
		Center: meep.Vector3{X: e.Pos.X, Y: e.Pos.Y},
		Weight: floatOr(a, defaults.Region.Weight, "weight"),
	}
	if size, ok := vec(a, "size"); ok {
		spec.Size = meep.Vector3{X: size.X, Y: size.Y}
	}
	sign := floatOr(a, 1, "directionSign")
	if sign < 0 {
		spec.Weight = -spec.Weight
	}

	spec.Direction = regionDirection(a)
	if spec.Direction == meep.DirAutomatic {
		spec.Direction = NormalDirection(spec.Size, e.Orientation)
	}

	rt, _ := RegionTypeOf(e)
	switch rt {
	case Energy:
		return meep.EnergyRegion{RegionSpec: spec}
	case Force:
		return meep.ForceRegion{RegionSpec: spec}
	default:
		return meep.FluxRegion{RegionSpec: spec}
	}
}

// regionDirection reads the editor's direction, stored either as the enum
// 0..3 (AUTO, X, Y, Z) or as a name.
func regionDirection(a scene.Attributes) meep.Direction {
	if n, ok := a.Int("direction"); ok {
		switch n {
		case 1:
			return meep.DirX
		case 2:
			return meep.DirY
		case 3:
			return meep.DirZ
		}
		return meep.DirAutomatic
	}
	if s, ok := str(a, "direction"); ok {
		switch strings.ToUpper(constant(s)) {
		case "X":
			return meep.DirX
		case "Y":
			return meep.DirY
		case "Z":
			return meep.DirZ
		}
	}
	return meep.DirAutomatic
}

// NormalDirection picks the measurement axis for an AUTO region from its
// extent: points measure along X, lines along their normal (rotated by the
// element orientation in quarter turns), and planar areas along Z.
func NormalDirection(size meep.Vector3, orientation float64) meep.Direction {
	nonZero := 0
	for _, d := range []float64{size.X, size.Y, size.Z} {
		if d > 0 {
			nonZero++
		}
	}
	switch nonZero {
	case 0:
		return meep.DirX
	case 1:
		switch {
		case size.X > 0:
			return rotatedNormal(meep.DirY, orientation)
		case size.Y > 0:
			return rotatedNormal(meep.DirX, orientation)
		default:
			return meep.DirX
		}
	case 2:
		switch {
		case size.Z == 0:
			return meep.DirZ
		case size.Y == 0:
			return meep.DirY
		default:
			return meep.DirX
		}
	}
	return meep.DirZ
}

func rotatedNormal(base meep.Direction, orientation float64) meep.Direction {
	deg := math.Mod(math.Mod(orientation, 2*math.Pi)+2*math.Pi, 2*math.Pi) * 180 / math.Pi
	quarter := (deg >= 45 && deg < 135) || (deg >= 225 && deg < 315)
	if !quarter {
		return base
	}
	if base == meep.DirX {
		return meep.DirY
	}
	return meep.DirX
}
