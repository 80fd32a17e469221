package normalize

import (
	"math"
	"strings"

	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/scene"
)

// float returns the first numeric attribute found among keys.
func float(a scene.Attributes, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := a.Float(k); ok {
			return v, true
		}
	}
	return 0, false
}

func floatOr(a scene.Attributes, def float64, keys ...string) float64 {
	if v, ok := float(a, keys...); ok {
		return v
	}
	return def
}

func str(a scene.Attributes, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := a.String(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func vec(a scene.Attributes, keys ...string) (meep.Vector3, bool) {
	for _, k := range keys {
		if v, ok := a.Vec(k); ok {
			return meep.Vector3{X: v.X, Y: v.Y, Z: v.Z}, true
		}
	}
	return meep.Vector3{}, false
}

func has(a scene.Attributes, keys ...string) bool {
	for _, k := range keys {
		if a.Has(k) {
			return true
		}
	}
	return false
}

// center returns an explicit center attribute, or the entity position lifted
// to z=0.
func center(e scene.Entity) meep.Vector3 {
	if c, ok := vec(e.Attrs, "center"); ok {
		return c
	}
	return meep.Vector3{X: e.Pos.X, Y: e.Pos.Y}
}

// constant strips an "mp." prefix so "mp.Ez" and "Ez" normalize alike.
func constant(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "mp.")
}

// positive reports whether v is a usable strictly positive finite number.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func rotate(v meep.Vector3, theta float64) meep.Vector3 {
	if theta == 0 {
		return v
	}
	s, c := math.Sincos(theta)
	return meep.Vector3{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c, Z: v.Z}
}
