package scene

import (
	"math"
	"strconv"
	"strings"
)

// Attributes is the bag of kind-specific and legacy fields of an entity.
// Values are whatever the loader produced: float64/int numbers, strings,
// bools, []any and map[string]any.
type Attributes map[string]any

// Has reports whether key is present with a non-nil value.
func (a Attributes) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// Float returns the numeric value stored under key.
func (a Attributes) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// FloatOr returns the numeric value under key, or def when absent.
func (a Attributes) FloatOr(key string, def float64) float64 {
	if f, ok := a.Float(key); ok {
		return f
	}
	return def
}

// Int returns the value under key when it is an integral number.
func (a Attributes) Int(key string) (int, bool) {
	f, ok := a.Float(key)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// String returns the string stored under key. Numbers are not coerced.
func (a Attributes) String(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// Bool returns the boolean stored under key. The strings "true" and "false"
// are accepted because some legacy scenes stored flags as text.
func (a Attributes) Bool(key string) (bool, bool) {
	switch v := a[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	return false, false
}

// Vec returns a 3-vector stored under key as an object with x/y/z members.
// Missing members default to 0. A Vec2 or Vec3 value is also accepted.
func (a Attributes) Vec(key string) (Vec3, bool) {
	return toVec3(a[key])
}

// Points returns a list of 2D points stored under key.
func (a Attributes) Points(key string) ([]Vec2, bool) {
	switch v := a[key].(type) {
	case []Vec2:
		return append([]Vec2(nil), v...), true
	case []any:
		out := make([]Vec2, 0, len(v))
		for _, item := range v {
			p, ok := toVec3(item)
			if !ok {
				return nil, false
			}
			out = append(out, Vec2{X: p.X, Y: p.Y})
		}
		return out, true
	case []map[string]any:
		out := make([]Vec2, 0, len(v))
		for _, item := range v {
			p, ok := toVec3(item)
			if !ok {
				return nil, false
			}
			out = append(out, Vec2{X: p.X, Y: p.Y})
		}
		return out, true
	}
	return nil, false
}

// Map returns the object stored under key.
func (a Attributes) Map(key string) (map[string]any, bool) {
	m, ok := a[key].(map[string]any)
	return m, ok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

func toVec3(v any) (Vec3, bool) {
	switch p := v.(type) {
	case Vec3:
		return p, true
	case Vec2:
		return Vec3{X: p.X, Y: p.Y}, true
	case map[string]any:
		var out Vec3
		found := false
		if x, ok := toFloat(p["x"]); ok {
			out.X, found = x, true
		}
		if y, ok := toFloat(p["y"]); ok {
			out.Y, found = y, true
		}
		if z, ok := toFloat(p["z"]); ok {
			out.Z, found = z, true
		}
		return out, found || len(p) == 0
	}
	return Vec3{}, false
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e).(map[string]any)
		}
		return out
	case []Vec2:
		return append([]Vec2(nil), t...)
	case []Vec3:
		return append([]Vec3(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []string:
		return append([]string(nil), t...)
	}
	return v
}

// Clone returns a deep copy of the bag.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}
