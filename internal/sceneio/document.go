package sceneio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/meepgen/internal/scene"
)

// collections maps document keys to snapshot collections.
var collections = map[string]func(*scene.Snapshot) *[]scene.Entity{
	"geometries": func(s *scene.Snapshot) *[]scene.Entity { return &s.Geometries },
	"sources":    func(s *scene.Snapshot) *[]scene.Entity { return &s.Sources },
	"boundaries": func(s *scene.Snapshot) *[]scene.Entity { return &s.Boundaries },
	"lattices":   func(s *scene.Snapshot) *[]scene.Entity { return &s.Lattices },
	"regions":    func(s *scene.Snapshot) *[]scene.Entity { return &s.Regions },
}

// document is one decoded scene file.
type document struct {
	snap      *scene.Snapshot
	hasTitle  bool
	hasParams bool
}

// fromMap builds a document from a generic decoded tree.
func fromMap(raw map[string]any) (*document, error) {
	raw, _ = normalizeTree(raw).(map[string]any)
	doc := &document{snap: scene.New()}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := raw[key]
		switch key {
		case "title":
			title, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("title must be a string, got %T", v)
			}
			doc.snap.Title = title
			doc.hasTitle = true
		case "params":
			m, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("params must be an object, got %T", v)
			}
			if err := applyParams(&doc.snap.Params, m); err != nil {
				return nil, err
			}
			doc.hasParams = true
		default:
			target, ok := collections[key]
			if !ok {
				return nil, fmt.Errorf("unknown top-level field %q", key)
			}
			list, ok := v.([]any)
			if !ok && v != nil {
				return nil, fmt.Errorf("%s must be a list, got %T", key, v)
			}
			for i, item := range list {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%s[%d] must be an object, got %T", key, i, item)
				}
				e, err := entityFromMap("", m)
				if err != nil {
					return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
				}
				*target(doc.snap) = append(*target(doc.snap), e)
			}
		}
	}
	return doc, nil
}

// entityFromMap splits the common entity fields from the attribute bag. A
// non-empty id overrides any id field in m.
func entityFromMap(id string, m map[string]any) (scene.Entity, error) {
	e := scene.Entity{ID: id, Attrs: scene.Attributes{}}
	for k, v := range m {
		switch k {
		case "id":
			s, ok := v.(string)
			if !ok {
				return e, fmt.Errorf("id must be a string, got %T", v)
			}
			if e.ID == "" {
				e.ID = s
			}
		case "kind":
			e.Kind, _ = v.(string)
		case "type":
			e.Type, _ = v.(string)
		case "name":
			e.Name, _ = v.(string)
		case "pos", "position":
			p, ok := scene.Attributes{"p": v}.Vec("p")
			if !ok {
				return e, fmt.Errorf("%s must be an {x, y} object", k)
			}
			e.Pos = scene.Vec2{X: p.X, Y: p.Y}
		case "orientation", "rotation":
			f, ok := scene.Attributes{"o": v}.Float("o")
			if !ok {
				return e, fmt.Errorf("%s must be a number", k)
			}
			e.Orientation = f
		case "invisible":
			b, ok := scene.Attributes{"i": v}.Bool("i")
			if !ok {
				return e, fmt.Errorf("invisible must be a boolean")
			}
			e.Invisible = b
		default:
			e.Attrs[k] = v
		}
	}
	if strings.TrimSpace(e.ID) == "" {
		return e, fmt.Errorf("entity has no id")
	}
	return e, nil
}

// applyParams overlays the fields present in m onto p. Keys are accepted in
// camelCase or snake_case.
func applyParams(p *scene.SimulationParams, m map[string]any) error {
	a := scene.Attributes(m)
	for k := range m {
		var ok bool
		switch k {
		case "cellSize", "cell_size":
			var v scene.Vec3
			if v, ok = a.Vec(k); ok {
				p.CellSize = v
			}
		case "resolution":
			p.Resolution, ok = a.Float(k)
		case "pmlThickness", "pml_thickness":
			p.PMLThickness, ok = a.Float(k)
		case "runTime", "run_time", "runtime":
			p.RunTime, ok = a.Float(k)
		case "courant", "Courant", "dtStability":
			p.Courant, ok = a.Float(k)
		case "defaultMaterial", "default_material":
			p.DefaultMaterial, ok = a.String(k)
		default:
			return fmt.Errorf("unknown simulation parameter %q", k)
		}
		if !ok {
			return fmt.Errorf("simulation parameter %q has an invalid value", k)
		}
	}
	return nil
}

// normalizeTree converts decoder-specific shapes to the ones HCL produces:
// every number becomes float64 and every mapping map[string]any.
func normalizeTree(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeTree(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalizeTree(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalizeTree(item)
		}
		return out
	}
	return v
}
