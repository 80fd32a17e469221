package sceneio

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/meepgen/internal/scene"
)

// hclSceneFile is the top-level structure of an HCL scene file.
type hclSceneFile struct {
	Title      *string      `hcl:"title,optional"`
	Params     *hclBody     `hcl:"params,block"`
	Geometries []*hclEntity `hcl:"geometry,block"`
	Sources    []*hclEntity `hcl:"source,block"`
	Boundaries []*hclEntity `hcl:"boundary,block"`
	Lattices   []*hclEntity `hcl:"lattice,block"`
	Regions    []*hclEntity `hcl:"region,block"`
}

type hclEntity struct {
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclBody struct {
	Body hcl.Body `hcl:",remain"`
}

// parseHCL decodes one HCL scene file.
func parseHCL(parser *hclparse.Parser, src []byte, filename string) (*document, error) {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	evalCtx, body, err := evalContext(file.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate locals in %s: %w", filename, err)
	}

	var parsed hclSceneFile
	if diags := gohcl.DecodeBody(body, evalCtx, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	doc := &document{snap: scene.New()}
	if parsed.Title != nil {
		doc.snap.Title = *parsed.Title
		doc.hasTitle = true
	}
	if parsed.Params != nil {
		m, err := bodyToMap(parsed.Params.Body, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("params in %s: %w", filename, err)
		}
		if err := applyParams(&doc.snap.Params, m); err != nil {
			return nil, fmt.Errorf("params in %s: %w", filename, err)
		}
		doc.hasParams = true
	}

	groups := []struct {
		blocks []*hclEntity
		target *[]scene.Entity
	}{
		{parsed.Geometries, &doc.snap.Geometries},
		{parsed.Sources, &doc.snap.Sources},
		{parsed.Boundaries, &doc.snap.Boundaries},
		{parsed.Lattices, &doc.snap.Lattices},
		{parsed.Regions, &doc.snap.Regions},
	}
	for _, g := range groups {
		for _, block := range g.blocks {
			m, err := bodyToMap(block.Body, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("%q in %s: %w", block.ID, filename, err)
			}
			e, err := entityFromMap(block.ID, m)
			if err != nil {
				return nil, fmt.Errorf("%q in %s: %w", block.ID, filename, err)
			}
			*g.target = append(*g.target, e)
		}
	}
	return doc, nil
}

// bodyToMap evaluates every attribute of body in evalCtx.
func bodyToMap(body hcl.Body, evalCtx *hcl.EvalContext) (map[string]any, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = native
	}
	return out, nil
}

// ctyToNative recursively converts a cty.Value to the loosely typed values
// the attribute bag holds: float64, string, bool, []any and map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		m := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			m[key.AsString()] = native
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
