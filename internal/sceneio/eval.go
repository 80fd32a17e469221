package sceneio

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/meepgen/internal/dag"
)

// localsSchema splits the locals blocks off an HCL file body.
var localsSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: "locals"}},
}

// functions are callable from any expression in an HCL scene.
var functions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"pow":    stdlib.PowFunc,
	"signum": stdlib.SignumFunc,
	"format": stdlib.FormatFunc,
	"lower":  stdlib.LowerFunc,
	"upper":  stdlib.UpperFunc,
	"sqrt":   unaryMath("sqrt", math.Sqrt),
	"sin":    unaryMath("sin", math.Sin),
	"cos":    unaryMath("cos", math.Cos),
	"tan":    unaryMath("tan", math.Tan),
	"rad":    unaryMath("rad", func(deg float64) float64 { return deg * math.Pi / 180 }),
}

// unaryMath wraps a float64 function as a cty function of one number.
func unaryMath(name string, fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "x", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			y := fn(x)
			if math.IsNaN(y) {
				return cty.NilVal, fmt.Errorf("%s(%g) is not a number", name, x)
			}
			return cty.NumberFloatVal(y), nil
		},
	})
}

// evalContext evaluates the locals blocks of body and returns the context
// every other expression in the file is evaluated in, plus the body without
// the locals blocks. Locals may refer to each other in any order; cycles
// are rejected.
func evalContext(body hcl.Body) (*hcl.EvalContext, hcl.Body, error) {
	content, remain, diags := body.PartialContent(localsSchema)
	if diags.HasErrors() {
		return nil, nil, diags
	}

	exprs := make(map[string]hcl.Expression)
	g := dag.New()
	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, nil, diags
		}
		for name, attr := range attrs {
			if _, dup := exprs[name]; dup {
				return nil, nil, fmt.Errorf("local %q is defined more than once", name)
			}
			exprs[name] = attr.Expr
			g.AddNode(name)
		}
	}
	for name, expr := range exprs {
		for _, ref := range localRefs(expr) {
			if _, ok := exprs[ref]; !ok {
				return nil, nil, fmt.Errorf("local %q refers to undefined local %q", name, ref)
			}
			if ref == name {
				return nil, nil, fmt.Errorf("local %q refers to itself", name)
			}
			if err := g.AddEdge(ref, name); err != nil {
				return nil, nil, err
			}
		}
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, nil, fmt.Errorf("locals: %w", err)
	}

	values := make(map[string]cty.Value, len(order))
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"pi":    cty.NumberFloatVal(math.Pi),
			"local": cty.EmptyObjectVal,
		},
		Functions: functions,
	}
	for _, name := range order {
		val, diags := exprs[name].Value(ctx)
		if diags.HasErrors() {
			return nil, nil, diags
		}
		values[name] = val
		ctx.Variables["local"] = cty.ObjectVal(values)
	}
	return ctx, remain, nil
}

// localRefs returns the names of the locals expr refers to.
func localRefs(expr hcl.Expression) []string {
	var out []string
	seen := make(map[string]bool)
	for _, traversal := range expr.Variables() {
		if traversal.RootName() != "local" || len(traversal) < 2 {
			continue
		}
		attr, ok := traversal[1].(hcl.TraverseAttr)
		if !ok || seen[attr.Name] {
			continue
		}
		seen[attr.Name] = true
		out = append(out, attr.Name)
	}
	return out
}
