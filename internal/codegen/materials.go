package codegen

import (
	"context"
	"sort"
	"strings"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/materials"
	"github.com/vk/meepgen/internal/normalize"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// Materials defines Air, Vacuum and every catalogue medium the scene uses.
// Raw medium expressions are written at their use site instead.
func Materials(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	e := open(section.Materials)
	e.comment("Material definitions")
	for _, key := range append([]string{materials.Air, materials.Vacuum}, UsedMaterials(snap)...) {
		e.blank()
		m, ok := materials.Lookup(key)
		if !ok {
			ctxlog.FromContext(ctx).Debug("Unknown material, using default medium.", "material", key)
			e.linef("# WARNING: Unknown material '%s' - using default medium", key)
			e.linef("%s = mp.Medium()", materials.VarName(key))
			continue
		}
		if m.Abbreviation != "" && m.Abbreviation != m.Name {
			e.comment(m.Name + " (" + m.Abbreviation + ")")
		} else {
			e.comment(m.Name)
		}
		if m.Hint != "" {
			e.comment(m.Hint)
		}
		name := materials.VarName(key)
		if args := mediumArgs(e, m); len(args) <= 1 {
			e.line(name + " = " + inline("mp.Medium", args))
		} else {
			e.call("", name+" = mp.Medium(", args, ")")
		}
	}
	return finish(section.Materials, e)
}

// UsedMaterials returns the sorted catalogue keys referenced by visible
// geometries, by geometries that a lattice replicates and by the default
// material. Air, Vacuum and raw expressions are left out.
func UsedMaterials(snap *scene.Snapshot) []string {
	seen := make(map[string]bool)
	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || ref == materials.Air || ref == materials.Vacuum || materials.IsRawExpression(ref) {
			return
		}
		seen[ref] = true
	}
	add(snap.Params.DefaultMaterial)
	for _, g := range snap.VisibleGeometries() {
		add(normalize.Material(g.Attrs))
	}
	for _, le := range snap.Lattices {
		l := normalize.LatticeOf(le)
		if !l.Replicates() {
			continue
		}
		if g, ok := snap.Geometry(l.TiedGeometryID); ok {
			add(normalize.Material(g.Attrs))
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func mediumArgs(e *emitter, m materials.Medium) kwargs {
	d := defaults.Medium
	var args kwargs
	if m.Index != 0 {
		if !defaults.Equal(m.Index, d.Index) {
			args.add("index", e.num(m.Index))
		}
	} else if !defaults.Equal(m.Epsilon, d.Epsilon) {
		args.add("epsilon", e.num(m.Epsilon))
	}
	if !defaults.Equal(m.Mu, d.Mu) {
		args.add("mu", e.num(m.Mu))
	}
	if !defaults.Equal(m.DConductivity, d.DConductivity) {
		args.add("D_conductivity", e.num(m.DConductivity))
	}
	if !defaults.Equal(m.Chi2, d.Chi2) {
		args.add("chi2", e.num(m.Chi2))
	}
	if !defaults.Equal(m.Chi3, d.Chi3) {
		args.add("chi3", e.num(m.Chi3))
	}
	if !defaults.EqualVec(m.EpsilonDiag, d.EpsilonDiag) {
		args.add("epsilon_diag", e.vec(m.EpsilonDiag))
	}
	if !defaults.EqualVec(m.MuDiag, d.MuDiag) {
		args.add("mu_diag", e.vec(m.MuDiag))
	}
	if len(m.ESusceptibilities) > 0 {
		sus := make([]string, len(m.ESusceptibilities))
		for i, s := range m.ESusceptibilities {
			sus[i] = "mp." + strings.TrimPrefix(s, "mp.")
		}
		args.add("E_susceptibilities", "["+strings.Join(sus, ", ")+"]")
	}
	return args
}
