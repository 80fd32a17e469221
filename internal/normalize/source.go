package normalize

import (
	"strings"

	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/scene"
)

// SourceKind is the canonical source family.
type SourceKind string

const (
	Continuous   SourceKind = "continuous"
	Gaussian     SourceKind = "gaussian"
	EigenMode    SourceKind = "eigenmode"
	GaussianBeam SourceKind = "gaussian-beam"
)

// TagSources lists, highest priority first, the fields that may carry a
// source kind tag. "kind" and "type" are the Entity fields of the same name;
// the others are looked up in the attribute bag.
var TagSources = []string{"kind", "sourceKind", "sourceType", "src_type", "srcType", "type"}

// TagRule maps tag substrings to a kind.
type TagRule struct {
	Substrings []string
	Kind       SourceKind
}

// TagRules are tried in order. The beam rule precedes the gaussian rule
// because "gaussianBeamSource" contains both substrings.
var TagRules = []TagRule{
	{Substrings: []string{"eigen"}, Kind: EigenMode},
	{Substrings: []string{"beam"}, Kind: GaussianBeam},
	{Substrings: []string{"gauss", "pulse"}, Kind: Gaussian},
	{Substrings: []string{"cw", "cont"}, Kind: Continuous},
}

// Heuristic infers a kind from the presence of attributes.
type Heuristic struct {
	// Name describes the rule in a Resolution.
	Name  string
	Match func(a scene.Attributes) bool
	Kind  SourceKind
}

// Heuristics apply when no tag resolved the kind.
var Heuristics = []Heuristic{
	{
		Name:  "eig_band",
		Match: func(a scene.Attributes) bool { return has(a, "eig_band", "eigBand") },
		Kind:  EigenMode,
	},
	{
		Name:  "beam_w0",
		Match: func(a scene.Attributes) bool { return has(a, "beam_w0", "beamW0") },
		Kind:  GaussianBeam,
	},
	{
		Name:  "width+cutoff",
		Match: func(a scene.Attributes) bool { return has(a, "width") && has(a, "cutoff") },
		Kind:  Gaussian,
	},
}

// Resolution explains how a source kind was chosen.
type Resolution struct {
	Kind SourceKind
	// Tag is the field that decided, or "" when a heuristic or the default did.
	Tag string
	// Value is the raw tag value that was inspected, if any.
	Value string
	// Heuristic names the structural rule that decided, if any.
	Heuristic string
	// Fallback is true when nothing matched and Continuous was assumed.
	Fallback bool
}

func tagValue(e scene.Entity, field string) string {
	switch field {
	case "kind":
		return e.Kind
	case "type":
		return e.Type
	}
	v, _ := e.Attrs.String(field)
	return v
}

// ResolveSourceKind runs the decision table against e.
func ResolveSourceKind(e scene.Entity) Resolution {
	for _, field := range TagSources {
		raw := strings.TrimSpace(tagValue(e, field))
		if raw == "" {
			continue
		}
		t := strings.ToLower(raw)
		for _, rule := range TagRules {
			for _, sub := range rule.Substrings {
				if strings.Contains(t, sub) {
					return Resolution{Kind: rule.Kind, Tag: field, Value: raw}
				}
			}
		}
		// Only the highest-priority tag is consulted.
		return heuristics(e, raw)
	}
	return heuristics(e, "")
}

func heuristics(e scene.Entity, raw string) Resolution {
	for _, h := range Heuristics {
		if h.Match(e.Attrs) {
			return Resolution{Kind: h.Kind, Value: raw, Heuristic: h.Name}
		}
	}
	return Resolution{Kind: Continuous, Value: raw, Fallback: true}
}

// SourceKindOf is ResolveSourceKind without the explanation.
func SourceKindOf(e scene.Entity) SourceKind {
	return ResolveSourceKind(e).Kind
}

// Source normalizes a source entity. It never fails.
func Source(e scene.Entity) meep.Source {
	a := e.Attrs
	c := center(e)
	size, _ := vec(a, "size")
	amp := amplitude(a)

	switch SourceKindOf(e) {
	case Gaussian:
		return meep.PlainSource{
			Src:       gaussianTime(a),
			Component: component(a, defaults.PlainSource.Component),
			Center:    c,
			Size:      size,
			Amplitude: amp,
		}
	case EigenMode:
		d := defaults.EigenModeSource
		src := meep.EigenModeSource{
			Src:           timeFor(a),
			Center:        c,
			Size:          size,
			Amplitude:     amp,
			EigBand:       d.EigBand,
			Direction:     d.Direction,
			EigMatchFreq:  d.EigMatchFreq,
			EigParity:     d.EigParity,
			EigResolution: floatOr(a, 0, "eig_resolution", "eigResolution"),
			EigTolerance:  floatOr(a, d.EigTolerance, "eig_tolerance", "eigTolerance"),
			Component:     d.Component,
		}
		if band, ok := float(a, "eig_band", "eigBand"); ok && band >= 1 {
			src.EigBand = int(band)
		}
		if dir, ok := str(a, "direction"); ok {
			src.Direction = meep.Direction(strings.ToUpper(constant(dir)))
			if src.Direction == "AUTO" {
				src.Direction = meep.DirAutomatic
			}
		}
		if mf, ok := a.Bool("eig_match_freq"); ok {
			src.EigMatchFreq = mf
		} else if mf, ok := a.Bool("eigMatchFreq"); ok {
			src.EigMatchFreq = mf
		}
		if k, ok := vec(a, "eig_kpoint", "eigKpoint"); ok {
			src.EigKpoint = k
		}
		if p, ok := str(a, "eig_parity", "eigParity"); ok {
			src.EigParity = constant(p)
		}
		return src
	case GaussianBeam:
		src := meep.GaussianBeamSource{
			Src:       timeFor(a),
			Center:    c,
			Size:      size,
			Amplitude: amp,
			BeamW0:    floatOr(a, 1, "beam_w0", "beamW0"),
			// Propagate along the element's orientation, polarized out of plane.
			BeamKdir: rotate(meep.Vector3{X: 1}, e.Orientation),
			BeamE0:   meep.Vector3{Z: 1},
		}
		if x0, ok := vec(a, "beam_x0", "beamX0"); ok {
			src.BeamX0 = x0
		}
		if k, ok := vec(a, "beam_kdir", "beamKdir"); ok && !k.IsZero() {
			src.BeamKdir = k
		}
		if e0, ok := vec(a, "beam_E0", "beam_e0", "beamE0"); ok && !e0.IsZero() {
			src.BeamE0 = e0
		}
		return src
	default:
		return meep.PlainSource{
			Src:       continuousTime(a),
			Component: component(a, defaults.PlainSource.Component),
			Center:    c,
			Size:      size,
			Amplitude: amp,
		}
	}
}

// amplitude reduces a complex {real, imag} pair to its real part.
func amplitude(a scene.Attributes) float64 {
	if m, ok := a.Map("amplitude"); ok {
		if re, ok := scene.Attributes(m).Float("real"); ok {
			return re
		}
		return defaults.PlainSource.Amplitude
	}
	return floatOr(a, defaults.PlainSource.Amplitude, "amplitude")
}

func component(a scene.Attributes, def string) string {
	if c, ok := str(a, "component"); ok {
		return constant(c)
	}
	return def
}

// timeFor picks the time dependence of eigenmode and beam sources; Gaussian
// unless the entity asks for a continuous wave.
func timeFor(a scene.Attributes) meep.SourceTime {
	t, _ := str(a, "sourceTimeType", "src_time_type", "srcTimeType")
	switch strings.ToLower(t) {
	case "continuous", "cw":
		return continuousTime(a)
	}
	return gaussianTime(a)
}

func continuousTime(a scene.Attributes) meep.ContinuousSource {
	d := defaults.ContinuousSource
	return meep.ContinuousSource{
		Frequency: floatOr(a, d.Frequency, "frequency", "fcen"),
		StartTime: floatOr(a, d.StartTime, "start_time", "startTime"),
		EndTime:   floatOr(a, d.EndTime, "end_time", "endTime"),
		Width:     floatOr(a, d.Width, "width"),
		Slowness:  floatOr(a, d.Slowness, "slowness"),
	}
}

func gaussianTime(a scene.Attributes) meep.GaussianSource {
	d := defaults.GaussianSource
	g := meep.GaussianSource{
		Frequency: floatOr(a, d.Frequency, "frequency", "fcen"),
		Width:     d.Width,
		StartTime: floatOr(a, d.StartTime, "start_time", "startTime"),
		Cutoff:    floatOr(a, d.Cutoff, "cutoff"),
	}
	if w, ok := float(a, "width", "pulse_width"); ok {
		g.Width = w
	} else if fw, ok := float(a, "fwidth"); ok && positive(fw) {
		g.Width = 1 / fw
	}
	return g
}
