package codegen

import (
	"context"
	"strings"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/meep"
	"github.com/vk/meepgen/internal/normalize"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// Sources emits one sources.append per source entity.
func Sources(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	log := ctxlog.FromContext(ctx)
	e := open(section.Sources)
	e.comment("Field sources")
	e.line("sources = []")
	for _, ent := range snap.Sources {
		if r := normalize.ResolveSourceKind(ent); r.Fallback {
			log.Debug("Source kind unresolved, assuming continuous.", "id", ent.ID, "tag", r.Value)
		}
		src := normalize.Source(ent)
		e.blank()
		e.comment(entityComment(ent))
		e.call("", "sources.append(mp."+meep.SourceName(src)+"(", sourceArgs(e, src), "))")
	}
	return finish(section.Sources, e)
}

func sourceArgs(e *emitter, src meep.Source) kwargs {
	var args kwargs
	args.add("src", sourceTime(e, src.Time()))
	switch s := src.(type) {
	case meep.PlainSource:
		d := defaults.PlainSource
		args.add("component", "mp."+s.Component)
		args.add("center", e.vec(s.Center))
		if !s.Size.IsZero() {
			args.add("size", e.vec(s.Size))
		}
		if !defaults.Equal(s.Amplitude, d.Amplitude) {
			args.add("amplitude", e.num(s.Amplitude))
		}
	case meep.EigenModeSource:
		d := defaults.EigenModeSource
		args.add("center", e.vec(s.Center))
		if !s.Size.IsZero() {
			args.add("size", e.vec(s.Size))
		}
		if !defaults.Equal(s.Amplitude, d.Amplitude) {
			args.add("amplitude", e.num(s.Amplitude))
		}
		if s.EigBand != d.EigBand {
			args.add("eig_band", e.num(float64(s.EigBand)))
		}
		if s.Direction != d.Direction {
			args.add("direction", direction(s.Direction))
		}
		if s.EigMatchFreq != d.EigMatchFreq {
			args.add("eig_match_freq", pyBool(s.EigMatchFreq))
		}
		if !s.EigKpoint.IsZero() {
			args.add("eig_kpoint", e.vec(s.EigKpoint))
		}
		if s.EigParity != d.EigParity {
			args.add("eig_parity", parity(s.EigParity))
		}
		if s.EigResolution > 0 {
			args.add("eig_resolution", e.num(s.EigResolution))
		}
		if !defaults.Equal(s.EigTolerance, d.EigTolerance) {
			args.add("eig_tolerance", e.num(s.EigTolerance))
		}
		if s.Component != d.Component {
			args.add("component", "mp."+s.Component)
		}
	case meep.GaussianBeamSource:
		d := defaults.GaussianBeamSource
		args.add("center", e.vec(s.Center))
		if !s.Size.IsZero() {
			args.add("size", e.vec(s.Size))
		}
		if !defaults.Equal(s.Amplitude, d.Amplitude) {
			args.add("amplitude", e.num(s.Amplitude))
		}
		if !s.BeamX0.IsZero() {
			args.add("beam_x0", e.vec(s.BeamX0))
		}
		args.add("beam_kdir", e.vec(s.BeamKdir))
		args.add("beam_w0", e.num(s.BeamW0))
		args.add("beam_E0", e.vec(s.BeamE0))
	}
	return args
}

// sourceTime renders the src= expression.
func sourceTime(e *emitter, t meep.SourceTime) string {
	var args kwargs
	switch t := t.(type) {
	case meep.ContinuousSource:
		d := defaults.ContinuousSource
		args.add("frequency", e.num(t.Frequency))
		if !defaults.Equal(t.StartTime, d.StartTime) {
			args.add("start_time", e.num(t.StartTime))
		}
		if !defaults.EndTimeIsDefault(t.EndTime) {
			args.add("end_time", e.num(t.EndTime))
		}
		if !defaults.Equal(t.Width, d.Width) {
			args.add("width", e.num(t.Width))
		}
		if !defaults.Equal(t.Slowness, d.Slowness) {
			args.add("slowness", e.num(t.Slowness))
		}
		return inline("mp.ContinuousSource", args)
	case meep.GaussianSource:
		d := defaults.GaussianSource
		args.add("frequency", e.num(t.Frequency))
		args.add("width", e.num(t.Width))
		if !defaults.Equal(t.StartTime, d.StartTime) {
			args.add("start_time", e.num(t.StartTime))
		}
		if !defaults.Equal(t.Cutoff, d.Cutoff) {
			args.add("cutoff", e.num(t.Cutoff))
		}
		return inline("mp.GaussianSource", args)
	}
	return "mp.ContinuousSource(frequency=1)"
}

// parity maps "EVEN_Y+ODD_Z" to "mp.EVEN_Y + mp.ODD_Z".
func parity(p string) string {
	parts := strings.Split(p, "+")
	for i, part := range parts {
		parts[i] = "mp." + strings.TrimPrefix(strings.TrimSpace(part), "mp.")
	}
	return strings.Join(parts, " + ")
}
