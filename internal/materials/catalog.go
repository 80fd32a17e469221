// Package materials is the preset catalogue of optical media the editor
// offers, and the rules that turn a material reference into Python.
package materials

import (
	"sort"

	"github.com/vk/meepgen/internal/defaults"
	"github.com/vk/meepgen/internal/meep"
)

// Medium is a catalogue entry. Index zero means "specified by epsilon".
type Medium struct {
	Key          string
	Name         string
	Abbreviation string
	Hint         string
	Category     string

	Index             float64
	Epsilon           float64
	Mu                float64
	DConductivity     float64
	Chi2              float64
	Chi3              float64
	EpsilonDiag       meep.Vector3
	MuDiag            meep.Vector3
	ESusceptibilities []string
}

// Always-present reference media.
const (
	Air    = "Air"
	Vacuum = "Vacuum"
)

func medium(key, name, abbr, category, hint string, opts ...func(*Medium)) Medium {
	m := Medium{
		Key:          key,
		Name:         name,
		Abbreviation: abbr,
		Hint:         hint,
		Category:     category,
		Epsilon:      defaults.Medium.Epsilon,
		Mu:           defaults.Medium.Mu,
		EpsilonDiag:  defaults.Medium.EpsilonDiag,
		MuDiag:       defaults.Medium.MuDiag,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

func index(n float64) func(*Medium)   { return func(m *Medium) { m.Index = n } }
func chi2(v float64) func(*Medium)    { return func(m *Medium) { m.Chi2 = v } }
func chi3(v float64) func(*Medium)    { return func(m *Medium) { m.Chi3 = v } }
func sigmaD(v float64) func(*Medium)  { return func(m *Medium) { m.DConductivity = v } }
func drude(s string) func(*Medium)    { return func(m *Medium) { m.ESusceptibilities = append(m.ESusceptibilities, s) } }
func epsilon(v float64) func(*Medium) { return func(m *Medium) { m.Epsilon = v } }

var catalog = map[string]Medium{}

func register(m Medium) {
	if _, dup := catalog[m.Key]; dup {
		panic("materials: duplicate catalogue key " + m.Key)
	}
	catalog[m.Key] = m
}

func init() {
	register(medium(Air, "Air", "Air", "Basic",
		"Standard atmospheric air at room temperature (20°C, 1 atm). Refractive index n = 1.000293 at 589 nm.",
		index(1.000293)))
	register(medium(Vacuum, "Vacuum", "Vacuum", "Basic",
		"Perfect vacuum with n=1. Reference medium for all optical calculations.",
		index(1.0)))

	register(medium("Silicon", "Silicon", "Si", "Semiconductors",
		"Crystalline silicon at 1.55 µm. Standard material for photonic integrated circuits.",
		index(3.48)))
	register(medium("Germanium", "Germanium", "Ge", "Semiconductors",
		"High refractive index semiconductor, transparent in mid-IR range.",
		index(4.00)))
	register(medium("GalliumArsenide", "Gallium Arsenide", "GaAs", "Semiconductors",
		"III-V semiconductor with direct bandgap. Used in lasers and high-speed electronics.",
		index(3.40)))
	register(medium("IndiumPhosphide", "Indium Phosphide", "InP", "Semiconductors",
		"III-V semiconductor platform for telecom wavelength photonics and lasers.",
		index(3.17)))
	register(medium("GalliumNitride", "Gallium Nitride", "GaN", "Semiconductors",
		"Wide bandgap semiconductor for blue LEDs and high-power electronics.",
		index(2.31)))
	register(medium("SiliconCarbide", "Silicon Carbide", "SiC", "Semiconductors",
		"Wide bandgap semiconductor with excellent thermal properties.",
		index(2.55)))
	register(medium("Silica", "Silica", "SiO₂", "Semiconductors",
		"Glass/fused silica. Low-loss dielectric for waveguide cladding and substrates.",
		index(1.444)))
	register(medium("Alumina", "Alumina", "Al₂O₃", "Semiconductors",
		"Aluminum oxide ceramic. Hard, chemically inert dielectric material.",
		index(1.76)))
	register(medium("ITO", "Indium Tin Oxide", "ITO", "Semiconductors",
		"Transparent conductor with finite conductivity. Lossy at infrared wavelengths.",
		index(1.9), sigmaD(1.0e5)))

	register(medium("LithiumNiobate", "Lithium Niobate", "LN", "Non-Linear Materials",
		"Ferroelectric crystal with strong χ⁽²⁾ nonlinearity. Used for modulators and frequency conversion.",
		index(2.14), chi2(4.5e-12)))
	register(medium("SiliconNitride", "Silicon Nitride", "Si₃N₄", "Non-Linear Materials",
		"Low-loss dielectric for visible and near-IR integrated photonics.",
		index(2.05)))
	register(medium("TitaniumDioxide", "Titanium Dioxide", "TiO₂", "Non-Linear Materials",
		"High-index dielectric, photocatalyst. Used in thin-film optics.",
		index(2.40)))
	register(medium("BCB", "Benzocyclobutene", "BCB", "Non-Linear Materials",
		"Benzocyclobutene polymer. Low-k dielectric with weak Kerr nonlinearity.",
		index(1.535), chi3(1.0e-20)))

	register(medium("Gold", "Gold", "Au", "Plasmonic Metals",
		"Noble metal with plasmonic response. Drude model fit for optical frequencies.",
		epsilon(1.0), drude("DrudeSusceptibility(frequency=0, gamma=0.042747, sigma=-53.04497)")))
	register(medium("Silver", "Silver", "Ag", "Plasmonic Metals",
		"Best plasmonic metal with lowest losses in visible range. Drude model fit.",
		epsilon(1.0), drude("DrudeSusceptibility(frequency=0, gamma=0.0169377, sigma=-52.81026)")))
	register(medium("Aluminium", "Aluminium", "Al", "Plasmonic Metals",
		"Abundant metal with UV plasmonic response. Higher losses than Au/Ag in visible.",
		epsilon(1.0), drude("DrudeSusceptibility(frequency=0, gamma=0.120983, sigma=-146.3697)")))
}

// Lookup returns the catalogue entry for key. Keys are case-sensitive.
func Lookup(key string) (Medium, bool) {
	m, ok := catalog[key]
	return m, ok
}

// Keys returns every catalogue key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
