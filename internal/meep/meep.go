// Package meep models the target toolkit's object variants as closed sum
// types. Every geometry, source, source-time and region value the generators
// emit is one of the concrete types below; the unexported marker methods keep
// the sets closed so type switches over them are exhaustive by construction.
package meep

// Vector3 mirrors mp.Vector3.
type Vector3 struct {
	X, Y, Z float64
}

// IsZero reports whether all components are zero.
func (v Vector3) IsZero() bool { return v == Vector3{} }

// Direction mirrors the mp.X / mp.Y / mp.Z / mp.ALL direction constants.
type Direction string

const (
	DirAll       Direction = "ALL"
	DirX         Direction = "X"
	DirY         Direction = "Y"
	DirZ         Direction = "Z"
	DirAutomatic Direction = "AUTOMATIC"
)

// Side mirrors mp.Low / mp.High.
type Side string

const (
	SideAll  Side = "ALL"
	SideLow  Side = "Low"
	SideHigh Side = "High"
)

// Geometry is one of Cylinder, Block, Wedge, Sphere or Prism.
type Geometry interface {
	geometry()
	// GeometryCenter returns the object's center.
	GeometryCenter() Vector3
	// MaterialRef returns the material key or raw medium expression, "" for
	// the default material.
	MaterialRef() string
}

type Cylinder struct {
	Center   Vector3
	Radius   float64
	Height   float64
	Axis     Vector3
	Material string
}

type Block struct {
	Center     Vector3
	Size       Vector3
	E1, E2, E3 Vector3
	Material   string
}

type Wedge struct {
	Center     Vector3
	Radius     float64
	Height     float64
	Axis       Vector3
	WedgeAngle float64
	WedgeStart Vector3
	Material   string
}

type Sphere struct {
	Center   Vector3
	Radius   float64
	Material string
}

type Prism struct {
	Center        Vector3
	Vertices      []Vector3
	Height        float64
	Axis          Vector3
	SidewallAngle float64
	Material      string
}

func (Cylinder) geometry() {}
func (Block) geometry()    {}
func (Wedge) geometry()    {}
func (Sphere) geometry()   {}
func (Prism) geometry()    {}

func (g Cylinder) GeometryCenter() Vector3 { return g.Center }
func (g Block) GeometryCenter() Vector3    { return g.Center }
func (g Wedge) GeometryCenter() Vector3    { return g.Center }
func (g Sphere) GeometryCenter() Vector3   { return g.Center }
func (g Prism) GeometryCenter() Vector3    { return g.Center }

func (g Cylinder) MaterialRef() string { return g.Material }
func (g Block) MaterialRef() string    { return g.Material }
func (g Wedge) MaterialRef() string    { return g.Material }
func (g Sphere) MaterialRef() string   { return g.Material }
func (g Prism) MaterialRef() string    { return g.Material }

// GeometryName returns the mp class name of g.
func GeometryName(g Geometry) string {
	switch g.(type) {
	case Cylinder:
		return "Cylinder"
	case Block:
		return "Block"
	case Wedge:
		return "Wedge"
	case Sphere:
		return "Sphere"
	case Prism:
		return "Prism"
	}
	return "Unknown"
}

// SourceTime is ContinuousSource or GaussianSource.
type SourceTime interface {
	sourceTime()
	// CenterFrequency is the frequency the DFT window is derived from.
	CenterFrequency() float64
}

type ContinuousSource struct {
	Frequency float64
	StartTime float64
	EndTime   float64
	Width     float64
	Slowness  float64
}

type GaussianSource struct {
	Frequency float64
	Width     float64
	StartTime float64
	Cutoff    float64
}

func (ContinuousSource) sourceTime() {}
func (GaussianSource) sourceTime()   {}

func (s ContinuousSource) CenterFrequency() float64 { return s.Frequency }
func (s GaussianSource) CenterFrequency() float64   { return s.Frequency }

// Source is one of PlainSource, EigenModeSource or GaussianBeamSource.
type Source interface {
	source()
	// Time returns the source's time dependence.
	Time() SourceTime
}

// PlainSource is mp.Source.
type PlainSource struct {
	Src       SourceTime
	Component string
	Center    Vector3
	Size      Vector3
	Amplitude float64
}

type EigenModeSource struct {
	Src          SourceTime
	Center       Vector3
	Size         Vector3
	Amplitude    float64
	EigBand      int
	Direction    Direction
	EigMatchFreq bool
	EigKpoint    Vector3
	EigParity    string
	// EigResolution is emitted only when positive.
	EigResolution float64
	EigTolerance  float64
	Component     string
}

type GaussianBeamSource struct {
	Src       SourceTime
	Center    Vector3
	Size      Vector3
	Amplitude float64
	BeamX0    Vector3
	BeamKdir  Vector3
	BeamW0    float64
	BeamE0    Vector3
}

func (PlainSource) source()        {}
func (EigenModeSource) source()    {}
func (GaussianBeamSource) source() {}

func (s PlainSource) Time() SourceTime        { return s.Src }
func (s EigenModeSource) Time() SourceTime    { return s.Src }
func (s GaussianBeamSource) Time() SourceTime { return s.Src }

// SourceName returns the mp class name of s.
func SourceName(s Source) string {
	switch s.(type) {
	case PlainSource:
		return "Source"
	case EigenModeSource:
		return "EigenModeSource"
	case GaussianBeamSource:
		return "GaussianBeamSource"
	}
	return "Unknown"
}

// PML is one mp.PML boundary layer.
type PML struct {
	Thickness   float64
	Direction   Direction
	Side        Side
	RAsymptotic float64
}

// RegionSpec holds the fields shared by every monitor region.
type RegionSpec struct {
	Center    Vector3
	Size      Vector3
	Direction Direction
	Weight    float64
}

// Region is one of FluxRegion, EnergyRegion or ForceRegion.
type Region interface {
	region()
	Spec() RegionSpec
}

type FluxRegion struct{ RegionSpec }
type EnergyRegion struct{ RegionSpec }
type ForceRegion struct{ RegionSpec }

func (FluxRegion) region()   {}
func (EnergyRegion) region() {}
func (ForceRegion) region()  {}

func (r FluxRegion) Spec() RegionSpec   { return r.RegionSpec }
func (r EnergyRegion) Spec() RegionSpec { return r.RegionSpec }
func (r ForceRegion) Spec() RegionSpec  { return r.RegionSpec }

// RegionName returns the mp class name of r.
func RegionName(r Region) string {
	switch r.(type) {
	case FluxRegion:
		return "FluxRegion"
	case EnergyRegion:
		return "EnergyRegion"
	case ForceRegion:
		return "ForceRegion"
	}
	return "Unknown"
}
