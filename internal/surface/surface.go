// Package surface derives the planform of a trapezoidal lifting surface
// (wing, horizontal or vertical tail) from its area, aspect ratio, taper
// and leading-edge offset.
package surface

import (
	"math"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/geometry"
)

const stage = "surface"

// MaxSweep is the largest leading-edge sweep accepted with a user offset.
const MaxSweep = 20.0 // deg

type Params struct {
	Label       string
	Area        float64 // m^2, both halves for mirrored surfaces
	AspectRatio float64
	Taper       float64
	Dihedral    float64 // deg
	Twist       float64 // deg, tip relative to root
	// Offset is the x distance from root to tip leading edge. Nil keeps
	// the trailing edge unswept.
	Offset   *float64
	Airfoil  *airfoil.Airfoil
	Position geometry.Vec3 // root leading edge
	Vertical bool
}

type Surface struct {
	Params

	Span              float64       `json:"span"`
	SemiSpan          float64       `json:"semi_span"`
	RootChord         float64       `json:"root_chord"`
	TipChord          float64       `json:"tip_chord"`
	TipOffset         float64       `json:"tip_offset"`
	LESweep           float64       `json:"le_sweep"`
	MACLength         float64       `json:"mac_length"`
	MACPosition       geometry.Vec3 `json:"mac_position"`
	AerodynamicCentre geometry.Vec3 `json:"aerodynamic_centre"`
	FrontSpar         [2]geometry.Vec3

	Warnings core.Warnings
}

// New builds the surface. A user offset whose leading-edge sweep reaches
// MaxSweep is replaced by the unswept-trailing-edge default and a
// ValidationReset warning is attached.
func New(p Params) (*Surface, error) {
	if p.Area <= 0 {
		return nil, core.DomainError(stage, "area", p.Area, "> 0")
	}
	if p.AspectRatio <= 0 {
		return nil, core.DomainError(stage, "aspect_ratio", p.AspectRatio, "> 0")
	}
	if p.Taper <= 0 || p.Taper > 1 {
		return nil, core.DomainError(stage, "taper", p.Taper, "(0, 1]")
	}
	if p.Airfoil == nil {
		return nil, core.ConfigError(stage, p.Label+": no airfoil")
	}

	s := &Surface{Params: p}
	s.Span = math.Sqrt(p.AspectRatio * p.Area)
	s.RootChord = 2 * p.Area / ((1 + p.Taper) * s.Span)
	s.TipChord = p.Taper * s.RootChord
	s.SemiSpan = s.Span / 2
	if p.Vertical {
		s.SemiSpan = s.Span
	}

	s.TipOffset = s.RootChord - s.TipChord
	if p.Offset != nil {
		sweep := math.Atan(*p.Offset/s.SemiSpan) * 180 / math.Pi
		if math.Abs(sweep) >= MaxSweep {
			s.Warnings.Add(core.ValidationReset, stage,
				"%s: offset %.3f m gives %.1f deg sweep, reset to %.3f m", p.Label, *p.Offset, sweep, s.TipOffset)
			s.Offset = nil
		} else {
			s.TipOffset = *p.Offset
		}
	}
	s.LESweep = math.Atan(s.TipOffset/s.SemiSpan) * 180 / math.Pi

	tau := p.Taper
	s.MACLength = 2.0 / 3.0 * s.RootChord * (1 + tau + tau*tau) / (1 + tau)
	yMAC := s.SemiSpan / 3 * (1 + 2*tau) / (1 + tau)
	s.MACPosition = s.station(yMAC)
	s.AerodynamicCentre = s.MACPosition.Add(geometry.Vec3{X: 0.25 * s.MACLength})

	root := p.Position.Add(geometry.Vec3{X: 0.25 * s.RootChord})
	tip := s.station(s.SemiSpan).Add(geometry.Vec3{X: 0.25 * s.TipChord})
	s.FrontSpar = [2]geometry.Vec3{root, tip}

	return s, nil
}

// station returns the leading-edge point at spanwise distance y on the
// positive half.
func (s *Surface) station(y float64) geometry.Vec3 {
	dx := y / s.SemiSpan * s.TipOffset
	if s.Vertical {
		return s.Position.Add(geometry.Vec3{X: dx, Z: y})
	}
	dz := y * math.Tan(s.Dihedral*math.Pi/180)
	return s.Position.Add(geometry.Vec3{X: dx, Y: y, Z: dz})
}

// ChordAt is the local chord at spanwise distance y.
func (s *Surface) ChordAt(y float64) float64 {
	return s.RootChord + (s.TipChord-s.RootChord)*y/s.SemiSpan
}

// MACStation is the spanwise location of the mean aerodynamic chord.
func (s *Surface) MACStation() float64 {
	if s.Vertical {
		return s.MACPosition.Z - s.Position.Z
	}
	return s.MACPosition.Y - s.Position.Y
}

// TipLeadingEdge is the leading edge of the positive-side tip.
func (s *Surface) TipLeadingEdge() geometry.Vec3 {
	return s.station(s.SemiSpan)
}

func (s *Surface) RootThickness() float64 {
	return s.Airfoil.Thickness() * s.RootChord
}

// WettedArea approximates the skinned area from the section perimeter.
func (s *Surface) WettedArea() float64 {
	return s.Area * s.Airfoil.Perimeter()
}

func (s *Surface) PlanformArea() float64 { return s.Area }

// BBox encloses both halves of the surface.
func (s *Surface) BBox() geometry.BBox {
	tip := s.TipLeadingEdge()
	t := s.RootThickness()
	xMax := math.Max(s.Position.X+s.RootChord, tip.X+s.TipChord)
	xMin := math.Min(s.Position.X, tip.X)
	if s.Vertical {
		return geometry.BBox{
			Min: geometry.Vec3{X: xMin, Y: s.Position.Y - t/2, Z: s.Position.Z},
			Max: geometry.Vec3{X: xMax, Y: s.Position.Y + t/2, Z: tip.Z},
		}
	}
	zMin := math.Min(s.Position.Z, tip.Z) - t/2
	zMax := math.Max(s.Position.Z, tip.Z) + t/2
	return geometry.BBox{
		Min: geometry.Vec3{X: xMin, Y: s.Position.Y - s.SemiSpan, Z: zMin},
		Max: geometry.Vec3{X: xMax, Y: s.Position.Y + s.SemiSpan, Z: zMax},
	}
}

// Moved returns a copy of the surface with its root leading edge at pos.
func (s *Surface) Moved(pos geometry.Vec3) *Surface {
	d := pos.Sub(s.Position)
	out := *s
	out.Position = pos
	out.MACPosition = s.MACPosition.Add(d)
	out.AerodynamicCentre = s.AerodynamicCentre.Add(d)
	out.FrontSpar = [2]geometry.Vec3{s.FrontSpar[0].Add(d), s.FrontSpar[1].Add(d)}
	out.Warnings = append(core.Warnings(nil), s.Warnings...)
	return &out
}
