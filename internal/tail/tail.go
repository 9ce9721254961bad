// Package tail sizes the horizontal and vertical stabilisers, including
// the twin-boom compound tail.
package tail

import (
	"math"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/surface"
)

const stage = "tail"

const (
	HorizontalAspectRatio = 5.0
	HorizontalTaper       = 0.7

	// VolumeCoefficient is the statistical mean vertical-tail volume
	// coefficient for small UAVs.
	VolumeCoefficient   = 0.032
	VerticalAspectRatio = 1.5
	VerticalTaper       = 0.6

	// Tail arms in wing mean aerodynamic chords.
	armMACs       = 3.0
	canardFinMACs = 1.5

	connectorScale = 1.5
)

type Params struct {
	Configuration core.Configuration
	Wing          *surface.Surface
	Ratio         float64 // S_h/S
	Airfoil       *airfoil.Airfoil
	TwinBoom      bool
}

// Connector is a cylindrical fairing joining a fin to the tailplane tip.
type Connector struct {
	Start  geometry.Vec3 `json:"start" msgpack:"start"`
	End    geometry.Vec3 `json:"end" msgpack:"end"`
	Radius float64       `json:"radius" msgpack:"radius"`
}

func (c Connector) Length() float64 { return c.End.Sub(c.Start).Norm() }

func (c Connector) WettedArea() float64 {
	return 2 * math.Pi * c.Radius * c.Length()
}

func (c Connector) BBox() geometry.BBox {
	r := geometry.Vec3{X: 0, Y: c.Radius, Z: c.Radius}
	return geometry.BBox{Min: c.Start.Sub(r), Max: c.End.Add(r)}
}

type Tail struct {
	Horizontal *surface.Surface
	Vertical   []*surface.Surface
	Connectors []Connector

	Arm          float64 // wing AC to tailplane AC, m; negative for a canard
	VerticalArm  float64 // wing AC to fin AC, m
	VerticalArea float64
}

// Size places the tailplane at three wing MACs from the wing aerodynamic
// centre (ahead of it for a canard) and sizes the fin from the volume
// coefficient.
func Size(p Params) (*Tail, error) {
	if p.Wing == nil {
		return nil, core.ConfigError(stage, "no wing")
	}
	if !p.Configuration.HasTail() {
		return nil, core.OptionError(stage, "configuration", p.Configuration, "conventional|canard")
	}
	if p.Ratio <= 0 {
		return nil, core.DomainError(stage, "shs_required", p.Ratio, "> 0")
	}
	if p.Airfoil == nil {
		return nil, core.ConfigError(stage, "no tail airfoil")
	}

	w := p.Wing
	t := &Tail{Arm: armMACs * w.MACLength}
	if p.Configuration == core.Canard {
		t.Arm = -t.Arm
	}

	h, err := surface.New(surface.Params{
		Label:       "horizontal_tail",
		Area:        p.Ratio * w.Area,
		AspectRatio: HorizontalAspectRatio,
		Taper:       HorizontalTaper,
		Airfoil:     p.Airfoil,
	})
	if err != nil {
		return nil, err
	}
	x := w.AerodynamicCentre.X + t.Arm - h.AerodynamicCentre.X
	t.Horizontal = h.Moved(geometry.Vec3{X: x, Z: w.Position.Z})

	finArm := armMACs * w.MACLength
	t.VerticalArea = VolumeCoefficient * w.Area * w.Span / finArm
	finX := t.Horizontal.Position.X
	if p.Configuration == core.Canard {
		canardArm := canardFinMACs * w.MACLength
		t.VerticalArea *= canardArm / finArm
		finArm = canardArm
		finX = w.Position.X + w.RootChord - VerticalRootChord(t.VerticalArea)
	}

	var roots []geometry.Vec3
	finArea := t.VerticalArea
	if p.TwinBoom {
		tip := t.Horizontal.TipLeadingEdge()
		roots = []geometry.Vec3{tip, tip.MirrorY()}
		finArea /= 2
	} else {
		roots = []geometry.Vec3{{X: finX, Z: t.Horizontal.Position.Z}}
	}

	for i, root := range roots {
		label := "vertical_tail"
		if len(roots) > 1 {
			label = []string{"vertical_tail_right", "vertical_tail_left"}[i]
		}
		v, err := surface.New(surface.Params{
			Label:       label,
			Area:        finArea,
			AspectRatio: VerticalAspectRatio,
			Taper:       VerticalTaper,
			Airfoil:     p.Airfoil,
			Position:    root,
			Vertical:    true,
		})
		if err != nil {
			return nil, err
		}
		t.Vertical = append(t.Vertical, v)
	}
	t.VerticalArm = t.Vertical[0].AerodynamicCentre.X - w.AerodynamicCentre.X

	if p.TwinBoom {
		radius := connectorScale * math.Max(t.Horizontal.Airfoil.Thickness()*t.Horizontal.TipChord,
			t.Vertical[0].RootThickness())
		for _, v := range t.Vertical {
			start := v.Position
			end := start.Add(geometry.Vec3{X: math.Max(v.RootChord, t.Horizontal.TipChord)})
			t.Connectors = append(t.Connectors, Connector{Start: start, End: end, Radius: radius})
		}
	}
	return t, nil
}

// VerticalRootChord is the fin root chord for a given fin area.
func VerticalRootChord(area float64) float64 {
	span := math.Sqrt(VerticalAspectRatio * area)
	return 2 * area / ((1 + VerticalTaper) * span)
}

// Surfaces lists every tail surface, tailplane first.
func (t *Tail) Surfaces() []*surface.Surface {
	return append([]*surface.Surface{t.Horizontal}, t.Vertical...)
}

// Warnings collects the warnings of all tail surfaces.
func (t *Tail) Warnings() core.Warnings {
	var ws core.Warnings
	for _, s := range t.Surfaces() {
		ws = append(ws, s.Warnings...)
	}
	return ws
}

// Moved returns a copy of the tail translated by d.
func (t *Tail) Moved(d geometry.Vec3) *Tail {
	out := *t
	out.Horizontal = t.Horizontal.Moved(t.Horizontal.Position.Add(d))
	out.Vertical = make([]*surface.Surface, len(t.Vertical))
	for i, v := range t.Vertical {
		out.Vertical[i] = v.Moved(v.Position.Add(d))
	}
	out.Connectors = make([]Connector, len(t.Connectors))
	for i, c := range t.Connectors {
		out.Connectors[i] = Connector{Start: c.Start.Add(d), End: c.End.Add(d), Radius: c.Radius}
	}
	return &out
}
