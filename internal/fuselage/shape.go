package fuselage

import (
	"fmt"
	"math"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/mass"
)

// MaxSlenderness bounds the cone length over its support diagonal.
const MaxSlenderness = 1.5

// Minimise keeps the first frame, the apex pair and the last frame.
func (r *Result) Minimise() []Frame {
	keep := []int{0, r.ApexFrame, r.ApexFrame + 1, len(r.Frames) - 1}
	out := make([]Frame, 0, len(keep))
	last := -1
	for _, k := range keep {
		if k <= last || k >= len(r.Frames) {
			continue
		}
		out = append(out, r.Frames[k])
		last = k
	}
	return out
}

// Tangents are the unit surface tangents at one end of the fuselage.
type Tangents struct {
	Side geometry.Vec3 `json:"side" msgpack:"side"`
	Top  geometry.Vec3 `json:"top" msgpack:"top"`
}

// BoundaryConditions are the tangents a nose or tail cone must match.
type BoundaryConditions struct {
	Nose Tangents `json:"nose" msgpack:"nose"`
	Tail Tangents `json:"tail" msgpack:"tail"`
}

// BoundaryConditions fits curves through the side and top points of the
// frames. Nose tangents point in the build direction of the nose, -x.
func (r *Result) BoundaryConditions() (BoundaryConditions, error) {
	if len(r.Frames) < 2 {
		return BoundaryConditions{}, core.ConfigError(stage, "boundary conditions need two frames")
	}
	side := make([]geometry.Vec3, len(r.Frames))
	top := make([]geometry.Vec3, len(r.Frames))
	for i, f := range r.Frames {
		side[i], top[i] = f.Points[1], f.Points[2]
	}
	sc, err := geometry.FitCurve(side)
	if err != nil {
		return BoundaryConditions{}, fmt.Errorf("side curve: %w", err)
	}
	tc, err := geometry.FitCurve(top)
	if err != nil {
		return BoundaryConditions{}, fmt.Errorf("top curve: %w", err)
	}
	return BoundaryConditions{
		Nose: Tangents{Side: sc.StartTangent().Scale(-1), Top: tc.StartTangent().Scale(-1)},
		Tail: Tangents{Side: sc.EndTangent(), Top: tc.EndTangent()},
	}, nil
}

// Cone is a nose or tail fairing closing the fuselage from a support frame.
type Cone struct {
	Kind        Kind          `json:"kind" msgpack:"kind"`
	Support     Frame         `json:"support" msgpack:"support"`
	Slenderness float64       `json:"slenderness" msgpack:"slenderness"`
	Length      float64       `json:"length" msgpack:"length"`
	Tip         geometry.Vec3 `json:"tip" msgpack:"tip"`
	SideTangent geometry.Vec3 `json:"side_tangent" msgpack:"side_tangent"`
	TopTangent  geometry.Vec3 `json:"top_tangent" msgpack:"top_tangent"`
}

// NewCone realises a nose or tail cone on support. side is the user side
// tangent; the top tangent comes from bc.
func NewCone(kind Kind, support Frame, slenderness float64, side geometry.Vec3, bc Tangents) (*Cone, error) {
	if kind != Nose && kind != Tail {
		return nil, core.OptionError(stage, "cone_kind", kind, "nose|tail")
	}
	if slenderness <= 0 || slenderness > MaxSlenderness {
		return nil, core.DomainError(stage, "slenderness", slenderness, "(0, 1.5]")
	}
	length := slenderness * math.Hypot(support.Width, support.Height)
	dir := 1.0
	if kind == Nose {
		dir = -1
	}
	mid := support.Midpoint()
	return &Cone{
		Kind:        kind,
		Support:     support,
		Slenderness: slenderness,
		Length:      length,
		Tip:         geometry.Vec3{X: support.X() + dir*length, Y: support.Position.Y, Z: mid.Z},
		SideTangent: side.Unit(),
		TopTangent:  bc.Top,
	}, nil
}

// WettedArea approximates the cone as an elliptic cone over its support.
func (c *Cone) WettedArea() float64 {
	r := c.Support.Perimeter() / (2 * math.Pi)
	return 0.5 * c.Support.Perimeter() * math.Hypot(c.Length, r)
}

func (c *Cone) BBox() geometry.BBox {
	s := c.Support
	b := geometry.BBox{
		Min: geometry.Vec3{X: s.X(), Y: s.Position.Y - s.Width/2, Z: s.Position.Z},
		Max: geometry.Vec3{X: s.X(), Y: s.Position.Y + s.Width/2, Z: s.Position.Z + s.Height},
	}
	return b.Union(geometry.BBox{Min: c.Tip, Max: c.Tip})
}

// Fuselage is the assembled body: frames plus any realised cones.
type Fuselage struct {
	Frames       []Frame   `json:"frames" msgpack:"frames"`
	Nose         *Cone     `json:"nose,omitempty" msgpack:"nose,omitempty"`
	Tail         *Cone     `json:"tail,omitempty" msgpack:"tail,omitempty"`
	StillToBuild []Pending `json:"still_to_build" msgpack:"still_to_build"`
}

func (f *Fuselage) Complete() bool { return len(f.StillToBuild) == 0 }

// Assemble attaches cones to the built frames. A cone resolves its pending
// entry; booms stay pending.
func Assemble(r *Result, cones ...*Cone) (*Fuselage, error) {
	f := &Fuselage{Frames: r.Frames}
	built := make(map[Kind]bool)
	for _, c := range cones {
		if len(r.Pending(c.Kind)) == 0 {
			return nil, core.ConfigError(stage, fmt.Sprintf("layout has no %s to build", c.Kind))
		}
		if c.Kind == Nose {
			f.Nose = c
		} else {
			f.Tail = c
		}
		built[c.Kind] = true
	}
	for _, p := range r.StillToBuild {
		if !built[p.Kind] {
			f.StillToBuild = append(f.StillToBuild, p)
		}
	}
	return f, nil
}

func (f *Fuselage) Length() float64 {
	b := f.BBox()
	return b.Length()
}

// WettedArea sums elliptic frustums between consecutive frames and the cones.
func (f *Fuselage) WettedArea() float64 {
	var a float64
	for i := 1; i < len(f.Frames); i++ {
		p, q := f.Frames[i-1], f.Frames[i]
		dx := q.X() - p.X()
		dr := (q.Perimeter() - p.Perimeter()) / (2 * math.Pi)
		a += 0.5 * (p.Perimeter() + q.Perimeter()) * math.Hypot(dx, dr)
	}
	for _, c := range []*Cone{f.Nose, f.Tail} {
		if c != nil {
			a += c.WettedArea()
		}
	}
	return a
}

func (f *Fuselage) BBox() geometry.BBox {
	boxes := make([]geometry.BBox, 0, len(f.Frames)+2)
	for _, fr := range f.Frames {
		boxes = append(boxes, geometry.BBox{
			Min: geometry.Vec3{X: fr.X(), Y: fr.Position.Y - fr.Width/2, Z: fr.Position.Z},
			Max: geometry.Vec3{X: fr.X(), Y: fr.Position.Y + fr.Width/2, Z: fr.Position.Z + fr.Height},
		})
	}
	for _, c := range []*Cone{f.Nose, f.Tail} {
		if c != nil {
			boxes = append(boxes, c.BBox())
		}
	}
	return geometry.Fuse(boxes...)
}

// Skin is the shell component of the fuselage.
func (f *Fuselage) Skin(plies int, material string) (*mass.Skin, error) {
	return mass.NewSkin(mass.KindFuselage, "fuselage", f.WettedArea(), 0, plies, material, f.BBox())
}
