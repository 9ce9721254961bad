package fuselage

import (
	"math"

	"github.com/san-kum/uavsizer/internal/geometry"
)

type Placement int

const (
	Start Placement = iota
	End
)

func (p Placement) String() string {
	if p == End {
		return "end"
	}
	return "start"
}

// Frame is a rectangular fuselage cross-section. Position is the bottom
// centre; Points run bottom, right, top, left.
type Frame struct {
	Width    float64          `json:"width" msgpack:"width"`
	Height   float64          `json:"height" msgpack:"height"`
	Position geometry.Vec3    `json:"position" msgpack:"position"`
	Points   [4]geometry.Vec3 `json:"points" msgpack:"points"`
	Motor    bool             `json:"motor,omitempty" msgpack:"motor,omitempty"`
}

func newFrame(width, height float64, pos geometry.Vec3) Frame {
	return Frame{
		Width:    width,
		Height:   height,
		Position: pos,
		Points: [4]geometry.Vec3{
			pos,
			pos.Add(geometry.Vec3{Y: width / 2, Z: height / 2}),
			pos.Add(geometry.Vec3{Z: height}),
			pos.Add(geometry.Vec3{Y: -width / 2, Z: height / 2}),
		},
	}
}

// BoxFrame converts a bounding box to the frame at its start or end face.
func BoxFrame(b geometry.BBox, at Placement) Frame {
	w, h, l := b.Width(), b.Height(), b.Length()
	x := b.Min.X
	if at == End {
		x += l
	}
	return newFrame(w, h, geometry.Vec3{X: x, Y: b.Min.Y + w/2, Z: b.Min.Z})
}

// MotorFrame is a square mount of side diameter centred on the motor axis.
func MotorFrame(diameter float64, axis geometry.Vec3) Frame {
	f := newFrame(diameter, diameter, axis.Sub(geometry.Vec3{Z: diameter / 2}))
	f.Motor = true
	return f
}

func (f Frame) X() float64 { return f.Position.X }

// Midpoint is the centre of the section.
func (f Frame) Midpoint() geometry.Vec3 {
	return f.Position.Add(geometry.Vec3{Z: f.Height / 2})
}

// Perimeter of the ellipse inscribed in the frame (Ramanujan).
func (f Frame) Perimeter() float64 {
	a, b := f.Width/2, f.Height/2
	if a+b == 0 {
		return 0
	}
	h := (a - b) * (a - b) / ((a + b) * (a + b))
	return math.Pi * (a + b) * (1 + 3*h/(10+math.Sqrt(4-3*h)))
}

// Encloses reports whether o is both wider and taller than f.
func (f Frame) Encloses(o Frame) bool {
	return f.Width > o.Width && f.Height > o.Height
}
