package geometry

import "math"

// BBox is an axis-aligned bounding box in metres.
type BBox struct {
	Min Vec3 `json:"min" msgpack:"min"`
	Max Vec3 `json:"max" msgpack:"max"`
}

// BoxAt returns the box of size (length, width, height) whose x starts at
// x0 and which is centred on the y and z axes.
func BoxAt(x0, length, width, height float64) BBox {
	return BBox{
		Min: Vec3{x0, -width / 2, -height / 2},
		Max: Vec3{x0 + length, width / 2, height / 2},
	}
}

func (b BBox) Length() float64 { return math.Abs(b.Max.X - b.Min.X) }
func (b BBox) Width() float64  { return math.Abs(b.Max.Y - b.Min.Y) }
func (b BBox) Height() float64 { return math.Abs(b.Max.Z - b.Min.Z) }
func (b BBox) Volume() float64 { return b.Length() * b.Width() * b.Height() }

func (b BBox) Centre() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b BBox) Translate(d Vec3) BBox {
	return BBox{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func (b BBox) Union(o BBox) BBox {
	return BBox{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Fuse returns the union of all boxes. It panics on an empty slice.
func Fuse(boxes ...BBox) BBox {
	out := boxes[0]
	for _, b := range boxes[1:] {
		out = out.Union(b)
	}
	return out
}
