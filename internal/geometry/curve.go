package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Curve is a space curve interpolating a sequence of points with natural
// cubic splines in each coordinate, parametrised by chord length.
type Curve struct {
	points  []Vec3
	t       []float64
	x, y, z interp.NaturalCubic
}

// FitCurve fits a curve through pts. Consecutive duplicates are dropped.
func FitCurve(pts []Vec3) (*Curve, error) {
	uniq := make([]Vec3, 0, len(pts))
	for _, p := range pts {
		if len(uniq) > 0 && uniq[len(uniq)-1].Equal(p, 1e-12) {
			continue
		}
		uniq = append(uniq, p)
	}
	if len(uniq) < 2 {
		return nil, fmt.Errorf("geometry: curve needs two distinct points, got %d", len(uniq))
	}

	c := &Curve{points: uniq, t: make([]float64, len(uniq))}
	for i := 1; i < len(uniq); i++ {
		c.t[i] = c.t[i-1] + uniq[i].Sub(uniq[i-1]).Norm()
	}
	if len(uniq) == 2 {
		return c, nil
	}

	xs := make([]float64, len(uniq))
	ys := make([]float64, len(uniq))
	zs := make([]float64, len(uniq))
	for i, p := range uniq {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	if err := c.x.Fit(c.t, xs); err != nil {
		return nil, err
	}
	if err := c.y.Fit(c.t, ys); err != nil {
		return nil, err
	}
	if err := c.z.Fit(c.t, zs); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Curve) Length() float64 { return c.t[len(c.t)-1] }

// At evaluates the curve at chord-length parameter s.
func (c *Curve) At(s float64) Vec3 {
	if len(c.points) == 2 {
		f := s / c.Length()
		return c.points[0].Add(c.points[1].Sub(c.points[0]).Scale(f))
	}
	return Vec3{c.x.Predict(s), c.y.Predict(s), c.z.Predict(s)}
}

// StartTangent is the unit tangent at the first point, in build order.
func (c *Curve) StartTangent() Vec3 {
	h := c.step()
	return c.At(h).Sub(c.At(0)).Unit()
}

// EndTangent is the unit tangent at the last point, in build order.
func (c *Curve) EndTangent() Vec3 {
	l, h := c.Length(), c.step()
	return c.At(l).Sub(c.At(l - h)).Unit()
}

func (c *Curve) step() float64 {
	return c.Length() * 1e-4
}
