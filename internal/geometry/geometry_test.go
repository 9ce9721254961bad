package geometry

import (
	"math"
	"testing"
)

func TestFuse(t *testing.T) {
	a := BoxAt(0, 0.1, 0.05, 0.04)
	b := BoxAt(0.1, 0.2, 0.08, 0.02)

	u := Fuse(a, b)
	if math.Abs(u.Length()-0.3) > 1e-12 {
		t.Errorf("expected length 0.3, got %f", u.Length())
	}
	if math.Abs(u.Width()-0.08) > 1e-12 {
		t.Errorf("expected width 0.08, got %f", u.Width())
	}
	if math.Abs(u.Height()-0.04) > 1e-12 {
		t.Errorf("expected height 0.04, got %f", u.Height())
	}
}

func TestStraightCurveTangents(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	if !c.StartTangent().Equal(Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("unexpected start tangent %+v", c.StartTangent())
	}
	if !c.EndTangent().Equal(Vec3{1, 0, 0}, 1e-6) {
		t.Errorf("unexpected end tangent %+v", c.EndTangent())
	}
}

func TestCurveDropsDuplicates(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 1, 0}, {1, 1, 0}, {2, 0, 0}}
	c, err := FitCurve(pts)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if !c.At(c.Length()).Equal(Vec3{2, 0, 0}, 1e-9) {
		t.Errorf("curve should end on the last point, got %+v", c.At(c.Length()))
	}
	if c.StartTangent().Y <= 0 {
		t.Errorf("start tangent should climb, got %+v", c.StartTangent())
	}
	if c.EndTangent().Y >= 0 {
		t.Errorf("end tangent should descend, got %+v", c.EndTangent())
	}
}

func TestCurveNeedsTwoPoints(t *testing.T) {
	if _, err := FitCurve([]Vec3{{1, 1, 1}, {1, 1, 1}}); err == nil {
		t.Error("expected error for degenerate curve")
	}
}
