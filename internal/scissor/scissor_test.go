package scissor

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/uavsizer/internal/core"
)

func stableInput() Input {
	return Input{
		CG:            0.3,
		AC:            0.1,
		MAC:           1,
		AspectRatio:   10,
		MaxLiftCoef:   1.25,
		MomentCoef:    -0.05,
		Configuration: core.Conventional,
	}
}

func TestStableCase(t *testing.T) {
	r, err := Analyse(stableInput())
	if err != nil {
		t.Fatalf("analyse failed: %v", err)
	}
	if r.Required <= 0 || r.Required >= 1 {
		t.Errorf("expected S_h/S in (0, 1), got %f", r.Required)
	}
	if r.Required < r.Analytic {
		t.Errorf("required %f below analytic minimum %f", r.Required, r.Analytic)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}

	x := r.Position
	if r.Control(x) > r.Stability(x) {
		t.Errorf("control %f should not exceed stability %f at x=%f", r.Control(x), r.Stability(x), x)
	}
	if !r.Contains(x, r.Required) {
		t.Error("operating CG should lie between the limits at the required ratio")
	}
}

func TestRefinementPicksSmallestBracketingRatio(t *testing.T) {
	r, err := Analyse(stableInput())
	if err != nil {
		t.Fatalf("analyse failed: %v", err)
	}
	// The stability line binds here: S_h/S = (x + SM)/slope.
	want := r.Stability(r.Position)
	c := r.Curves.Control
	step := math.Max(c[0], c[len(c)-1]) / (candidateSamples - 1)
	if r.Required < want || r.Required > want+step {
		t.Errorf("expected required within one step above %f, got %f", want, r.Required)
	}
}

func TestCurvesSpanRange(t *testing.T) {
	r, _ := Analyse(stableInput())
	c := r.Curves
	if len(c.X) != curveSamples || c.X[0] != -5 || math.Abs(c.X[len(c.X)-1]-5) > 1e-9 {
		t.Errorf("unexpected sweep %v..%v (%d)", c.X[0], c.X[len(c.X)-1], len(c.X))
	}
	for i, x := range c.X {
		if math.Abs(c.Stability[i]-r.Stability(x)) > 1e-12 {
			t.Fatalf("stability sample %d mismatch", i)
		}
	}
}

func TestUnstableFallback(t *testing.T) {
	in := stableInput()
	in.CG = 10.1
	r, err := Analyse(in)
	if err != nil {
		t.Fatalf("analyse failed: %v", err)
	}
	if !r.Warnings.Has(core.UnstableDesign) {
		t.Error("expected unstable design warning")
	}
	if r.Required != r.Analytic {
		t.Errorf("fallback should keep analytic %f, got %f", r.Analytic, r.Required)
	}
}

func TestCanardLines(t *testing.T) {
	in := stableInput()
	in.Configuration = core.Canard
	r, err := Analyse(in)
	if err != nil {
		t.Fatalf("analyse failed: %v", err)
	}
	if r.StabilitySlope >= 0 || r.ControlSlope >= 0 {
		t.Errorf("canard arm is forward of the wing, got slopes %f %f", r.StabilitySlope, r.ControlSlope)
	}
	if len(r.Curves.Stability) != curveSamples {
		t.Errorf("expected %d samples, got %d", curveSamples, len(r.Curves.Stability))
	}
}

func TestInvalidInput(t *testing.T) {
	in := stableInput()
	in.MAC = 0
	if _, err := Analyse(in); !errors.Is(err, core.ErrDomain) {
		t.Errorf("expected ErrDomain, got %v", err)
	}

	in = stableInput()
	in.Configuration = core.FlyingWing
	if _, err := Analyse(in); !errors.Is(err, core.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

func TestLiftSlope(t *testing.T) {
	got := LiftSlope(5, 0.8)
	want := 2 * math.Pi / 1.5
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}
