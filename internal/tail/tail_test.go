package tail

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/surface"
)

func section(t *testing.T) *airfoil.Airfoil {
	t.Helper()
	af, err := airfoil.Parse("diamond", airfoil.Symmetric, strings.NewReader("1 0\n0.5 0.06\n0 0\n0.5 -0.06\n1 0\n"))
	if err != nil {
		t.Fatalf("airfoil: %v", err)
	}
	return af
}

func wing(t *testing.T) *surface.Surface {
	t.Helper()
	w, err := surface.New(surface.Params{Label: "wing", Area: 0.36, AspectRatio: 10, Taper: 0.5, Airfoil: section(t)})
	if err != nil {
		t.Fatalf("wing: %v", err)
	}
	return w
}

func TestConventionalTail(t *testing.T) {
	w := wing(t)
	tl, err := Size(Params{Configuration: core.Conventional, Wing: w, Ratio: 0.2, Airfoil: section(t)})
	if err != nil {
		t.Fatalf("size failed: %v", err)
	}

	if math.Abs(tl.Horizontal.Area-0.2*w.Area) > 1e-12 {
		t.Errorf("expected HT area %f, got %f", 0.2*w.Area, tl.Horizontal.Area)
	}
	if tl.Horizontal.AspectRatio != HorizontalAspectRatio {
		t.Errorf("expected HT AR 5, got %f", tl.Horizontal.AspectRatio)
	}
	arm := tl.Horizontal.AerodynamicCentre.X - w.AerodynamicCentre.X
	if math.Abs(arm-3*w.MACLength) > 1e-9 {
		t.Errorf("expected tail arm %f, got %f", 3*w.MACLength, arm)
	}

	wantSv := VolumeCoefficient * w.Area * w.Span / (3 * w.MACLength)
	if math.Abs(tl.VerticalArea-wantSv) > 1e-12 {
		t.Errorf("expected fin area %f, got %f", wantSv, tl.VerticalArea)
	}
	if len(tl.Vertical) != 1 || len(tl.Connectors) != 0 {
		t.Errorf("expected one fin and no connectors, got %d and %d", len(tl.Vertical), len(tl.Connectors))
	}
	if len(tl.Surfaces()) != 2 {
		t.Errorf("expected 2 surfaces, got %d", len(tl.Surfaces()))
	}
}

func TestTwinBoomTail(t *testing.T) {
	w := wing(t)
	tl, err := Size(Params{Configuration: core.Conventional, Wing: w, Ratio: 0.2, Airfoil: section(t), TwinBoom: true})
	if err != nil {
		t.Fatalf("size failed: %v", err)
	}
	if len(tl.Vertical) != 2 || len(tl.Connectors) != 2 {
		t.Fatalf("expected two fins and two connectors, got %d and %d", len(tl.Vertical), len(tl.Connectors))
	}

	right, left := tl.Vertical[0], tl.Vertical[1]
	if right.Position.Y != -left.Position.Y || right.Position.Y <= 0 {
		t.Errorf("fins should mirror about the centreline: %f %f", right.Position.Y, left.Position.Y)
	}
	if math.Abs(right.Position.Y-tl.Horizontal.SemiSpan) > 1e-12 {
		t.Errorf("fins should sit at the tailplane tips")
	}
	if math.Abs(right.Area+left.Area-tl.VerticalArea) > 1e-12 {
		t.Errorf("fin areas should add up to %f", tl.VerticalArea)
	}

	thick := math.Max(
		tl.Horizontal.Airfoil.Thickness()*tl.Horizontal.TipChord,
		right.Airfoil.Thickness()*right.RootChord,
	)
	if math.Abs(tl.Connectors[0].Radius-1.5*thick) > 1e-12 {
		t.Errorf("expected connector radius %f, got %f", 1.5*thick, tl.Connectors[0].Radius)
	}
	if tl.Connectors[0].WettedArea() <= 0 {
		t.Error("connector should have wetted area")
	}
}

func TestCanardTail(t *testing.T) {
	w := wing(t)
	tl, err := Size(Params{Configuration: core.Canard, Wing: w, Ratio: 0.15, Airfoil: section(t)})
	if err != nil {
		t.Fatalf("size failed: %v", err)
	}
	if tl.Arm >= 0 || tl.Horizontal.AerodynamicCentre.X >= w.AerodynamicCentre.X {
		t.Errorf("canard should be ahead of the wing, arm %f", tl.Arm)
	}
	conventional := VolumeCoefficient * w.Area * w.Span / (3 * w.MACLength)
	if math.Abs(tl.VerticalArea-conventional*canardFinMACs/armMACs) > 1e-12 {
		t.Errorf("canard fin area should scale with the arm ratio, got %f", tl.VerticalArea)
	}
}

func TestSizeErrors(t *testing.T) {
	w := wing(t)
	af := section(t)
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"no wing", Params{Configuration: core.Conventional, Ratio: 0.2, Airfoil: af}, core.ErrConfig},
		{"flying wing", Params{Configuration: core.FlyingWing, Wing: w, Ratio: 0.2, Airfoil: af}, core.ErrConfig},
		{"zero ratio", Params{Configuration: core.Conventional, Wing: w, Airfoil: af}, core.ErrDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Size(tt.p); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMoved(t *testing.T) {
	tl, err := Size(Params{Configuration: core.Conventional, Wing: wing(t), Ratio: 0.2, Airfoil: section(t), TwinBoom: true})
	if err != nil {
		t.Fatal(err)
	}
	d := geometry.Vec3{X: 0.3, Z: 0.05}
	m := tl.Moved(d)
	if !m.Horizontal.Position.Equal(tl.Horizontal.Position.Add(d), 1e-12) {
		t.Errorf("expected tailplane moved by %+v", d)
	}
	if !m.Connectors[1].End.Equal(tl.Connectors[1].End.Add(d), 1e-12) {
		t.Errorf("expected connectors moved by %+v", d)
	}
	if tl.Vertical[0] == m.Vertical[0] {
		t.Error("expected a copy of the fins")
	}
}
