package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/mass"
	"github.com/san-kum/uavsizer/internal/performance"
)

func TestCanvasLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 0)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] == blank {
			t.Errorf("expected column %d lit", col)
		}
	}
	if c.Grid[1][0] != blank {
		t.Error("expected second row empty")
	}
	c.Set(-1, 100)
	if got := strings.Count(c.String(), "\n"); got != 2 {
		t.Errorf("expected 2 rows, got %d", got)
	}
}

func TestViewportKeepsAspect(t *testing.T) {
	c := NewCanvas(10, 10)
	v := c.Fit(0, 0, 2, 1)
	x0, y0 := v.pixel(0, 0)
	x1, y1 := v.pixel(2, 1)
	if x0 != 0 || x1 != 19 {
		t.Errorf("expected x span 0..19, got %d..%d", x0, x1)
	}
	if d := y0 - y1; d < 9 || d > 10 {
		t.Errorf("expected y span of half the width, got %d", d)
	}
	v.Polyline(geometry.Point2{X: 0, Y: 0}, geometry.Point2{X: 2, Y: 1})
}

func TestThemes(t *testing.T) {
	SetTheme("minimal")
	if CurrentTheme.Name != "minimal" {
		t.Errorf("expected minimal, got %s", CurrentTheme.Name)
	}
	if next := NextTheme(); next.Name != "sunset" {
		t.Errorf("expected sunset, got %s", next.Name)
	}
	if GetTheme("nope").Name != "blueprint" {
		t.Error("expected fallback theme")
	}
	SetTheme("blueprint")
}

func TestSummary(t *testing.T) {
	cfg := config.DefaultConfig()
	d := &design.Design{
		Mission: cfg.Mission,
		Mass:    mass.Summary{Total: 2, ByKind: map[mass.Kind]float64{mass.KindBattery: 0.5, mass.KindWing: 0.3}},
		Performance: &performance.Envelope{
			Endurance:       4.8,
			Speeds:          []float64{8, 10, 12},
			PowerRequired:   []float64{30, 27, 29},
			PowerContinuous: []float64{80, 85, 90},
		},
	}
	d.Warnings.Add(core.ValidationReset, "wing", "offset reset")

	out := Summary(d)
	for _, want := range []string{"Sizing", "Components", "battery", "offset reset"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in summary", want)
		}
	}
	if PowerChart(d.Performance, 40, 8) == "" {
		t.Error("expected power chart")
	}
	if PowerChart(nil, 40, 8) != "" {
		t.Error("expected empty chart without envelope")
	}
}
