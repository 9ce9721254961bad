package report

import (
	"bytes"
	"os"
	"testing"

	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/fuselage"
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/mass"
	"github.com/san-kum/uavsizer/internal/performance"
	"github.com/san-kum/uavsizer/internal/scissor"
)

func envelope() *performance.Envelope {
	return &performance.Envelope{
		EnduranceSpeed:  10,
		CruiseSpeed:     13,
		Endurance:       4.8,
		Range:           210,
		Speeds:          []float64{8, 10, 12, 14},
		PowerParasitic:  []float64{5, 9, 15, 24},
		PowerInduced:    []float64{25, 18, 14, 12},
		PowerRequired:   []float64{30, 27, 29, 36},
		PowerContinuous: []float64{70, 80, 85, 88},
		PowerBurst:      []float64{90, 100, 105, 110},
	}
}

func TestPowerCurves(t *testing.T) {
	p, err := PowerCurves(envelope())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Y.Min != 0 {
		t.Errorf("expected power axis from zero, got %f", p.Y.Min)
	}
	if _, err := PowerCurves(&performance.Envelope{}); err == nil {
		t.Error("expected error for empty envelope")
	}
}

func TestLoadingDiagram(t *testing.T) {
	d := loading.Solve(true)
	p, err := LoadingDiagram(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Y.Max != 3*d.Design.PowerLoading {
		t.Errorf("expected y limit %f, got %f", 3*d.Design.PowerLoading, p.Y.Max)
	}
}

func TestScissor(t *testing.T) {
	if _, err := Scissor(nil); err == nil {
		t.Error("expected error for tailless design")
	}
	r := &scissor.Result{
		Lines:    scissor.Lines{StabilitySlope: 2, ControlSlope: -1.5, ControlIntercept: 0.3, StaticMargin: 0.05},
		Required: 0.2,
		Position: 0.2,
		Curves: scissor.Curves{
			X:         []float64{-1, 0, 1},
			Stability: []float64{-0.475, 0.025, 0.525},
			Control:   []float64{0.467, -0.2, -0.867},
		},
	}
	if _, err := Scissor(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFramesAndSave(t *testing.T) {
	frames := []fuselage.Frame{
		fuselage.BoxFrame(geometry.BoxAt(0, 0.1, 0.05, 0.04), fuselage.Start),
		fuselage.BoxFrame(geometry.BoxAt(0, 0.1, 0.05, 0.04), fuselage.End),
	}
	p, err := Frames(&fuselage.Fuselage{Frames: frames})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := t.TempDir()
	path, err := Save(p, dir, "frames")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if path != Path(dir, "frames") {
		t.Errorf("unexpected path %s", path)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("expected non-empty plot file, got %v", err)
	}
}

func TestSheet(t *testing.T) {
	cfg := config.DefaultConfig()
	d := &design.Design{
		Mission:     cfg.Mission,
		Airframe:    cfg.Airframe,
		Mass:        mass.Summary{Total: 1.8, ByKind: map[mass.Kind]float64{mass.KindBattery: 0.4}},
		Performance: envelope(),
	}
	var buf bytes.Buffer
	if err := Sheet(&buf, "", d); err != nil {
		t.Fatalf("sheet failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("expected PDF output")
	}
}
