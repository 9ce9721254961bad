package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/performance"
	"github.com/san-kum/uavsizer/internal/selection"
	"github.com/san-kum/uavsizer/internal/weight"
)

func sample() *design.Design {
	cfg := config.DefaultConfig()
	d := &design.Design{
		Mission:  cfg.Mission,
		Airframe: cfg.Airframe,
		Weight:   weight.Estimate{MTOW: 1.79, Payload: 0.25},
		Motor:    selection.Motor{Name: "mt2208-120", ConstantPower: 120},
		Performance: &performance.Envelope{
			Endurance:       4.8,
			Range:           120,
			Speeds:          []float64{8, 10, 12},
			PowerRequired:   []float64{30, 25, 28},
			PowerContinuous: []float64{80, 90, 95},
		},
	}
	d.Warnings.Add(core.ValidationReset, "wing", "taper reset to %.1f", 0.5)
	return d
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("handlaunch", sample())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Label != "handlaunch" {
		t.Errorf("expected label 'handlaunch', got '%s'", meta.Label)
	}
	if meta.Motor != "mt2208-120" {
		t.Errorf("expected motor 'mt2208-120', got '%s'", meta.Motor)
	}
	if meta.Warnings != 1 {
		t.Errorf("expected 1 warning, got %d", meta.Warnings)
	}

	d, err := st.LoadDesign(runID)
	if err != nil {
		t.Fatalf("load design failed: %v", err)
	}
	if d.Weight.MTOW != 1.79 {
		t.Errorf("expected mtow 1.79, got %f", d.Weight.MTOW)
	}
	if d.Mission.Configuration != core.Conventional {
		t.Errorf("expected conventional, got %s", d.Mission.Configuration)
	}
	if len(d.Performance.Speeds) != 3 {
		t.Errorf("expected 3 speeds, got %d", len(d.Performance.Speeds))
	}

	speeds, req, avail, err := st.LoadPower(runID)
	if err != nil {
		t.Fatalf("load power failed: %v", err)
	}
	if len(speeds) != 3 || req[1] != 25 || avail[2] != 95 {
		t.Errorf("unexpected power curves %v %v %v", speeds, req, avail)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	first, _ := st.Save("a", sample())
	if _, err := st.Save("b", sample()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first {
		t.Errorf("expected oldest run first")
	}

	if err := st.Delete(first); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	runs, _ = st.List()
	if len(runs) != 1 {
		t.Errorf("expected 1 run after delete, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "none")).List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
