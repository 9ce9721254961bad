package aero

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/core"
)

func TestSaveLoadAVL(t *testing.T) {
	dir := t.TempDir()
	in := &Results{Label: "wing", CLalpha: 4.9, Cmac: -0.05, CLtrim: 0.6}
	path := Path(dir, "wing")
	if err := SaveAVL(path, in); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	out, err := LoadAVL(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *out != *in {
		t.Errorf("expected %+v, got %+v", in, out)
	}
}

func TestLoadAVLRejectsSlope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"CLalpha": 0}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAVL(path); !errors.Is(err, core.ErrDomain) {
		t.Errorf("expected domain error, got %v", err)
	}
}

func TestResolveFallsBack(t *testing.T) {
	est := Estimate("wing", 10, 0.8, -0.05, 0.5)
	want := 2 * math.Pi / (1 + 2/8.0)
	if math.Abs(est.CLalpha-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, est.CLalpha)
	}

	r, err := Resolve(t.TempDir(), "wing", est)
	if err != nil {
		t.Fatal(err)
	}
	if r != est || !r.Estimate {
		t.Errorf("expected the estimate back, got %+v", r)
	}
}

func TestSectionMoment(t *testing.T) {
	if SectionMoment(airfoil.Symmetric) != 0 {
		t.Error("expected zero moment for a symmetric section")
	}
	if SectionMoment(airfoil.Cambered) >= 0 || SectionMoment(airfoil.Reflexed) <= 0 {
		t.Error("expected nose-down cambered and nose-up reflexed moments")
	}
}
