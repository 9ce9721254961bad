// Package aero exchanges scalar aerodynamic results with an external
// vortex-lattice solver through JSON dumps, and estimates them
// analytically when no dump is available.
package aero

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/core"
)

const stage = "aero"

// Results are the AVL quantities the sizing stages consume.
type Results struct {
	Label    string  `json:"label"`
	CLalpha  float64 `json:"CLalpha"` // per rad
	Cmac     float64 `json:"Cmac"`
	CLtrim   float64 `json:"CLtrim"`
	Estimate bool    `json:"estimate,omitempty"`
}

// Path is where the dump for label lives under dir.
func Path(dir, label string) string {
	return filepath.Join(dir, "avl", label+".json")
}

func LoadAVL(path string) (*Results, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r Results
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.CLalpha <= 0 {
		return nil, core.DomainError(stage, "CLalpha", r.CLalpha, "> 0")
	}
	return &r, nil
}

func SaveAVL(path string, r *Results) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SectionMoment is the typical C_mac of a section family.
func SectionMoment(kind airfoil.Kind) float64 {
	switch kind {
	case airfoil.Cambered:
		return -0.05
	case airfoil.Reflexed:
		return 0.01
	}
	return 0
}

// Estimate returns lifting-line results for a wing of aspect ratio ar,
// Oswald factor e and section moment coefficient cm at lift coefficient cl.
func Estimate(label string, ar, e, cm, cl float64) *Results {
	return &Results{
		Label:    label,
		CLalpha:  2 * math.Pi / (1 + 2/(ar*e)),
		Cmac:     cm,
		CLtrim:   cl,
		Estimate: true,
	}
}

// Resolve loads the dump for label from dir, falling back to est when none
// exists. Any other read error is returned.
func Resolve(dir, label string, est *Results) (*Results, error) {
	if dir == "" {
		return est, nil
	}
	r, err := LoadAVL(Path(dir, label))
	if errors.Is(err, fs.ErrNotExist) {
		return est, nil
	}
	return r, err
}
