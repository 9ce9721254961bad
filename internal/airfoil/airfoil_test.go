package airfoil

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/san-kum/uavsizer/internal/core"
)

const diamond = `diamond
1.0 0.0
0.5 0.05
0.0 0.0
0.5 -0.05
1.0 0.0
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"airfoils/symmetric/diamond.dat": {Data: []byte(diamond)},
		"airfoils/symmetric/open.dat":    {Data: []byte("1 0\n0 0.1\n0 -0.1\n")},
		"airfoils/symmetric/notes.txt":   {Data: []byte("ignored")},
	}
}

func TestParse(t *testing.T) {
	af, err := Parse("diamond", Symmetric, strings.NewReader(diamond))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(af.Points) != 5 {
		t.Errorf("expected 5 points, got %d", len(af.Points))
	}
	if af.Points[0] != af.Points[len(af.Points)-1] {
		t.Error("contour should be closed")
	}
	if math.Abs(af.Thickness()-0.1) > 1e-12 {
		t.Errorf("expected thickness 0.1, got %f", af.Thickness())
	}
	want := 4 * math.Hypot(0.5, 0.05)
	if math.Abs(af.Perimeter()-want) > 1e-12 {
		t.Errorf("expected perimeter %f, got %f", want, af.Perimeter())
	}
}

func TestParseClosesContour(t *testing.T) {
	af, err := Parse("open", Symmetric, strings.NewReader("1 0\n0 0.1\n0 -0.1\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(af.Points) != 4 || af.Points[3] != af.Points[0] {
		t.Errorf("expected closed 4-point contour, got %v", af.Points)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad row", "1 0\n0.5 x\n0 0\n"},
		{"three columns", "1 0 0\n0 0\n"},
		{"too short", "1 0\n0 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse("x", Symmetric, strings.NewReader(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadUnloadLoad(t *testing.T) {
	lib := NewLibrary(testFS())

	first, err := lib.Load(Symmetric, "diamond")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !lib.Loaded(Symmetric, "diamond") {
		t.Error("airfoil should be cached")
	}

	lib.Unload(Symmetric, "diamond")
	if lib.Loaded(Symmetric, "diamond") {
		t.Error("airfoil should be gone after unload")
	}

	second, err := lib.Load(Symmetric, "diamond")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if first == second {
		t.Error("reload should read the file again")
	}
	if !reflect.DeepEqual(first.Points, second.Points) {
		t.Error("reloaded points differ")
	}
}

func TestList(t *testing.T) {
	names, err := NewLibrary(testFS()).List(Symmetric)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"diamond", "open"}) {
		t.Errorf("unexpected names %v", names)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := NewLibrary(testFS()).Load(Cambered, "nope"); err == nil {
		t.Error("expected error for missing airfoil")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("Reflexed"); err != nil || k != Reflexed {
		t.Errorf("expected reflexed, got %q %v", k, err)
	}
	if _, err := ParseKind("supercritical"); !errors.Is(err, core.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}
