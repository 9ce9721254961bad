// Package airfoil reads closed section contours from .dat files and
// serves them through a small cache.
package airfoil

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/geometry"
)

type Kind string

const (
	Symmetric Kind = "symmetric"
	Cambered  Kind = "cambered"
	Reflexed  Kind = "reflexed"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case Symmetric, Cambered, Reflexed:
		return k, nil
	}
	return "", core.OptionError("airfoil", "kind", s, "symmetric|cambered|reflexed")
}

// Airfoil is a unit-chord section contour. The first and last points
// coincide. Airfoils returned by a Library are shared and must not be
// modified.
type Airfoil struct {
	Name   string            `json:"name" msgpack:"name"`
	Kind   Kind              `json:"kind" msgpack:"kind"`
	Points []geometry.Point2 `json:"points" msgpack:"points"`
}

// Parse reads "<x> <y>" lines. A leading non-numeric line is taken as a
// title and skipped. An open contour is closed by repeating its first point.
func Parse(name string, kind Kind, r io.Reader) (*Airfoil, error) {
	af := &Airfoil{Name: name, Kind: kind}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		f := strings.Fields(text)
		if len(f) != 2 {
			if len(af.Points) == 0 && line == 1 {
				continue
			}
			return nil, fmt.Errorf("airfoil %s: line %d: expected two columns", name, line)
		}
		x, errX := strconv.ParseFloat(f[0], 64)
		y, errY := strconv.ParseFloat(f[1], 64)
		if errX != nil || errY != nil {
			if len(af.Points) == 0 && line == 1 {
				continue
			}
			return nil, fmt.Errorf("airfoil %s: line %d: bad coordinate %q", name, line, text)
		}
		af.Points = append(af.Points, geometry.Point2{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("airfoil %s: %w", name, err)
	}
	if len(af.Points) < 3 {
		return nil, fmt.Errorf("airfoil %s: %d points", name, len(af.Points))
	}
	if af.Points[0] != af.Points[len(af.Points)-1] {
		af.Points = append(af.Points, af.Points[0])
	}
	return af, nil
}

// leadingEdge returns the index of the point with the smallest x.
func (a *Airfoil) leadingEdge() int {
	le := 0
	for i, p := range a.Points {
		if p.X < a.Points[le].X {
			le = i
		}
	}
	return le
}

// Thickness is the maximum thickness-to-chord ratio, measured vertically
// between the two surfaces.
func (a *Airfoil) Thickness() float64 {
	le := a.leadingEdge()
	first := a.Points[:le+1]
	second := a.Points[le:]

	best := 0.0
	for _, p := range first {
		y, ok := yAt(second, p.X)
		if !ok {
			continue
		}
		best = math.Max(best, math.Abs(p.Y-y))
	}
	return best
}

// yAt linearly interpolates y at x along a polyline.
func yAt(pts []geometry.Point2, x float64) (float64, bool) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		lo, hi := math.Min(a.X, b.X), math.Max(a.X, b.X)
		if x < lo || x > hi {
			continue
		}
		if hi == lo {
			return a.Y, true
		}
		return a.Y + (b.Y-a.Y)*(x-a.X)/(b.X-a.X), true
	}
	return 0, false
}

// Perimeter is the contour length for a unit chord.
func (a *Airfoil) Perimeter() float64 {
	l := 0.0
	for i := 1; i < len(a.Points); i++ {
		l += math.Hypot(a.Points[i].X-a.Points[i-1].X, a.Points[i].Y-a.Points[i-1].Y)
	}
	return l
}

// Scaled returns the contour for the given chord.
func (a *Airfoil) Scaled(chord float64) []geometry.Point2 {
	out := make([]geometry.Point2, len(a.Points))
	for i, p := range a.Points {
		out[i] = geometry.Point2{X: p.X * chord, Y: p.Y * chord}
	}
	return out
}

// Library loads airfoils/<kind>/<name>.dat from a file system.
type Library struct {
	fsys  fs.FS
	cache *lru.Cache[string, *Airfoil]
}

const defaultCacheSize = 32

func NewLibrary(fsys fs.FS) *Library {
	cache, err := lru.New[string, *Airfoil](defaultCacheSize)
	if err != nil {
		panic(err)
	}
	return &Library{fsys: fsys, cache: cache}
}

func filePath(kind Kind, name string) string {
	return path.Join("airfoils", string(kind), name+".dat")
}

func (l *Library) Load(kind Kind, name string) (*Airfoil, error) {
	key := filePath(kind, name)
	if af, ok := l.cache.Get(key); ok {
		return af, nil
	}

	f, err := l.fsys.Open(key)
	if err != nil {
		return nil, fmt.Errorf("open airfoil: %w", err)
	}
	defer f.Close()

	af, err := Parse(name, kind, f)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, af)
	return af, nil
}

// Unload drops a cached airfoil; the next Load rereads the file.
func (l *Library) Unload(kind Kind, name string) {
	l.cache.Remove(filePath(kind, name))
}

func (l *Library) Loaded(kind Kind, name string) bool {
	return l.cache.Contains(filePath(kind, name))
}

// List returns the airfoil names available for kind, sorted.
func (l *Library) List(kind Kind) ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, path.Join("airfoils", string(kind)))
	if err != nil {
		return nil, fmt.Errorf("list airfoils: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".dat" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".dat"))
	}
	sort.Strings(names)
	return names, nil
}
