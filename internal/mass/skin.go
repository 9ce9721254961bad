package mass

import (
	"fmt"
	"math"

	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/surface"
	"github.com/san-kum/uavsizer/internal/tail"
)

// Areal density of one cured ply, kg/m^2.
var Materials = map[string]float64{
	"fibreglass": 0.18,
	"carbon":     0.20,
	"kevlar":     0.17,
}

const DefaultMaterial = "fibreglass"

// Skin is a shell component whose mass follows from its wetted area.
type Skin struct {
	Type        Kind          `json:"kind" msgpack:"kind"`
	Label       string        `json:"label" msgpack:"label"`
	Wetted      float64       `json:"wetted_area" msgpack:"wetted_area"`
	Planform    float64       `json:"planform_area" msgpack:"planform_area"`
	PlyCount    int           `json:"plies" msgpack:"plies"`
	MaterialKey string        `json:"material" msgpack:"material"`
	Shape       geometry.BBox `json:"shape" msgpack:"shape"`
	Centre      geometry.Vec3 `json:"centre" msgpack:"centre"`

	// Shared is the wetted area lost to intersections with other skins.
	Shared float64 `json:"shared_area" msgpack:"shared_area"`
}

// NewSkin builds a shell of kind. The centre defaults to the box centre.
func NewSkin(kind Kind, label string, wetted, planform float64, plies int, material string, shape geometry.BBox) (*Skin, error) {
	if _, ok := Materials[material]; !ok {
		return nil, fmt.Errorf("unknown material: %s", material)
	}
	if plies < 1 {
		return nil, fmt.Errorf("%s: plies must be positive, got %d", label, plies)
	}
	return &Skin{
		Type:        kind,
		Label:       label,
		Wetted:      wetted,
		Planform:    planform,
		PlyCount:    plies,
		MaterialKey: material,
		Shape:       shape,
		Centre:      shape.Centre(),
	}, nil
}

func (s *Skin) Kind() Kind                     { return s.Type }
func (s *Skin) CentreOfGravity() geometry.Vec3 { return s.Centre }
func (s *Skin) WettedArea() float64            { return s.Wetted }
func (s *Skin) PlanformArea() float64          { return s.Planform }
func (s *Skin) Plies() int                     { return s.PlyCount }
func (s *Skin) Material() string               { return s.MaterialKey }

// NetArea is the exposed wetted area.
func (s *Skin) NetArea() float64 {
	return math.Max(0, s.Wetted-s.Shared)
}

func (s *Skin) Weight() float64 {
	return s.NetArea() * float64(s.PlyCount) * Materials[s.MaterialKey]
}

// CommonArea is the area two shells share where their boxes overlap:
// half the surface of the overlap box.
func CommonArea(a, b geometry.BBox) float64 {
	lx := math.Min(a.Max.X, b.Max.X) - math.Max(a.Min.X, b.Min.X)
	ly := math.Min(a.Max.Y, b.Max.Y) - math.Max(a.Min.Y, b.Min.Y)
	lz := math.Min(a.Max.Z, b.Max.Z) - math.Max(a.Min.Z, b.Min.Z)
	if lx <= 0 || ly <= 0 || lz <= 0 {
		return 0
	}
	return lx*ly + ly*lz + lx*lz
}

// Trim sets each skin's shared area from its pairwise intersections.
// Intersections of equal area to 4 decimals are counted once per skin.
func Trim(skins ...*Skin) {
	for i, s := range skins {
		seen := make(map[float64]bool)
		s.Shared = 0
		for j, o := range skins {
			if i == j {
				continue
			}
			a := CommonArea(s.Shape, o.Shape)
			if a == 0 {
				continue
			}
			key := math.Round(a*1e4) / 1e4
			if seen[key] {
				continue
			}
			seen[key] = true
			s.Shared += a
		}
	}
}

// SurfaceSkin is the shell of a lifting surface.
func SurfaceSkin(kind Kind, s *surface.Surface, plies int, material string) (*Skin, error) {
	sk, err := NewSkin(kind, s.Label, s.WettedArea(), s.PlanformArea(), plies, material, s.BBox())
	if err != nil {
		return nil, err
	}
	// Thin-shell centroid at 40% chord of the mean aerodynamic chord.
	sk.Centre = s.MACPosition.Add(geometry.Vec3{X: 0.4 * s.MACLength})
	if !s.Vertical {
		sk.Centre.Y = s.Position.Y
	}
	return sk, nil
}

// ConnectorSkin is the fairing joining a twin-boom fin to the tailplane.
func ConnectorSkin(label string, c tail.Connector, plies int, material string) (*Skin, error) {
	return NewSkin(KindConnector, label, c.WettedArea(), 0, plies, material, c.BBox())
}

// BoomSkin is a tubular tail boom of the given radius from start along +x.
func BoomSkin(label string, start geometry.Vec3, length, radius float64, plies int, material string) (*Skin, error) {
	box := geometry.BBox{
		Min: start.Sub(geometry.Vec3{Y: radius, Z: radius}),
		Max: start.Add(geometry.Vec3{X: length, Y: radius, Z: radius}),
	}
	return NewSkin(KindBoom, label, 2*math.Pi*radius*length, 0, plies, material, box)
}
