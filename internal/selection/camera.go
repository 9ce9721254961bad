package selection

import (
	"fmt"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/geometry"
)

type Camera struct {
	Spec       db.Spec    `json:"-" msgpack:"-"`
	Name       string     `json:"name" msgpack:"name"`
	Kind       string     `json:"kind" msgpack:"kind"`
	Weight     float64    `json:"weight" msgpack:"weight"`
	Power      float64    `json:"power" msgpack:"power"`
	Dimensions [3]float64 `json:"dimensions" msgpack:"dimensions"` // length, width, height
	Reason     string     `json:"reason" msgpack:"reason"`
}

func cameraFromSpec(s db.Spec) (Camera, error) {
	c := Camera{Spec: s, Name: s.Label()}
	var err error
	if c.Kind, err = s.Text("type"); err != nil {
		return Camera{}, err
	}
	if c.Weight, err = s.Number("weight"); err != nil {
		return Camera{}, err
	}
	if c.Power, err = s.Number("power"); err != nil {
		return Camera{}, err
	}
	dims, err := s.Floats("dimensions")
	if err != nil {
		return Camera{}, err
	}
	if len(dims) != 3 {
		return Camera{}, core.ConfigError(stage, fmt.Sprintf("camera %s: dimensions need 3 values, got %d", c.Name, len(dims)))
	}
	copy(c.Dimensions[:], dims)
	return c, nil
}

// SelectCamera returns the heaviest camera of kind not exceeding target.
func SelectCamera(specs []db.Spec, kind string, target float64) (Camera, error) {
	if target <= 0 {
		return Camera{}, core.DomainError(stage, "target_weight", target, "> 0 kg")
	}
	var best Camera
	found := false
	for _, s := range specs {
		c, err := cameraFromSpec(s)
		if err != nil {
			return Camera{}, err
		}
		if c.Kind != kind || c.Weight > target {
			continue
		}
		if !found || c.Weight > best.Weight {
			best, found = c, true
		}
	}
	if !found {
		return Camera{}, &core.StageError{
			Stage:        stage,
			Parameter:    "payload_type",
			Value:        kind,
			AllowedRange: fmt.Sprintf("weight <= %.3f kg", target),
			Message:      "no camera fits the payload budget",
			Err:          core.ErrNoFeasibleSelection,
		}
	}
	best.Reason = fmt.Sprintf("heaviest %s camera within %.3f kg", kind, target)
	return best, nil
}

func (c Camera) Box(x0 float64) geometry.BBox {
	return geometry.BoxAt(x0, c.Dimensions[0], c.Dimensions[1], c.Dimensions[2])
}
