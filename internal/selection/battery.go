package selection

import (
	"fmt"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/geometry"
)

const (
	EnergyDensity     = 1.8e6  // J/kg
	VolumetricDensity = 4.32e9 // J/m^3
	MinBatteryVolume  = 1.5e-5 // m^3
)

type BatteryTarget string

const (
	SizeByWeight   BatteryTarget = "weight"
	SizeByCapacity BatteryTarget = "capacity"
)

type Battery struct {
	Energy float64 `json:"energy" msgpack:"energy"` // J
	Mass   float64 `json:"mass" msgpack:"mass"`     // kg
	Volume float64 `json:"volume" msgpack:"volume"` // m^3
	Length float64 `json:"length" msgpack:"length"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
	Reason string  `json:"reason" msgpack:"reason"`
}

// SizeBattery sizes a pack from its mass or its energy. The pack fills
// the given cross-section and its length follows from the volume.
func SizeBattery(target BatteryTarget, value, width, height float64) (Battery, error) {
	if value <= 0 {
		return Battery{}, core.DomainError(stage, "sizing_value", value, "> 0")
	}
	if width <= 0 || height <= 0 {
		return Battery{}, core.DomainError(stage, "cross_section", fmt.Sprintf("%gx%g", width, height), "> 0 m")
	}

	b := Battery{Width: width, Height: height}
	switch target {
	case SizeByWeight:
		b.Mass = value
		b.Energy = value * EnergyDensity
	case SizeByCapacity:
		b.Energy = value
		b.Mass = value / EnergyDensity
	default:
		return Battery{}, core.OptionError(stage, "sizing_target", target, "weight|capacity")
	}
	b.Volume = b.Energy / VolumetricDensity
	if b.Volume < MinBatteryVolume {
		return Battery{}, &core.StageError{
			Stage:        stage,
			Parameter:    "volume",
			Value:        b.Volume,
			AllowedRange: fmt.Sprintf(">= %g m^3", MinBatteryVolume),
			Err:          core.ErrUndersizedBattery,
		}
	}
	b.Length = b.Volume / (width * height)
	b.Reason = fmt.Sprintf("%.1f Wh at %.0f Wh/kg", b.Energy/3600, EnergyDensity/3600)
	return b, nil
}

func (b Battery) Box(x0 float64) geometry.BBox {
	return geometry.BoxAt(x0, b.Length, b.Width, b.Height)
}
