// Package weight implements the Class-I weight regressions that convert
// between payload mass and maximum take-off mass.
package weight

import (
	"fmt"

	"github.com/san-kum/uavsizer/internal/core"
)

const stage = "weight"

// Regression coefficients fitted on small electric fixed-wing UAVs.
const (
	mtowSlope     = 4.7551
	mtowIntercept = 0.59962

	payloadSlope     = 0.2103
	payloadIntercept = -0.1261

	MaxPayload = 50.0

	// MinMTOW carries zero payload on the payload regression; no lighter
	// aircraft carries a positive payload.
	MinMTOW = -payloadIntercept / payloadSlope // ≈ 0.5996 kg
)

type Target string

const (
	TargetPayload Target = "payload"
	TargetMTOW    Target = "mtow"
)

// MTOWFromPayload returns the take-off mass (kg) for a payload (kg).
func MTOWFromPayload(payload float64) (float64, error) {
	if payload <= 0 || payload > MaxPayload {
		return 0, core.DomainError(stage, "payload", payload, "(0, 50] kg")
	}
	return mtowSlope*payload + mtowIntercept, nil
}

// PayloadFromMTOW returns the payload mass (kg) carried by a take-off mass (kg).
func PayloadFromMTOW(mtow float64) (float64, error) {
	if mtow <= MinMTOW {
		return 0, core.DomainError(stage, "mtow", mtow, fmt.Sprintf("> %.4f kg", MinMTOW))
	}
	payload := payloadSlope*mtow + payloadIntercept
	if payload > MaxPayload {
		return 0, core.DomainError(stage, "mtow", mtow, "maps to a payload in (0, 50] kg")
	}
	return payload, nil
}

type Estimate struct {
	MTOW    float64 `json:"mtow" msgpack:"mtow"`
	Payload float64 `json:"payload" msgpack:"payload"`
}

// Resolve completes the mass pair from whichever side the user fixed.
func Resolve(target Target, value float64) (Estimate, error) {
	switch target {
	case TargetPayload:
		mtow, err := MTOWFromPayload(value)
		if err != nil {
			return Estimate{}, err
		}
		return Estimate{MTOW: mtow, Payload: value}, nil
	case TargetMTOW:
		payload, err := PayloadFromMTOW(value)
		if err != nil {
			return Estimate{}, err
		}
		return Estimate{MTOW: value, Payload: payload}, nil
	}
	return Estimate{}, core.OptionError(stage, "weight_target", target, "payload|mtow")
}
