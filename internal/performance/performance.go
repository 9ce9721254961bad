// Package performance computes the power-required and power-available
// curves of a sized aircraft and the speeds, endurance and range that
// follow from them.
package performance

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/uavsizer/internal/core"
)

const stage = "performance"

const (
	minSpeed     = 0.1 // m/s
	sweepSamples = 500
)

// Efficiency is a propeller efficiency curve over airspeed.
type Efficiency interface {
	At(v float64) float64
}

type Input struct {
	MTOW          float64 // kg
	WingArea      float64 // m^2
	AspectRatio   float64
	MaxLiftCoef   float64
	Oswald        float64
	ParasiticDrag float64

	ContinuousPower float64 // motor rating, W
	BurstPower      float64 // W
	Propeller       Efficiency
	MaxPropSpeed    float64 // upper bound of the propeller data, m/s

	BatteryEnergy float64 // J
}

type Envelope struct {
	StallSpeed     float64 `json:"stall_speed" msgpack:"stall_speed"`
	EnduranceSpeed float64 `json:"endurance_speed" msgpack:"endurance_speed"`
	CruiseSpeed    float64 `json:"cruise_speed" msgpack:"cruise_speed"`
	Endurance      float64 `json:"endurance" msgpack:"endurance"` // h
	Range          float64 `json:"range" msgpack:"range"`         // km

	Speeds          []float64 `json:"speeds" msgpack:"speeds"`
	PowerParasitic  []float64 `json:"power_parasitic" msgpack:"power_parasitic"`
	PowerInduced    []float64 `json:"power_induced" msgpack:"power_induced"`
	PowerRequired   []float64 `json:"power_required" msgpack:"power_required"`
	PowerContinuous []float64 `json:"power_continuous" msgpack:"power_continuous"`
	PowerBurst      []float64 `json:"power_burst" msgpack:"power_burst"`

	in Input
}

func (in *Input) defaults() {
	if in.Oswald == 0 {
		in.Oswald = core.Oswald
	}
	if in.ParasiticDrag == 0 {
		in.ParasiticDrag = core.ParasiticDrag
	}
}

func (in Input) validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"mtow", in.MTOW},
		{"wing_area", in.WingArea},
		{"aspect_ratio", in.AspectRatio},
		{"max_lift_coef", in.MaxLiftCoef},
		{"continuous_power", in.ContinuousPower},
		{"battery_energy", in.BatteryEnergy},
		{"max_prop_speed", in.MaxPropSpeed},
	}
	for _, c := range checks {
		if c.v <= 0 || math.IsNaN(c.v) {
			return core.DomainError(stage, c.name, c.v, "> 0")
		}
	}
	if in.Propeller == nil {
		return core.ConfigError(stage, "no propeller efficiency curve")
	}
	return nil
}

// StallSpeed is sqrt(2 g MTOW / (rho C_Lmax S)).
func StallSpeed(mtow, clMax, area float64) float64 {
	return math.Sqrt(2 * core.Gravity * mtow / (core.RhoSeaLevel * clMax * area))
}

// Power returns the parasitic and induced power required at v.
func (in Input) Power(v float64) (parasitic, induced float64) {
	qS := 0.5 * core.RhoSeaLevel * v * v * in.WingArea
	cl := in.MTOW * core.Gravity / qS
	return in.ParasiticDrag * qS * v, cl * cl / (math.Pi * in.AspectRatio * in.Oswald) * qS * v
}

func (in Input) required(v float64) float64 {
	p, i := in.Power(v)
	return p + i
}

// available is the continuous thrust power at v.
func (in Input) available(v float64) float64 {
	return in.ContinuousPower * core.EtaMotor * in.Propeller.At(v)
}

// tangentError is |dP/dV - P/V|, zero where a line from the origin
// touches the power-required curve.
func (in Input) tangentError(v float64) float64 {
	a := in.ParasiticDrag * 0.5 * core.RhoSeaLevel * in.WingArea
	w := in.MTOW * core.Gravity
	b := w * w / (0.5 * core.RhoSeaLevel * in.WingArea * math.Pi * in.AspectRatio * in.Oswald)
	return math.Abs(2*a*v*v - 2*b/(v*v))
}

// Analyse sweeps V from 0.1 m/s to the propeller's top speed. The
// endurance speed maximises excess continuous power and the cruise speed
// is the tangent from the origin to the power-required curve; both are
// held at or above 1.5 V_s.
func Analyse(in Input) (*Envelope, error) {
	in.defaults()
	if err := in.validate(); err != nil {
		return nil, err
	}

	e := &Envelope{in: in, StallSpeed: StallSpeed(in.MTOW, in.MaxLiftCoef, in.WingArea)}
	top := math.Max(in.MaxPropSpeed, 2*minSpeed)
	e.Speeds = floats.Span(make([]float64, sweepSamples), minSpeed, top)

	n := len(e.Speeds)
	e.PowerParasitic = make([]float64, n)
	e.PowerInduced = make([]float64, n)
	e.PowerRequired = make([]float64, n)
	e.PowerContinuous = make([]float64, n)
	e.PowerBurst = make([]float64, n)

	excess := make([]float64, n)
	tangent := make([]float64, n)
	for i, v := range e.Speeds {
		p, ind := in.Power(v)
		eta := in.Propeller.At(v)
		e.PowerParasitic[i] = p
		e.PowerInduced[i] = ind
		e.PowerRequired[i] = p + ind
		e.PowerContinuous[i] = in.ContinuousPower * core.EtaMotor * eta
		e.PowerBurst[i] = in.BurstPower * core.EtaMotor * eta
		excess[i] = e.PowerContinuous[i] - e.PowerRequired[i]
		tangent[i] = in.tangentError(v)
	}

	floor := core.StallBuffer * e.StallSpeed
	e.EnduranceSpeed = math.Max(e.Speeds[floats.MaxIdx(excess)], floor)
	e.CruiseSpeed = math.Max(e.Speeds[floats.MinIdx(tangent)], floor)

	pReq := in.required(e.EnduranceSpeed)
	pAvail := in.available(e.EnduranceSpeed)
	if pReq > pAvail {
		return nil, &core.StageError{
			Stage:        stage,
			Parameter:    "endurance_speed",
			Value:        e.EnduranceSpeed,
			AllowedRange: "P_req <= P_available",
			Message:      "continuous power cannot sustain the endurance speed",
			Err:          core.ErrDomain,
		}
	}

	eta := in.Propeller.At(e.EnduranceSpeed)
	e.Endurance = in.BatteryEnergy * core.EtaMotor * eta / pReq / 3600
	e.Range = 3.6 * e.Endurance * e.CruiseSpeed
	return e, nil
}

// RequiredAt and AvailableAt evaluate the curves at any speed.
func (e *Envelope) RequiredAt(v float64) float64  { return e.in.required(v) }
func (e *Envelope) AvailableAt(v float64) float64 { return e.in.available(v) }
