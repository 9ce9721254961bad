// Package loading builds the wing-loading / power-loading diagram and
// selects the design point that sizes the wing and the propulsion.
package loading

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/uavsizer/internal/core"
)

const stage = "loading"

var MaxLiftCoefs = []float64{1.0, 1.25, 1.5}

const (
	ClimbRate     = 1.524 // m/s
	ClimbGradient = 0.507

	StallHandlaunch = 8.0  // m/s
	StallRunway     = 12.0 // m/s

	targetLiftCoef = 1.2
	optimalARHand  = 7.0
	optimalARRun   = 15.0

	// Climb-gradient curves use a lift coefficient backed off from C_Lmax.
	climbLiftMargin = 0.2

	sweepSamples = 200
)

type DesignPoint struct {
	WingLoading  float64 `json:"wing_loading" msgpack:"wing_loading"`   // N/m^2
	PowerLoading float64 `json:"power_loading" msgpack:"power_loading"` // N/W
	MaxLiftCoef  float64 `json:"max_lift_coef" msgpack:"max_lift_coef"`
	AspectRatio  float64 `json:"aspect_ratio" msgpack:"aspect_ratio"`
}

type StallLine struct {
	MaxLiftCoef float64 `json:"max_lift_coef" msgpack:"max_lift_coef"`
	WingLoading float64 `json:"wing_loading" msgpack:"wing_loading"`
}

// Curve is a power-loading curve sampled over the wing-loading sweep.
type Curve struct {
	Kind         string    `json:"kind" msgpack:"kind"`
	AspectRatio  float64   `json:"aspect_ratio" msgpack:"aspect_ratio"`
	MaxLiftCoef  float64   `json:"max_lift_coef,omitempty" msgpack:"max_lift_coef"`
	PowerLoading []float64 `json:"power_loading" msgpack:"power_loading"`
}

type Diagram struct {
	WingLoading   []float64   `json:"wing_loading" msgpack:"wing_loading"`
	Stall         []StallLine `json:"stall" msgpack:"stall"`
	ClimbRate     []Curve     `json:"climb_rate" msgpack:"climb_rate"`
	ClimbGradient []Curve     `json:"climb_gradient" msgpack:"climb_gradient"`
	StallSpeed    float64     `json:"stall_speed" msgpack:"stall_speed"`
	Handlaunch    bool        `json:"handlaunch" msgpack:"handlaunch"`
	Design        DesignPoint `json:"design" msgpack:"design"`
}

func StallSpeed(handlaunch bool) float64 {
	if handlaunch {
		return StallHandlaunch
	}
	return StallRunway
}

func AspectRatios(handlaunch bool) []float64 {
	if handlaunch {
		return []float64{10, 12}
	}
	return []float64{12, 20}
}

// StallWingLoading is the wing loading that stalls at vs with clMax.
func StallWingLoading(clMax, vs float64) float64 {
	return 0.5 * core.RhoSeaLevel * clMax * vs * vs
}

// ClimbRatePowerLoading is W/P (N/W) that sustains ClimbRate at 3 km.
func ClimbRatePowerLoading(ws, ar float64) float64 {
	ae := ar * core.Oswald
	term := ws * (2 / core.Rho3km) * (math.Sqrt(core.ParasiticDrag) / (1.81 * math.Pow(ae, 1.5)))
	return core.EtaProp / (ClimbRate + math.Sqrt(term))
}

// ClimbGradientPowerLoading is W/P (N/W) that sustains ClimbGradient at sea level.
func ClimbGradientPowerLoading(ws, ar, clMax float64) float64 {
	cl := clMax - climbLiftMargin
	cd := core.ParasiticDrag + cl*cl/(math.Pi*ar*core.Oswald)
	v := math.Sqrt(ws * (2 / core.RhoSeaLevel) * (1 / cl))
	return core.EtaProp / (v * (ClimbGradient + cd/cl))
}

// Solve builds the loading diagram and selects the design point.
func Solve(handlaunch bool) Diagram {
	vs := StallSpeed(handlaunch)
	ars := AspectRatios(handlaunch)

	d := Diagram{StallSpeed: vs, Handlaunch: handlaunch}
	maxWS := 0.0
	for _, cl := range MaxLiftCoefs {
		ws := StallWingLoading(cl, vs)
		d.Stall = append(d.Stall, StallLine{MaxLiftCoef: cl, WingLoading: ws})
		maxWS = math.Max(maxWS, ws)
	}

	d.WingLoading = floats.Span(make([]float64, sweepSamples), 1, maxWS)
	for _, ar := range ars {
		rate := Curve{Kind: "climb_rate", AspectRatio: ar, PowerLoading: make([]float64, sweepSamples)}
		for i, ws := range d.WingLoading {
			rate.PowerLoading[i] = ClimbRatePowerLoading(ws, ar)
		}
		d.ClimbRate = append(d.ClimbRate, rate)

		for _, cl := range MaxLiftCoefs {
			grad := Curve{Kind: "climb_gradient", AspectRatio: ar, MaxLiftCoef: cl, PowerLoading: make([]float64, sweepSamples)}
			for i, ws := range d.WingLoading {
				grad.PowerLoading[i] = ClimbGradientPowerLoading(ws, ar, cl)
			}
			d.ClimbGradient = append(d.ClimbGradient, grad)
		}
	}

	d.Design = designPoint(d, handlaunch)
	return d
}

func designPoint(d Diagram, handlaunch bool) DesignPoint {
	best := d.Stall[0]
	for _, s := range d.Stall[1:] {
		if math.Abs(s.MaxLiftCoef-targetLiftCoef) < math.Abs(best.MaxLiftCoef-targetLiftCoef) {
			best = s
		}
	}

	optimal := optimalARRun
	if handlaunch {
		optimal = optimalARHand
	}
	ar := nearest(AspectRatios(handlaunch), optimal)

	wp := ClimbRatePowerLoading(best.WingLoading, ar)
	if handlaunch {
		wp = ClimbGradientPowerLoading(best.WingLoading, ar, best.MaxLiftCoef)
	}

	return DesignPoint{
		WingLoading:  best.WingLoading,
		PowerLoading: wp,
		MaxLiftCoef:  best.MaxLiftCoef,
		AspectRatio:  ar,
	}
}

// nearest returns the element of set closest to v; ties go to the first.
func nearest(set []float64, v float64) float64 {
	best := set[0]
	for _, s := range set[1:] {
		if math.Abs(s-v) < math.Abs(best-v) {
			best = s
		}
	}
	return best
}

// ActiveCurves returns the power-loading curves that bound the design
// point: the climb-gradient curve of the design C_Lmax for hand-launched
// aircraft and the climb-rate curve otherwise, both at the design AR.
func (d Diagram) ActiveCurves() []Curve {
	var out []Curve
	for _, c := range d.ClimbRate {
		if c.AspectRatio == d.Design.AspectRatio {
			out = append(out, c)
		}
	}
	if !d.Handlaunch {
		return out
	}
	for _, c := range d.ClimbGradient {
		if c.AspectRatio == d.Design.AspectRatio && c.MaxLiftCoef == d.Design.MaxLiftCoef {
			out = append(out, c)
		}
	}
	return out
}

// WingArea returns the reference area (m^2) for a take-off mass (kg).
func (p DesignPoint) WingArea(mtow float64) float64 {
	return mtow * core.Gravity / p.WingLoading
}

// Power returns the shaft power (W) implied by the power loading.
func (p DesignPoint) Power(mtow float64) float64 {
	return mtow * core.Gravity / p.PowerLoading
}
