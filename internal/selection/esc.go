package selection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/geometry"
)

// ESC box proportions length:width:height, from the tabulated units.
var escProportions = [3]float64{2.2, 1.1, 0.4}

type ESC struct {
	Count           int     `json:"count" msgpack:"count"`
	Amperage        float64 `json:"amperage" msgpack:"amperage"` // per engine
	Weight          float64 `json:"weight" msgpack:"weight"`     // all engines
	PerEngineWeight float64 `json:"per_engine_weight" msgpack:"per_engine_weight"`
	Volume          float64 `json:"volume" msgpack:"volume"` // per engine, m^3
	Reason          string  `json:"reason" msgpack:"reason"`
}

// Linear fit y = Slope*x + Intercept with the ESC amperage as x.
type Fit struct {
	Slope     float64
	Intercept float64
	Floor     float64
}

func (f Fit) At(x float64) float64 {
	return math.Max(f.Floor, f.Slope*x+f.Intercept)
}

func fitColumn(specs []db.Spec, field string) (Fit, error) {
	amps := make([]float64, 0, len(specs))
	ys := make([]float64, 0, len(specs))
	for _, s := range specs {
		a, err := s.Number("amp")
		if err != nil {
			return Fit{}, err
		}
		y, err := s.Number(field)
		if err != nil {
			return Fit{}, err
		}
		amps = append(amps, a)
		ys = append(ys, y)
	}
	if len(amps) < 2 {
		return Fit{}, &core.StageError{Stage: stage, Parameter: "escs", Value: len(amps),
			AllowedRange: ">= 2", Message: "too few ESC records to regress", Err: core.ErrNoFeasibleSelection}
	}
	alpha, beta := stat.LinearRegression(amps, ys, nil, false)
	return Fit{Slope: beta, Intercept: alpha, Floor: floats.Min(ys)}, nil
}

// SizeESC regresses ESC weight and volume against amperage and sizes one
// controller per engine for amp/n each.
func SizeESC(specs []db.Spec, amp float64, engines int) (ESC, error) {
	if amp <= 0 {
		return ESC{}, core.DomainError(stage, "amp_draw", amp, "> 0 A")
	}
	if engines < 1 {
		return ESC{}, core.DomainError(stage, "n_engines", engines, ">= 1")
	}
	wFit, err := fitColumn(specs, "weight")
	if err != nil {
		return ESC{}, err
	}
	vFit, err := fitColumn(specs, "volume")
	if err != nil {
		return ESC{}, err
	}

	per := amp / float64(engines)
	e := ESC{
		Count:           engines,
		Amperage:        per,
		PerEngineWeight: wFit.At(per),
		Volume:          vFit.At(per),
	}
	e.Weight = float64(engines) * e.PerEngineWeight
	e.Reason = fmt.Sprintf("%d x %.1f A from fit w=%.4f*A%+.4f", engines, per, wFit.Slope, wFit.Intercept)
	return e, nil
}

// Box is the ESC envelope with the tabulated proportions and its volume,
// starting at x0 and centred on the axis.
func (e ESC) Box(x0 float64) geometry.BBox {
	p := escProportions
	k := math.Cbrt(e.Volume / (p[0] * p[1] * p[2]))
	return geometry.BoxAt(x0, k*p[0], k*p[1], k*p[2])
}
