package selection

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
)

// PropSource lists propeller designations and serves their tables.
type PropSource interface {
	Propellers() []string
	PropTable(name string) (*db.PropTable, error)
}

// EfficiencyCurve is η(V) through the per-RPM efficiency optima of a
// propeller. Speeds outside [Min, Max] are clamped. A decoded curve fits
// its interpolant on first use; At is safe for concurrent use.
type EfficiencyCurve struct {
	Min    float64   `json:"min" msgpack:"min"`
	Max    float64   `json:"max" msgpack:"max"`
	Speeds []float64 `json:"speeds" msgpack:"speeds"`
	Etas   []float64 `json:"etas" msgpack:"etas"`

	once   sync.Once
	fit    interp.Predictor
	fitErr error
}

// NewEfficiencyCurve fits an Akima spline through (speed, η) pairs,
// falling back to linear interpolation for fewer than five points.
func NewEfficiencyCurve(speeds, etas []float64) (*EfficiencyCurve, error) {
	if len(speeds) != len(etas) {
		return nil, fmt.Errorf("efficiency curve: %d speeds, %d etas", len(speeds), len(etas))
	}

	type point struct{ v, eta float64 }
	pts := make([]point, len(speeds))
	for i := range speeds {
		pts[i] = point{speeds[i], etas[i]}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].v < pts[j].v })

	c := &EfficiencyCurve{}
	for _, p := range pts {
		n := len(c.Speeds)
		if n > 0 && p.v == c.Speeds[n-1] {
			c.Etas[n-1] = math.Max(c.Etas[n-1], p.eta)
			continue
		}
		c.Speeds = append(c.Speeds, p.v)
		c.Etas = append(c.Etas, p.eta)
	}
	if len(c.Speeds) < 2 {
		return nil, fmt.Errorf("efficiency curve: need two distinct speeds, got %d", len(c.Speeds))
	}
	c.Min, c.Max = c.Speeds[0], c.Speeds[len(c.Speeds)-1]

	if _, err := c.predictor(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *EfficiencyCurve) predictor() (interp.Predictor, error) {
	c.once.Do(func() { c.fit, c.fitErr = fitEfficiency(c.Speeds, c.Etas) })
	return c.fit, c.fitErr
}

func fitEfficiency(speeds, etas []float64) (interp.Predictor, error) {
	if len(speeds) < 5 {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(speeds, etas); err != nil {
			return nil, err
		}
		return &pl, nil
	}
	var ak interp.AkimaSpline
	if err := ak.Fit(speeds, etas); err != nil {
		return nil, err
	}
	return &ak, nil
}

// At returns η at airspeed v (m/s), limited to [0, 1].
func (c *EfficiencyCurve) At(v float64) float64 {
	fit, err := c.predictor()
	if err != nil {
		return 0
	}
	v = math.Max(c.Min, math.Min(c.Max, v))
	return math.Max(0, math.Min(1, fit.Predict(v)))
}

type Propeller struct {
	Name       string           `json:"name" msgpack:"name"`
	Token      db.PropToken     `json:"token" msgpack:"token"`
	Efficiency *EfficiencyCurve `json:"efficiency" msgpack:"efficiency"`
	DesignEta  float64          `json:"design_eta" msgpack:"design_eta"`
	Weight     float64          `json:"weight" msgpack:"weight"`
	Reason     string           `json:"reason" msgpack:"reason"`
}

// PropellerWeight is a statistical mass (kg) for a thin-electric
// propeller of the given diameter in inches.
func PropellerWeight(diameter float64) float64 {
	return 2e-4 * diameter * diameter
}

// EfficiencyFromTable pools the maximum-η point of every RPM block.
func EfficiencyFromTable(t *db.PropTable) (*EfficiencyCurve, error) {
	speeds := make([]float64, 0, len(t.Blocks))
	etas := make([]float64, 0, len(t.Blocks))
	for _, b := range t.Blocks {
		v, eta, err := b.Peak()
		if err != nil {
			return nil, fmt.Errorf("propeller %s: %w", t.Name, err)
		}
		speeds = append(speeds, v)
		etas = append(etas, eta)
	}
	c, err := NewEfficiencyCurve(speeds, etas)
	if err != nil {
		return nil, fmt.Errorf("propeller %s: %w", t.Name, err)
	}
	return c, nil
}

// SelectPropeller filters the propeller tables by the diameter range and
// suffixes the motor recommends and returns the one with the highest
// efficiency at the design speed.
func SelectPropeller(src PropSource, m Motor, designSpeed float64) (Propeller, error) {
	if len(m.Props) == 0 {
		return Propeller{}, core.ConfigError(stage, "motor "+m.Name+" has no prop_recommendation")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	var suffixes []string
	for _, t := range m.Props {
		lo, hi = math.Min(lo, t.Diameter), math.Max(hi, t.Diameter)
		if !slices.Contains(suffixes, t.Suffix) {
			suffixes = append(suffixes, t.Suffix)
		}
	}

	var best Propeller
	found := false
	for _, name := range src.Propellers() {
		tok, err := db.ParsePropToken(name)
		if err != nil {
			continue
		}
		if tok.Diameter < lo || tok.Diameter > hi || !slices.Contains(suffixes, tok.Suffix) {
			continue
		}
		tbl, err := src.PropTable(name)
		if err != nil {
			return Propeller{}, err
		}
		curve, err := EfficiencyFromTable(tbl)
		if err != nil {
			return Propeller{}, err
		}
		eta := curve.At(designSpeed)
		if !found || eta > best.DesignEta {
			best = Propeller{Name: name, Token: tok, Efficiency: curve, DesignEta: eta}
			found = true
		}
	}
	if !found {
		return Propeller{}, &core.StageError{
			Stage:        stage,
			Parameter:    "prop_recommendation",
			Value:        m.Name,
			AllowedRange: fmt.Sprintf("diameter %g-%g in, suffix %v", lo, hi, suffixes),
			Message:      "no propeller table matches",
			Err:          core.ErrNoFeasibleSelection,
		}
	}
	best.Weight = PropellerWeight(best.Token.Diameter)
	best.Reason = fmt.Sprintf("eta %.3f at %.1f m/s, best of %g-%g in", best.DesignEta, designSpeed, lo, hi)
	return best, nil
}
