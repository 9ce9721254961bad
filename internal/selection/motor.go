package selection

import (
	"fmt"
	"math"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
)

const stage = "selection"

// PowerTolerance is the fraction below the target a motor may fall.
const PowerTolerance = 0.1

type Motor struct {
	Spec          db.Spec        `json:"-" msgpack:"-"`
	Name          string         `json:"name" msgpack:"name"`
	Weight        float64        `json:"weight" msgpack:"weight"`
	ConstantPower float64        `json:"constant_power" msgpack:"constant_power"`
	BurstPower    float64        `json:"burst_power" msgpack:"burst_power"`
	MaxCurrent    float64        `json:"max_current" msgpack:"max_current"`
	Diameter      float64        `json:"diameter" msgpack:"diameter"`
	Length        float64        `json:"length" msgpack:"length"`
	Props         []db.PropToken `json:"props" msgpack:"props"`
	Reason        string         `json:"reason" msgpack:"reason"`
}

func motorFromSpec(s db.Spec) (Motor, error) {
	m := Motor{Spec: s, Name: s.Label()}
	var err error
	num := func(field string, dst *float64) {
		if err == nil {
			*dst, err = s.Number(field)
		}
	}
	num("weight", &m.Weight)
	num("constant_power", &m.ConstantPower)
	num("burst_power", &m.BurstPower)
	num("max_current", &m.MaxCurrent)
	num("diameter", &m.Diameter)
	num("length", &m.Length)
	if err != nil {
		return Motor{}, err
	}

	tokens, err := s.Strings("prop_recommendation")
	if err != nil {
		return Motor{}, err
	}
	for _, tok := range tokens {
		pt, err := db.ParsePropToken(tok)
		if err != nil {
			return Motor{}, fmt.Errorf("motor %s: %w", m.Name, err)
		}
		m.Props = append(m.Props, pt)
	}
	return m, nil
}

// SelectMotor keeps motors whose constant power is at least 90% of
// target and returns the one closest to it, lightest on ties.
func SelectMotor(specs []db.Spec, target float64) (Motor, error) {
	if target <= 0 {
		return Motor{}, core.DomainError(stage, "target_power", target, "> 0 W")
	}

	var best Motor
	found := false
	floor := target * (1 - PowerTolerance)
	for _, s := range specs {
		m, err := motorFromSpec(s)
		if err != nil {
			return Motor{}, err
		}
		if m.ConstantPower < floor {
			continue
		}
		if !found {
			best, found = m, true
			continue
		}
		d, bd := math.Abs(m.ConstantPower-target), math.Abs(best.ConstantPower-target)
		if d < bd || (d == bd && m.Weight < best.Weight) {
			best = m
		}
	}
	if !found {
		return Motor{}, &core.StageError{
			Stage:        stage,
			Parameter:    "target_power",
			Value:        target,
			AllowedRange: fmt.Sprintf("constant_power >= %.1f W", floor),
			Message:      "no motor delivers the target power",
			Err:          core.ErrNoFeasibleSelection,
		}
	}
	best.Reason = fmt.Sprintf("constant power %.0f W closest to target %.1f W", best.ConstantPower, target)
	return best, nil
}

// PowerAvailable is the continuous and burst shaft power scaled by the
// motor efficiency.
func (m Motor) PowerAvailable() (continuous, burst float64) {
	return m.ConstantPower * core.EtaMotor, m.BurstPower * core.EtaMotor
}
