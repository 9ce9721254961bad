package loading

import (
	"math"

	"github.com/san-kum/uavsizer/internal/core"
)

type Goal string

const (
	GoalEndurance Goal = "endurance"
	GoalRange     Goal = "range"
)

// speedMargin is added to the stall speed to get the lowest cruise speed.
const speedMargin = 5.0

type CruiseInput struct {
	Goal            Goal
	GoalValue       float64 // s for endurance, m for range
	MTOW            float64
	Design          DesignPoint
	StallSpeed      float64
	PayloadPower    float64 // W
	ControllerPower float64 // W
}

type Cruise struct {
	LiftCoef      float64 `json:"lift_coef" msgpack:"lift_coef"`
	DragCoef      float64 `json:"drag_coef" msgpack:"drag_coef"`
	Speed         float64 `json:"speed" msgpack:"speed"`
	Drag          float64 `json:"drag" msgpack:"drag"`
	Time          float64 `json:"time" msgpack:"time"`
	DragPower     float64 `json:"drag_power" msgpack:"drag_power"`
	BatteryEnergy float64 `json:"battery_energy" msgpack:"battery_energy"` // J
}

// SizeCruise finds the mission cruise condition and the battery energy
// needed to fly it.
func SizeCruise(in CruiseInput) (Cruise, error) {
	if in.GoalValue <= 0 {
		return Cruise{}, core.DomainError(stage, "goal_value", in.GoalValue, "> 0")
	}
	if in.MTOW <= 0 {
		return Cruise{}, core.DomainError(stage, "mtow", in.MTOW, "> 0 kg")
	}

	piAe := math.Pi * in.Design.AspectRatio * core.Oswald

	var cl float64
	switch in.Goal {
	case GoalRange:
		cl = math.Sqrt(core.ParasiticDrag * piAe)
	case GoalEndurance:
		cl = math.Sqrt(3 * core.ParasiticDrag * piAe)
	default:
		return Cruise{}, core.OptionError(stage, "performance_goal", in.Goal, "endurance|range")
	}

	cd := core.ParasiticDrag + cl*cl/piAe
	v := math.Sqrt(in.Design.WingLoading * (2 / core.RhoSeaLevel) / cl)
	v = math.Max(v, in.StallSpeed+speedMargin)

	area := in.Design.WingArea(in.MTOW)
	drag := cd * 0.5 * core.RhoSeaLevel * v * v * area

	t := in.GoalValue
	if in.Goal == GoalRange {
		t = in.GoalValue / v
	}

	dragPower := drag * v / (core.EtaProp * core.EtaMotor)
	energy := (in.PayloadPower + dragPower/core.EtaProp + in.ControllerPower) * t

	return Cruise{
		LiftCoef:      cl,
		DragCoef:      cd,
		Speed:         v,
		Drag:          drag,
		Time:          t,
		DragPower:     dragPower,
		BatteryEnergy: energy,
	}, nil
}
