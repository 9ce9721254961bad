package design

import (
	"github.com/san-kum/uavsizer/internal/aero"
	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/fuselage"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/mass"
	"github.com/san-kum/uavsizer/internal/performance"
	"github.com/san-kum/uavsizer/internal/scissor"
	"github.com/san-kum/uavsizer/internal/selection"
	"github.com/san-kum/uavsizer/internal/weight"
)

// Design is a fully evaluated aircraft.
type Design struct {
	Mission  config.Mission        `json:"mission" msgpack:"mission"`
	Airframe config.AirframeConfig `json:"airframe" msgpack:"airframe"`

	Weight  weight.Estimate     `json:"weight" msgpack:"weight"`
	Loading loading.DesignPoint `json:"design_point" msgpack:"design_point"`
	Stall   float64             `json:"stall_speed" msgpack:"stall_speed"`
	Cruise  loading.Cruise      `json:"cruise" msgpack:"cruise"`

	Camera    selection.Camera    `json:"camera" msgpack:"camera"`
	Motor     selection.Motor     `json:"motor" msgpack:"motor"`
	Propeller selection.Propeller `json:"propeller" msgpack:"propeller"`
	ESC       selection.ESC       `json:"esc" msgpack:"esc"`
	Battery   selection.Battery   `json:"battery" msgpack:"battery"`

	Aero      *aero.Results      `json:"aero" msgpack:"aero"`
	Scissor   *scissor.Result    `json:"scissor,omitempty" msgpack:"scissor,omitempty"`
	Frames    *fuselage.Result   `json:"frames" msgpack:"frames"`
	Fuselage  *fuselage.Fuselage `json:"fuselage" msgpack:"fuselage"`
	Placement *Placement         `json:"placement" msgpack:"placement"`
	Mass      mass.Summary       `json:"mass" msgpack:"mass"`

	Performance *performance.Envelope `json:"performance" msgpack:"performance"`
	Warnings    core.Warnings         `json:"warnings" msgpack:"warnings"`
}

// Evaluate reads every attribute and returns the first stage error.
func (a *Aircraft) Evaluate() (*Design, error) {
	d := &Design{Mission: a.Mission.Get(), Airframe: a.Airframe.Get()}
	var err error
	if d.Weight, err = a.Weight.Get(); err != nil {
		return nil, err
	}
	diag, err := a.Loading.Get()
	if err != nil {
		return nil, err
	}
	d.Loading, d.Stall = diag.Design, diag.StallSpeed
	if d.Cruise, err = a.Cruise.Get(); err != nil {
		return nil, err
	}
	if d.Camera, err = a.Camera.Get(); err != nil {
		return nil, err
	}
	if d.Motor, err = a.Motor.Get(); err != nil {
		return nil, err
	}
	if d.Propeller, err = a.Propeller.Get(); err != nil {
		return nil, err
	}
	if d.ESC, err = a.ESC.Get(); err != nil {
		return nil, err
	}
	if d.Battery, err = a.Battery.Get(); err != nil {
		return nil, err
	}
	if d.Aero, err = a.Aero.Get(); err != nil {
		return nil, err
	}
	if d.Scissor, err = a.Scissor.Get(); err != nil {
		return nil, err
	}
	if d.Frames, err = a.Frames.Get(); err != nil {
		return nil, err
	}
	if d.Fuselage, err = a.Fuselage.Get(); err != nil {
		return nil, err
	}
	if d.Placement, err = a.Placement.Get(); err != nil {
		return nil, err
	}
	if d.Mass, err = a.Mass.Get(); err != nil {
		return nil, err
	}
	if d.Performance, err = a.Performance.Get(); err != nil {
		return nil, err
	}
	if d.Warnings, err = a.Warnings.Get(); err != nil {
		return nil, err
	}

	a.src.Logger.Info("design evaluated",
		"mtow", d.Weight.MTOW, "motor", d.Motor.Name, "endurance_h", d.Performance.Endurance,
		"range_km", d.Performance.Range, "warnings", len(d.Warnings), "evaluations", a.Graph.Evaluations())
	return d, nil
}

// Size evaluates cfg in a fresh graph.
func Size(cfg *config.Config, src Sources) (*Design, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return New(cfg, src).Evaluate()
}
