// Package design wires the sizing stages into one demand-driven graph.
//
// Every stage output is an attribute of an [Aircraft]. Reading an
// attribute evaluates exactly the stages it depends on; changing the
// mission or airframe input invalidates every stage downstream of it.
// The flow is strictly forward:
//
//	mission -> weight -> loading -> {wing, selection} -> scissor -> tail
//	        -> fuselage -> placement and mass -> performance
package design

import (
	"math"

	"github.com/san-kum/uavsizer/internal/aero"
	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/eval"
	"github.com/san-kum/uavsizer/internal/fuselage"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/log"
	"github.com/san-kum/uavsizer/internal/mass"
	"github.com/san-kum/uavsizer/internal/performance"
	"github.com/san-kum/uavsizer/internal/scissor"
	"github.com/san-kum/uavsizer/internal/selection"
	"github.com/san-kum/uavsizer/internal/surface"
	"github.com/san-kum/uavsizer/internal/tail"
	"github.com/san-kum/uavsizer/internal/weight"
)

// ControllerPower is the continuous draw of the flight controller and radios.
const ControllerPower = 3.0 // W

// OperatingPosition is the design (x_cg - x_ac)/mac of tailed
// configurations; a flying wing flies at minus its static margin.
const OperatingPosition = 0.2

// MassTolerance is the largest relative gap between the component mass
// total and the sizing MTOW accepted without a warning.
const MassTolerance = 0.1

// Sources are the read-only collaborators shared by every stage.
type Sources struct {
	DB       *db.Database
	Airfoils *airfoil.Library
	AVLDir   string
	Logger   *log.Logger
}

type Aircraft struct {
	Graph *eval.Graph
	src   Sources

	Mission  *eval.Input[config.Mission]
	Airframe *eval.Input[config.AirframeConfig]

	Weight    *eval.Attr[weight.Estimate]
	Loading   *eval.Attr[loading.Diagram]
	Camera    *eval.Attr[selection.Camera]
	Cruise    *eval.Attr[loading.Cruise]
	Motor     *eval.Attr[selection.Motor]
	Propeller *eval.Attr[selection.Propeller]
	ESC       *eval.Attr[selection.ESC]
	Battery   *eval.Attr[selection.Battery]

	WingAirfoil *eval.Attr[*airfoil.Airfoil]
	TailAirfoil *eval.Attr[*airfoil.Airfoil]

	// Wing and Tail are built with the wing root leading edge at the
	// origin; Placement holds the installed copies.
	Wing    *eval.Attr[*surface.Surface]
	Aero    *eval.Attr[*aero.Results]
	Scissor *eval.Attr[*scissor.Result] // nil for a flying wing
	Tail    *eval.Attr[*tail.Tail]      // nil for a flying wing

	Mount     *eval.Attr[float64]
	Equipment *eval.Attr[*Equipment]
	Frames    *eval.Attr[*fuselage.Result]
	Fuselage  *eval.Attr[*fuselage.Fuselage]
	Placement *eval.Attr[*Placement]
	Mass      *eval.Attr[mass.Summary]

	Performance *eval.Attr[*performance.Envelope]
	Warnings    *eval.Attr[core.Warnings]
}

// New builds the attribute graph for cfg. Nothing is evaluated until an
// attribute is read.
func New(cfg *config.Config, src Sources) *Aircraft {
	g := eval.NewGraph("aircraft")
	g.SetLogger(src.Logger)

	a := &Aircraft{Graph: g, src: src}
	a.Mission = eval.NewInput(g, "mission", cfg.Mission)
	a.Airframe = eval.NewInput(g, "airframe", cfg.Airframe)

	a.Weight = eval.NewAttr(g, "weight", a.weight)
	a.Loading = eval.NewAttr(g, "loading", a.loading)
	a.Camera = eval.NewAttr(g, "camera", a.camera)
	a.Cruise = eval.NewAttr(g, "cruise", a.cruise)
	a.Motor = eval.NewAttr(g, "motor", a.motor)
	a.Propeller = eval.NewAttr(g, "propeller", a.propeller)
	a.ESC = eval.NewAttr(g, "esc", a.esc)
	a.Battery = eval.NewAttr(g, "battery", a.battery)
	a.WingAirfoil = eval.NewAttr(g, "wing_airfoil", a.wingAirfoil)
	a.TailAirfoil = eval.NewAttr(g, "tail_airfoil", a.tailAirfoil)
	a.Wing = eval.NewAttr(g, "wing", a.wing)
	a.Aero = eval.NewAttr(g, "aero", a.aero)
	a.Scissor = eval.NewAttr(g, "scissor", a.scissor)
	a.Tail = eval.NewAttr(g, "tail", a.tail)
	a.Mount = eval.NewAttr(g, "mount", a.mount)
	a.Equipment = eval.NewAttr(g, "equipment", a.equipment)
	a.Frames = eval.NewAttr(g, "frames", a.frames)
	a.Fuselage = eval.NewAttr(g, "fuselage", a.fuselage)
	a.Placement = eval.NewAttr(g, "placement", a.placement)
	a.Mass = eval.NewAttr(g, "mass", a.mass)
	a.Performance = eval.NewAttr(g, "performance", a.performance)
	a.Warnings = eval.NewAttr(g, "warnings", a.warnings)
	return a
}

// Set replaces both inputs.
func (a *Aircraft) Set(cfg *config.Config) {
	a.Mission.Set(cfg.Mission)
	a.Airframe.Set(cfg.Airframe)
}

func (a *Aircraft) weight() (weight.Estimate, error) {
	m := a.Mission.Get()
	return weight.Resolve(m.WeightTarget, m.TargetValue)
}

func (a *Aircraft) loading() (loading.Diagram, error) {
	return loading.Solve(a.Mission.Get().Handlaunch), nil
}

func (a *Aircraft) camera() (selection.Camera, error) {
	w, err := a.Weight.Get()
	if err != nil {
		return selection.Camera{}, err
	}
	specs, err := a.src.DB.Specs(db.Cameras)
	if err != nil {
		return selection.Camera{}, err
	}
	return selection.SelectCamera(specs, a.Mission.Get().Payload, w.Payload)
}

func (a *Aircraft) cruise() (loading.Cruise, error) {
	w, err := a.Weight.Get()
	if err != nil {
		return loading.Cruise{}, err
	}
	d, err := a.Loading.Get()
	if err != nil {
		return loading.Cruise{}, err
	}
	cam, err := a.Camera.Get()
	if err != nil {
		return loading.Cruise{}, err
	}
	m := a.Mission.Get()
	goal, err := m.GoalSI()
	if err != nil {
		return loading.Cruise{}, err
	}
	return loading.SizeCruise(loading.CruiseInput{
		Goal:            m.Goal,
		GoalValue:       goal,
		MTOW:            w.MTOW,
		Design:          d.Design,
		StallSpeed:      d.StallSpeed,
		PayloadPower:    cam.Power,
		ControllerPower: ControllerPower,
	})
}

func (a *Aircraft) motor() (selection.Motor, error) {
	w, err := a.Weight.Get()
	if err != nil {
		return selection.Motor{}, err
	}
	d, err := a.Loading.Get()
	if err != nil {
		return selection.Motor{}, err
	}
	specs, err := a.src.DB.Specs(db.Motors)
	if err != nil {
		return selection.Motor{}, err
	}
	return selection.SelectMotor(specs, d.Design.Power(w.MTOW))
}

func (a *Aircraft) propeller() (selection.Propeller, error) {
	m, err := a.Motor.Get()
	if err != nil {
		return selection.Propeller{}, err
	}
	c, err := a.Cruise.Get()
	if err != nil {
		return selection.Propeller{}, err
	}
	return selection.SelectPropeller(a.src.DB, m, c.Speed)
}

func (a *Aircraft) esc() (selection.ESC, error) {
	m, err := a.Motor.Get()
	if err != nil {
		return selection.ESC{}, err
	}
	specs, err := a.src.DB.Specs(db.ESCs)
	if err != nil {
		return selection.ESC{}, err
	}
	return selection.SizeESC(specs, m.MaxCurrent, 1)
}

func (a *Aircraft) battery() (selection.Battery, error) {
	c, err := a.Cruise.Get()
	if err != nil {
		return selection.Battery{}, err
	}
	af := a.Airframe.Get()
	return selection.SizeBattery(selection.SizeByCapacity, c.BatteryEnergy, af.BatteryWidth, af.BatteryHeight)
}

func (a *Aircraft) wingAirfoil() (*airfoil.Airfoil, error) {
	kind, name := a.Airframe.Get().WingSection(a.Mission.Get().Configuration)
	return a.src.Airfoils.Load(kind, name)
}

func (a *Aircraft) tailAirfoil() (*airfoil.Airfoil, error) {
	return a.src.Airfoils.Load(airfoil.Symmetric, a.Airframe.Get().TailAirfoil)
}

func (a *Aircraft) wing() (*surface.Surface, error) {
	w, err := a.Weight.Get()
	if err != nil {
		return nil, err
	}
	d, err := a.Loading.Get()
	if err != nil {
		return nil, err
	}
	af, err := a.WingAirfoil.Get()
	if err != nil {
		return nil, err
	}
	frame := a.Airframe.Get()
	return surface.New(surface.Params{
		Label:       "wing",
		Area:        d.Design.WingArea(w.MTOW),
		AspectRatio: d.Design.AspectRatio,
		Taper:       frame.Taper,
		Dihedral:    frame.Dihedral,
		Twist:       frame.Twist,
		Offset:      frame.WingOffset,
		Airfoil:     af,
	})
}

func (a *Aircraft) aero() (*aero.Results, error) {
	d, err := a.Loading.Get()
	if err != nil {
		return nil, err
	}
	c, err := a.Cruise.Get()
	if err != nil {
		return nil, err
	}
	af, err := a.WingAirfoil.Get()
	if err != nil {
		return nil, err
	}
	est := aero.Estimate("wing", d.Design.AspectRatio, core.Oswald, aero.SectionMoment(af.Kind), c.LiftCoef)
	return aero.Resolve(a.src.AVLDir, "wing", est)
}

func (a *Aircraft) scissor() (*scissor.Result, error) {
	m := a.Mission.Get()
	if !m.Configuration.HasTail() {
		return nil, nil
	}
	w, err := a.Wing.Get()
	if err != nil {
		return nil, err
	}
	d, err := a.Loading.Get()
	if err != nil {
		return nil, err
	}
	res, err := a.Aero.Get()
	if err != nil {
		return nil, err
	}
	ac := w.AerodynamicCentre.X
	return scissor.Analyse(scissor.Input{
		CG:            ac + OperatingPosition*w.MACLength,
		AC:            ac,
		MAC:           w.MACLength,
		AspectRatio:   w.AspectRatio,
		MaxLiftCoef:   d.Design.MaxLiftCoef,
		MomentCoef:    res.Cmac,
		LiftSlope:     res.CLalpha,
		TrimLiftCoef:  res.CLtrim,
		StaticMargin:  a.Airframe.Get().StaticMargin,
		Configuration: m.Configuration,
	})
}

func (a *Aircraft) tail() (*tail.Tail, error) {
	sc, err := a.Scissor.Get()
	if err != nil || sc == nil {
		return nil, err
	}
	w, err := a.Wing.Get()
	if err != nil {
		return nil, err
	}
	af, err := a.TailAirfoil.Get()
	if err != nil {
		return nil, err
	}
	return tail.Size(tail.Params{
		Configuration: a.Mission.Get().Configuration,
		Wing:          w,
		Ratio:         sc.Required,
		Airfoil:       af,
		TwinBoom:      a.Airframe.Get().TwinBoom,
	})
}

func (a *Aircraft) frames() (*fuselage.Result, error) {
	eq, err := a.Equipment.Get()
	if err != nil {
		return nil, err
	}
	return fuselage.Build(eq.Layout)
}

func (a *Aircraft) fuselage() (*fuselage.Fuselage, error) {
	res, err := a.Frames.Get()
	if err != nil {
		return nil, err
	}
	return shape(res, a.Airframe.Get())
}

// shape realises the pending cones on res and assembles the fuselage.
func shape(res *fuselage.Result, frame config.AirframeConfig) (*fuselage.Fuselage, error) {
	bc, err := res.BoundaryConditions()
	if err != nil {
		return nil, err
	}

	var cones []*fuselage.Cone
	if len(res.Pending(fuselage.Nose)) > 0 {
		c, err := fuselage.NewCone(fuselage.Nose, res.Frames[0], frame.NoseSlenderness, bc.Nose.Side, bc.Nose)
		if err != nil {
			return nil, err
		}
		cones = append(cones, c)
	}
	if len(res.Pending(fuselage.Tail)) > 0 {
		c, err := fuselage.NewCone(fuselage.Tail, res.Frames[len(res.Frames)-1], frame.TailSlenderness, bc.Tail.Side, bc.Tail)
		if err != nil {
			return nil, err
		}
		cones = append(cones, c)
	}

	if frame.MinimiseFrames {
		trimmed := *res
		trimmed.Frames = res.Minimise()
		res = &trimmed
	}
	return fuselage.Assemble(res, cones...)
}

func (a *Aircraft) mass() (mass.Summary, error) {
	p, err := a.Placement.Get()
	if err != nil {
		return mass.Summary{}, err
	}
	return mass.Aggregate(p.Tree), nil
}

func (a *Aircraft) performance() (*performance.Envelope, error) {
	w, err := a.Weight.Get()
	if err != nil {
		return nil, err
	}
	d, err := a.Loading.Get()
	if err != nil {
		return nil, err
	}
	m, err := a.Motor.Get()
	if err != nil {
		return nil, err
	}
	p, err := a.Propeller.Get()
	if err != nil {
		return nil, err
	}
	b, err := a.Battery.Get()
	if err != nil {
		return nil, err
	}
	return performance.Analyse(performance.Input{
		MTOW:            w.MTOW,
		WingArea:        d.Design.WingArea(w.MTOW),
		AspectRatio:     d.Design.AspectRatio,
		MaxLiftCoef:     d.Design.MaxLiftCoef,
		ContinuousPower: m.ConstantPower,
		BurstPower:      m.BurstPower,
		Propeller:       p.Efficiency,
		MaxPropSpeed:    p.Efficiency.Max,
		BatteryEnergy:   b.Energy,
	})
}

// warnings collects the non-fatal findings of every stage, in stage order.
func (a *Aircraft) warnings() (core.Warnings, error) {
	var ws core.Warnings
	w, err := a.Wing.Get()
	if err != nil {
		return nil, err
	}
	ws = append(ws, w.Warnings...)

	sc, err := a.Scissor.Get()
	if err != nil {
		return nil, err
	}
	if sc != nil {
		ws = append(ws, sc.Warnings...)
	}
	t, err := a.Tail.Get()
	if err != nil {
		return nil, err
	}
	if t != nil {
		ws = append(ws, t.Warnings()...)
	}
	p, err := a.Placement.Get()
	if err != nil {
		return nil, err
	}
	ws = append(ws, p.Warnings...)

	s, err := a.Mass.Get()
	if err != nil {
		return nil, err
	}
	est, err := a.Weight.Get()
	if err != nil {
		return nil, err
	}
	ws = append(ws, checkMass(s.Total, est.MTOW)...)

	for _, wn := range ws {
		a.src.Logger.Warn("design warning", "kind", wn.Kind, "stage", wn.Stage, "message", wn.Message)
	}
	return ws, nil
}

// checkMass compares the components actually installed with the
// take-off mass every sizing stage assumed.
func checkMass(total, mtow float64) core.Warnings {
	var ws core.Warnings
	if d := (total - mtow) / mtow; math.Abs(d) > MassTolerance {
		ws.Add(core.MassMismatch, "mass",
			"components total %.3f kg, %+.0f%% off the %.3f kg sizing mtow", total, d*100, mtow)
	}
	return ws
}
