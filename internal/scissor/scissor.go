// Package scissor sizes the horizontal tail area ratio S_h/S from the
// longitudinal stability and controllability lines of a scissor plot.
package scissor

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/uavsizer/internal/core"
)

const stage = "scissor"

const (
	DefaultStaticMargin    = 0.05
	DefaultTailAspectRatio = 5.0
	DefaultTailOswald      = 0.8

	curveSamples     = 201
	candidateSamples = 2000
	xRange           = 5.0
)

type Input struct {
	CG  float64 // x_cg, m
	AC  float64 // x_ac, m
	MAC float64 // m

	AspectRatio   float64
	Oswald        float64
	ParasiticDrag float64
	MaxLiftCoef   float64

	MomentCoef   float64 // C_mac
	LiftSlope    float64 // wing C_Lalpha per rad; zero estimates it
	TrimLiftCoef float64 // wing C_L in the control condition; zero uses MaxLiftCoef

	StaticMargin    float64
	TailAspectRatio float64
	TailOswald      float64

	Configuration core.Configuration
}

// Lines holds the scissor line coefficients: the stability line is
// s = (x + SM)/StabilitySlope and the control line is
// s = (x + ControlIntercept)/ControlSlope, with x = (x_cg - x_ac)/mac.
type Lines struct {
	StabilitySlope   float64 `json:"stability_slope" msgpack:"stability_slope"`
	ControlSlope     float64 `json:"control_slope" msgpack:"control_slope"`
	ControlIntercept float64 `json:"control_intercept" msgpack:"control_intercept"`
	StaticMargin     float64 `json:"static_margin" msgpack:"static_margin"`
}

func (l Lines) Stability(x float64) float64 {
	return (x + l.StaticMargin) / l.StabilitySlope
}

func (l Lines) Control(x float64) float64 {
	return (x + l.ControlIntercept) / l.ControlSlope
}

// Limits inverts both lines at tail ratio s and returns the (forward,
// aft) CG positions they allow.
func (l Lines) Limits(s float64) (ctrl, stab float64) {
	return l.ControlSlope*s - l.ControlIntercept, l.StabilitySlope*s - l.StaticMargin
}

// Contains reports whether x lies between the CG limits at s.
func (l Lines) Contains(x, s float64) bool {
	ctrl, stab := l.Limits(s)
	lo, hi := math.Min(ctrl, stab), math.Max(ctrl, stab)
	return x >= lo && x <= hi
}

// Curves samples both lines over the plotted CG range.
type Curves struct {
	X         []float64 `json:"x" msgpack:"x"`
	Stability []float64 `json:"stability" msgpack:"stability"`
	Control   []float64 `json:"control" msgpack:"control"`
}

type Result struct {
	Lines

	Required float64 `json:"required" msgpack:"required"`
	Analytic float64 `json:"analytic" msgpack:"analytic"`
	Position float64 `json:"position" msgpack:"position"` // (x_cg - x_ac)/mac

	Curves Curves `json:"curves" msgpack:"curves"`

	Warnings core.Warnings `json:"warnings,omitempty" msgpack:"warnings"`
}

// LiftSlope is the lifting-line estimate of C_Lalpha (per rad) for a
// finite surface.
func LiftSlope(aspectRatio, oswald float64) float64 {
	return 2 * math.Pi / (1 + 2*math.Pi/(math.Pi*aspectRatio*oswald))
}

func (in *Input) defaults() {
	if in.StaticMargin == 0 {
		in.StaticMargin = DefaultStaticMargin
	}
	if in.TailAspectRatio == 0 {
		in.TailAspectRatio = DefaultTailAspectRatio
	}
	if in.TailOswald == 0 {
		in.TailOswald = DefaultTailOswald
	}
	if in.Oswald == 0 {
		in.Oswald = core.Oswald
	}
	if in.ParasiticDrag == 0 {
		in.ParasiticDrag = core.ParasiticDrag
	}
	if in.LiftSlope == 0 {
		in.LiftSlope = LiftSlope(in.AspectRatio, in.Oswald)
	}
	if in.TrimLiftCoef == 0 {
		in.TrimLiftCoef = in.MaxLiftCoef
	}
}

// BuildLines returns the scissor lines for in.
func BuildLines(in Input) (Lines, error) {
	in.defaults()
	if in.AspectRatio <= 0 {
		return Lines{}, core.DomainError(stage, "aspect_ratio", in.AspectRatio, "> 0")
	}
	if in.TrimLiftCoef <= 0 {
		return Lines{}, core.DomainError(stage, "trim_lift_coef", in.TrimLiftCoef, "> 0")
	}

	var arm, speed, tailLift, ratio float64
	tailSlope := LiftSlope(in.TailAspectRatio, in.TailOswald)
	switch in.Configuration {
	case core.Conventional:
		arm, speed = 3, 0.85
		tailLift = -0.35 * math.Cbrt(in.TailAspectRatio)
		downwash := 4 / (in.AspectRatio + 2)
		ratio = tailSlope / in.LiftSlope * (1 - downwash)
	case core.Canard:
		arm, speed = -3, 1.0
		tailLift = 1
		ratio = tailSlope / in.LiftSlope
	default:
		return Lines{}, core.OptionError(stage, "configuration", in.Configuration, "conventional|canard")
	}

	dyn := arm * speed * speed
	return Lines{
		StabilitySlope:   ratio * dyn,
		ControlSlope:     tailLift / in.TrimLiftCoef * dyn,
		ControlIntercept: in.MomentCoef / in.TrimLiftCoef,
		StaticMargin:     in.StaticMargin,
	}, nil
}

// Analyse computes both lines over x in [-5, 5] and the required S_h/S.
// The analytic CG-shift ratio is refined to the smallest sampled ratio
// above it whose CG interval contains the current position; when no
// sample qualifies the analytic value is kept and an UnstableDesign
// warning is attached.
func Analyse(in Input) (*Result, error) {
	if in.MAC <= 0 {
		return nil, core.DomainError(stage, "mac", in.MAC, "> 0")
	}
	lines, err := BuildLines(in)
	if err != nil {
		return nil, err
	}

	r := &Result{Lines: lines, Position: (in.CG - in.AC) / in.MAC}
	c := &r.Curves
	c.X = floats.Span(make([]float64, curveSamples), -xRange, xRange)
	c.Stability = make([]float64, curveSamples)
	c.Control = make([]float64, curveSamples)
	for i, x := range c.X {
		c.Stability[i] = lines.Stability(x)
		c.Control[i] = lines.Control(x)
	}

	shift := math.Abs(in.CG-in.AC) / in.MAC
	r.Analytic = (shift + lines.StaticMargin - lines.ControlIntercept) /
		(lines.StabilitySlope - lines.ControlSlope)

	upper := floats.Max(c.Control)
	r.Required = r.Analytic
	found := false
	if upper > 0 {
		candidates := floats.Span(make([]float64, candidateSamples), 0, upper)
		for _, s := range candidates {
			if s < r.Analytic || !lines.Contains(r.Position, s) {
				continue
			}
			r.Required = s
			found = true
			break
		}
	}
	if !found {
		r.Warnings.Add(core.UnstableDesign, stage,
			"no tail ratio in [0, %.3f] brackets x=%.3f, using analytic %.4f", upper, r.Position, r.Analytic)
	}
	return r, nil
}
