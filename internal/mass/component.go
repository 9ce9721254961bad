// Package mass models the assembled aircraft as a tree of components and
// aggregates their masses and centre of gravity.
package mass

import (
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/selection"
)

type Kind string

const (
	KindBattery   Kind = "battery"
	KindMotor     Kind = "motor"
	KindESC       Kind = "esc"
	KindCamera    Kind = "camera"
	KindAvionics  Kind = "avionics"
	KindPropeller Kind = "propeller"
	KindWing      Kind = "wing"
	KindTail      Kind = "tail"
	KindBoom      Kind = "boom"
	KindFuselage  Kind = "fuselage"
	KindConnector Kind = "connector"
)

// Component is anything that carries mass.
type Component interface {
	Kind() Kind
	Weight() float64
	CentreOfGravity() geometry.Vec3
}

// Shaped components occupy a box inside the fuselage.
type Shaped interface {
	Component
	InternalShape() geometry.BBox
}

// Part is a solid item of equipment whose mass sits at its box centre.
type Part struct {
	Label string        `json:"label" msgpack:"label"`
	Mass  float64       `json:"mass" msgpack:"mass"`
	Box   geometry.BBox `json:"box" msgpack:"box"`
}

func (p Part) Weight() float64                { return p.Mass }
func (p Part) CentreOfGravity() geometry.Vec3 { return p.Box.Centre() }
func (p Part) InternalShape() geometry.BBox   { return p.Box }

type Battery struct {
	Part
	Spec selection.Battery
}

func (Battery) Kind() Kind { return KindBattery }

func NewBattery(b selection.Battery, x0 float64) *Battery {
	return &Battery{Part: Part{Label: "battery", Mass: b.Mass, Box: b.Box(x0)}, Spec: b}
}

type Motor struct {
	Part
	Spec selection.Motor
}

func (Motor) Kind() Kind { return KindMotor }

// NewMotor places a motor can of the catalogue diameter and length at x0.
func NewMotor(m selection.Motor, x0 float64) *Motor {
	return &Motor{
		Part: Part{Label: m.Name, Mass: m.Weight, Box: geometry.BoxAt(x0, m.Length, m.Diameter, m.Diameter)},
		Spec: m,
	}
}

type ESC struct {
	Part
	Spec selection.ESC
}

func (ESC) Kind() Kind { return KindESC }

func NewESC(e selection.ESC, x0 float64) *ESC {
	return &ESC{Part: Part{Label: "esc", Mass: e.Weight, Box: e.Box(x0)}, Spec: e}
}

type Camera struct {
	Part
	Spec selection.Camera
}

func (Camera) Kind() Kind { return KindCamera }

func NewCamera(c selection.Camera, x0 float64) *Camera {
	return &Camera{Part: Part{Label: c.Name, Mass: c.Weight, Box: c.Box(x0)}, Spec: c}
}

// Flight controller, receiver and telemetry as one block.
const (
	AvionicsMass   = 0.05 // kg
	AvionicsLength = 0.06
	AvionicsWidth  = 0.04
	AvionicsHeight = 0.025
)

type Avionics struct {
	Part
}

func (Avionics) Kind() Kind { return KindAvionics }

func NewAvionics(x0 float64) *Avionics {
	return &Avionics{Part{Label: "avionics", Mass: AvionicsMass,
		Box: geometry.BoxAt(x0, AvionicsLength, AvionicsWidth, AvionicsHeight)}}
}

type Propeller struct {
	Part
	Spec selection.Propeller
}

func (Propeller) Kind() Kind { return KindPropeller }

// NewPropeller places a propeller disc of the given diameter (m) at x0.
func NewPropeller(p selection.Propeller, x0, diameter float64) *Propeller {
	return &Propeller{
		Part: Part{Label: p.Name, Mass: p.Weight, Box: geometry.BoxAt(x0, 0.01, diameter, diameter)},
		Spec: p,
	}
}

