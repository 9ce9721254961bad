package design

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/fuselage"
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/mass"
	"github.com/san-kum/uavsizer/internal/scissor"
	"github.com/san-kum/uavsizer/internal/surface"
	"github.com/san-kum/uavsizer/internal/tail"
)

const (
	BoomRadius = 0.008 // m

	propellerThickness = 0.01 // m
	inch               = 0.0254

	balanceIterations = 20
	balanceTolerance  = 1e-9 // m
	positionTolerance = 1e-6

	// MinMount is the shortest motor mount between the motor frame and
	// the nearest equipment bay.
	MinMount = 0.02 // m
	// WingClearance is the distance aimed for between the body front and
	// the wing root when the mount has to be lengthened.
	WingClearance   = 0.005 // m
	mountIterations = 20
)

// Equipment is the internal equipment placed along the fuselage axis.
type Equipment struct {
	Layout    fuselage.Layout
	Mount     float64 // m, motor frame to nearest bay
	Motor     *mass.Motor
	Propeller *mass.Propeller
	Battery   *mass.Battery
	ESC       *mass.ESC
	Avionics  *mass.Avionics
	Camera    *mass.Camera
}

// Nodes returns one tree node per item of equipment.
func (e *Equipment) Nodes() []*mass.Node {
	return []*mass.Node{
		mass.NewNode("motor", e.Motor),
		mass.NewNode("propeller", e.Propeller),
		mass.NewNode("battery", e.Battery),
		mass.NewNode("esc", e.ESC),
		mass.NewNode("avionics", e.Avionics),
		mass.NewNode("camera", e.Camera),
	}
}

// bay is a container compartment built at x = 0.
type bay struct {
	parts  []*mass.Part
	shaped []mass.Shaped
}

func (b bay) box() geometry.BBox {
	boxes := make([]geometry.BBox, len(b.parts))
	for i, p := range b.parts {
		boxes[i] = p.Box
	}
	return geometry.Fuse(boxes...)
}

func (b bay) section() float64 {
	box := b.box()
	return box.Width() * box.Height()
}

// place moves the bay to x0 and returns the x it ends at.
func (b bay) place(x0 float64) float64 {
	d := geometry.Vec3{X: x0 - b.box().Min.X}
	for _, p := range b.parts {
		p.Box = p.Box.Translate(d)
	}
	return b.box().Max.X
}

func shift(p *mass.Part, x0 float64) {
	p.Box = p.Box.Translate(geometry.Vec3{X: x0 - p.Box.Min.X})
}

func (a *Aircraft) equipment() (*Equipment, error) {
	mount, err := a.Mount.Get()
	if err != nil {
		return nil, err
	}
	return a.layout(mount)
}

// layout lays out the fuselage. Bays are ordered by decreasing section
// so the body narrows behind its first container. Tailed aircraft fly a
// nose-mounted puller and close with a tail cone; a flying wing has a
// nose cone and a pusher. mount separates the motor from the bays.
func (a *Aircraft) layout(mount float64) (*Equipment, error) {
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
	e, err := a.ESC.Get()
	if err != nil {
		return nil, err
	}
	c, err := a.Camera.Get()
	if err != nil {
		return nil, err
	}

	eq := &Equipment{
		Mount:     mount,
		Motor:     mass.NewMotor(m, 0),
		Propeller: mass.NewPropeller(p, 0, p.Token.Diameter*inch),
		Battery:   mass.NewBattery(b, 0),
		ESC:       mass.NewESC(e, 0),
		Avionics:  mass.NewAvionics(0),
		Camera:    mass.NewCamera(c, 0),
	}
	shift(&eq.ESC.Part, eq.Avionics.Box.Max.X)

	bays := []bay{
		{parts: []*mass.Part{&eq.Battery.Part}, shaped: []mass.Shaped{eq.Battery}},
		{parts: []*mass.Part{&eq.Avionics.Part, &eq.ESC.Part}, shaped: []mass.Shaped{eq.Avionics, eq.ESC}},
		{parts: []*mass.Part{&eq.Camera.Part}, shaped: []mass.Shaped{eq.Camera}},
	}
	sort.SliceStable(bays, func(i, j int) bool { return bays[i].section() > bays[j].section() })

	var kinds []fuselage.Kind
	var parts [][]mass.Shaped
	add := func(k fuselage.Kind, s ...mass.Shaped) {
		kinds = append(kinds, k)
		parts = append(parts, s)
	}

	if a.Mission.Get().Configuration.HasTail() {
		shift(&eq.Propeller.Part, -propellerThickness)
		add(fuselage.MotorBay, eq.Motor)
		x := eq.Motor.Box.Max.X + mount
		for _, b := range bays {
			x = b.place(x)
			add(fuselage.Container, b.shaped...)
		}
		add(fuselage.Tail)
	} else {
		add(fuselage.Nose)
		x := 0.0
		for _, b := range bays {
			x = b.place(x)
			add(fuselage.Container, b.shaped...)
		}
		shift(&eq.Motor.Part, x+mount)
		shift(&eq.Propeller.Part, eq.Motor.Box.Max.X)
		add(fuselage.MotorBay, eq.Motor)
	}

	eq.Layout, err = fuselage.NewLayout(kinds, parts)
	if err != nil {
		return nil, err
	}
	return eq, nil
}

// Placement is the installed aircraft: the wing group slid along the
// fuselage until the CG sits at the operating position.
type Placement struct {
	Offset   geometry.Vec3    `json:"offset" msgpack:"offset"`
	Wing     *surface.Surface `json:"wing" msgpack:"wing"`
	Tail     *tail.Tail       `json:"tail,omitempty" msgpack:"tail,omitempty"`
	Skins    []*mass.Skin     `json:"skins" msgpack:"skins"`
	Target   float64          `json:"target" msgpack:"target"`
	Position float64          `json:"position" msgpack:"position"` // (x_cg - x_ac)/mac

	Tree     *mass.Node    `json:"-" msgpack:"-"`
	Warnings core.Warnings `json:"warnings,omitempty" msgpack:"warnings"`
}

type wingGroup struct {
	wing  *surface.Surface
	tail  *tail.Tail
	skins []*mass.Skin
}

func install(w *surface.Surface, t *tail.Tail, offset geometry.Vec3, frame config.AirframeConfig) (*wingGroup, error) {
	g := &wingGroup{wing: w.Moved(w.Position.Add(offset))}
	sk, err := mass.SurfaceSkin(mass.KindWing, g.wing, frame.Plies, frame.Material)
	if err != nil {
		return nil, err
	}
	g.skins = append(g.skins, sk)
	if t == nil {
		return g, nil
	}

	g.tail = t.Moved(offset)
	for _, s := range g.tail.Surfaces() {
		sk, err := mass.SurfaceSkin(mass.KindTail, s, frame.Plies, frame.Material)
		if err != nil {
			return nil, err
		}
		g.skins = append(g.skins, sk)
	}
	for i, c := range g.tail.Connectors {
		sk, err := mass.ConnectorSkin(fmt.Sprintf("connector_%d", i), c, frame.Plies, frame.Material)
		if err != nil {
			return nil, err
		}
		g.skins = append(g.skins, sk)
	}
	booms, err := g.booms(frame)
	if err != nil {
		return nil, err
	}
	g.skins = append(g.skins, booms...)
	return g, nil
}

// booms joins the wing trailing edge to each fin root, or the canard
// trailing edge to the wing leading edge.
func (g *wingGroup) booms(frame config.AirframeConfig) ([]*mass.Skin, error) {
	w, h := g.wing, g.tail.Horizontal
	z := w.Position.Z

	var ys, ends []float64
	if len(g.tail.Connectors) > 0 {
		for _, v := range g.tail.Vertical {
			ys = append(ys, v.Position.Y)
			ends = append(ends, v.Position.X)
		}
	} else {
		ys, ends = []float64{0}, []float64{h.Position.X}
	}

	var out []*mass.Skin
	for i, y := range ys {
		start := w.Position.X + math.Abs(y)/w.SemiSpan*w.TipOffset + w.ChordAt(math.Abs(y))
		end := ends[i]
		if g.tail.Arm < 0 {
			start, end = h.Position.X+h.RootChord, w.Position.X
		}
		if end <= start {
			continue
		}
		sk, err := mass.BoomSkin(fmt.Sprintf("boom_%d", i), geometry.Vec3{X: start, Y: y, Z: z},
			end-start, BoomRadius, frame.Plies, frame.Material)
		if err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, nil
}

func moment(cs ...mass.Component) (m, mx float64) {
	for _, c := range cs {
		w := c.Weight()
		m += w
		mx += w * c.CentreOfGravity().X
	}
	return m, mx
}

func staticMargin(frame config.AirframeConfig) float64 {
	if frame.StaticMargin == 0 {
		return scissor.DefaultStaticMargin
	}
	return frame.StaticMargin
}

func (a *Aircraft) placement() (*Placement, error) {
	eq, err := a.Equipment.Get()
	if err != nil {
		return nil, err
	}
	fus, err := a.Fuselage.Get()
	if err != nil {
		return nil, err
	}
	wing, err := a.Wing.Get()
	if err != nil {
		return nil, err
	}
	tl, err := a.Tail.Get()
	if err != nil {
		return nil, err
	}
	sc, err := a.Scissor.Get()
	if err != nil {
		return nil, err
	}
	frame := a.Airframe.Get()

	p, err := balance(eq, fus, wing, tl, sc, frame)
	if err != nil {
		return nil, err
	}
	p.check(sc, staticMargin(frame), fus)
	return p, nil
}

// mount finds the motor mount length that keeps the balanced wing root
// on the fuselage body. The wing is balanced against the equipment, so a
// short, nose-heavy body can pull the root ahead of the motor frame.
// Lengthening the mount moves the bays away from the motor and the root
// with them; the length is found by secant steps from MinMount.
func (a *Aircraft) mount() (float64, error) {
	wing, err := a.Wing.Get()
	if err != nil {
		return 0, err
	}
	tl, err := a.Tail.Get()
	if err != nil {
		return 0, err
	}
	sc, err := a.Scissor.Get()
	if err != nil {
		return 0, err
	}
	frame := a.Airframe.Get()

	// gap is the distance from the body front to the balanced wing root.
	gap := func(l float64) (float64, error) {
		eq, err := a.layout(l)
		if err != nil {
			return 0, err
		}
		res, err := fuselage.Build(eq.Layout)
		if err != nil {
			return 0, err
		}
		fus, err := shape(res, frame)
		if err != nil {
			return 0, err
		}
		p, err := balance(eq, fus, wing, tl, sc, frame)
		if err != nil {
			return 0, err
		}
		g := p.Wing.Position.X - fus.BBox().Min.X
		a.src.Logger.Debug("mount", "length", l, "gap", g)
		return g, nil
	}

	l0 := MinMount
	g0, err := gap(l0)
	if err != nil {
		return 0, err
	}
	if g0 >= 0 {
		return l0, nil
	}
	l1 := l0 + WingClearance - g0
	for i := 0; i < mountIterations; i++ {
		g1, err := gap(l1)
		if err != nil {
			return 0, err
		}
		if g1 >= 0 {
			return l1, nil
		}
		slope := (g1 - g0) / (l1 - l0)
		if slope <= 0 {
			break
		}
		l0, g0 = l1, g1
		l1 += (WingClearance - g1) / slope
	}
	return l1, nil
}

// balance slides the wing group along the fuselage until the CG sits at
// the operating position.
func balance(eq *Equipment, fus *fuselage.Fuselage, wing *surface.Surface, tl *tail.Tail, sc *scissor.Result, frame config.AirframeConfig) (*Placement, error) {
	body, err := fus.Skin(frame.Plies, frame.Material)
	if err != nil {
		return nil, err
	}

	p := &Placement{Target: OperatingPosition}
	if sc == nil {
		p.Target = -staticMargin(frame)
	}

	fixed := []mass.Component{body, eq.Motor, eq.Propeller, eq.Battery, eq.ESC, eq.Avionics, eq.Camera}
	offset := geometry.Vec3{Z: fus.BBox().Max.Z}
	var (
		g      *wingGroup
		placed geometry.Vec3
	)
	for i := 0; i < balanceIterations; i++ {
		placed = offset
		g, err = install(wing, tl, placed, frame)
		if err != nil {
			return nil, err
		}
		mass.Trim(append([]*mass.Skin{body}, g.skins...)...)

		me, mex := moment(fixed...)
		moving := make([]mass.Component, len(g.skins))
		for j, s := range g.skins {
			moving[j] = s
		}
		mw, mwx := moment(moving...)
		target := g.wing.AerodynamicCentre.X + p.Target*g.wing.MACLength
		delta := (mex + mwx - (me+mw)*target) / me
		if math.Abs(delta) < balanceTolerance {
			break
		}
		offset.X += delta
	}

	p.Offset, p.Wing, p.Tail = placed, g.wing, g.tail
	p.Skins = append([]*mass.Skin{body}, g.skins...)
	p.Tree = tree(eq, body, g)

	s := mass.Aggregate(p.Tree)
	p.Position = (s.CG.X - p.Wing.AerodynamicCentre.X) / p.Wing.MACLength
	return p, nil
}

func tree(eq *Equipment, body *mass.Skin, g *wingGroup) *mass.Node {
	fn := mass.NewNode("fuselage", nil, mass.NewNode("skin", body))
	fn.Add(eq.Nodes()...)

	root := mass.NewNode("aircraft", nil, fn, mass.NewNode("wing", g.skins[0]))
	if g.tail != nil {
		tn := mass.NewNode("tail", nil)
		for _, s := range g.skins[1:] {
			tn.Add(mass.NewNode(s.Label, s))
		}
		root.Add(tn)
	}
	return root
}

// check verifies the balanced CG against the stable interval of the
// selected tail ratio, or against the static margin of a flying wing.
func (p *Placement) check(sc *scissor.Result, sm float64, fus *fuselage.Fuselage) {
	if sc != nil {
		ctrl, stab := sc.Limits(sc.Required)
		lo, hi := math.Min(ctrl, stab), math.Max(ctrl, stab)
		if p.Position < lo-positionTolerance || p.Position > hi+positionTolerance {
			p.Warnings.Add(core.UnstableDesign, "balance",
				"cg at x=%.3f outside [%.3f, %.3f] for S_h/S=%.4f", p.Position, lo, hi, sc.Required)
		}
	} else if p.Position > -sm+positionTolerance {
		p.Warnings.Add(core.UnstableDesign, "balance", "cg at x=%.3f aft of the %.2f static margin", p.Position, sm)
	}

	body := fus.BBox()
	root := p.Wing.Position.X
	if root < body.Min.X || root > body.Max.X {
		p.Warnings.Add(core.UnstableDesign, "balance",
			"wing root at x=%.3f m outside the fuselage [%.3f, %.3f]", root, body.Min.X, body.Max.X)
	}
}
