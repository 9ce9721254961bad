// Package fuselage synthesises fuselage cross-sections around the internal
// equipment by forward chaining over an ordered compartment layout.
//
// Frames grow while each container is larger than the one before it. The
// first container that is not followed by a larger one is the apex: it
// receives a frame at both faces and every later container is framed at
// its end face. A layout that widens again after the apex is rejected.
// Nose and tail cones and booms cannot be built until their supporting
// frames exist; they are returned in StillToBuild.
package fuselage

import (
	"fmt"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/mass"
)

const stage = "fuselage"

type Kind string

const (
	Nose      Kind = "nose"
	Container Kind = "container"
	Boom      Kind = "boom"
	MotorBay  Kind = "motor"
	Tail      Kind = "tail"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Nose, Container, Boom, MotorBay, Tail:
		return k, nil
	}
	return "", core.OptionError(stage, "compartment_kind", s, "nose|container|boom|motor|tail")
}

type Compartment struct {
	Kind  Kind
	Parts []mass.Shaped
}

// Box fuses the shapes of every part in the compartment.
func (c Compartment) Box() geometry.BBox {
	boxes := make([]geometry.BBox, len(c.Parts))
	for i, p := range c.Parts {
		boxes[i] = p.InternalShape()
	}
	return geometry.Fuse(boxes...)
}

type Layout []Compartment

// NewLayout pairs compartment kinds with their sizing parts.
func NewLayout(kinds []Kind, parts [][]mass.Shaped) (Layout, error) {
	if len(kinds) != len(parts) {
		return nil, core.ConfigError(stage,
			fmt.Sprintf("%d compartment kinds for %d sizing part lists", len(kinds), len(parts)))
	}
	l := make(Layout, len(kinds))
	for i := range kinds {
		l[i] = Compartment{Kind: kinds[i], Parts: parts[i]}
	}
	return l, nil
}

// Pending is an add-on that needs the main fuselage before it can be built.
type Pending struct {
	Kind  Kind `json:"kind" msgpack:"kind"`
	Index int  `json:"index" msgpack:"index"`
}

type Result struct {
	Frames []Frame `json:"frames" msgpack:"frames"`

	// ApexIndex is the compartment holding the largest section and
	// ApexFrame the first of its two frames.
	ApexIndex int `json:"apex_index" msgpack:"apex_index"`
	ApexFrame int `json:"apex_frame" msgpack:"apex_frame"`

	StillToBuild []Pending `json:"still_to_build" msgpack:"still_to_build"`
}

func (r *Result) Complete() bool { return len(r.StillToBuild) == 0 }

// Pending returns the add-ons of kind k still to build.
func (r *Result) Pending(k Kind) []Pending {
	var out []Pending
	for _, p := range r.StillToBuild {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

type builder struct {
	layout Layout
	res    *Result
	apex   bool
}

// Build runs the frame builder over the layout.
func Build(l Layout) (*Result, error) {
	if len(l) == 0 {
		return nil, core.ConfigError(stage, "empty layout")
	}
	b := &builder{layout: l, res: &Result{ApexIndex: -1, ApexFrame: -1}}

	n := len(l)
	for i, c := range l {
		if err := b.check(i, c); err != nil {
			return nil, err
		}
		switch c.Kind {
		case Nose:
			if i != 0 {
				return nil, core.ConfigError(stage, fmt.Sprintf("nose at compartment %d", i))
			}
			b.postpone(Nose, 0)
		case Tail:
			if i != n-1 {
				return nil, core.ConfigError(stage, fmt.Sprintf("tail at compartment %d", i))
			}
			b.postpone(Tail, max(i-1, 0))
		case Boom:
			if i == 0 {
				return nil, core.ConfigError(stage, "boom without supports")
			}
			b.postpone(Boom, i)
		case MotorBay:
			if err := b.motor(i, c); err != nil {
				return nil, err
			}
		case Container:
			if err := b.container(i, c); err != nil {
				return nil, err
			}
		}
	}
	if b.res.ApexIndex < 0 {
		return nil, core.ConfigError(stage, "layout has no container")
	}
	return b.res, nil
}

func (b *builder) check(i int, c Compartment) error {
	if _, err := ParseKind(string(c.Kind)); err != nil {
		return err
	}
	if (c.Kind == Container || c.Kind == MotorBay) && len(c.Parts) == 0 {
		return core.ConfigError(stage, fmt.Sprintf("%s compartment %d has no sizing parts", c.Kind, i))
	}
	return nil
}

func (b *builder) postpone(k Kind, i int) {
	b.res.StillToBuild = append(b.res.StillToBuild, Pending{Kind: k, Index: i})
}

// emit appends f, which must lie strictly aft of the last frame.
func (b *builder) emit(f Frame) error {
	if n := len(b.res.Frames); n > 0 && f.X() <= b.res.Frames[n-1].X() {
		return core.ConfigError(stage,
			fmt.Sprintf("frame at x=%.4f m does not follow frame at x=%.4f m", f.X(), b.res.Frames[n-1].X()))
	}
	b.res.Frames = append(b.res.Frames, f)
	return nil
}

// motor emits a mount frame for a puller at the start or a pusher at the end.
func (b *builder) motor(i int, c Compartment) error {
	n := len(b.layout)
	box := c.Box()
	axis := box.Centre()
	switch {
	case i == 0:
		axis.X = box.Max.X
	case i == n-1:
		axis.X = box.Min.X
	default:
		return core.ConfigError(stage, fmt.Sprintf("motor at compartment %d is not at either end", i))
	}
	return b.emit(MotorFrame(max(box.Width(), box.Height()), axis))
}

func (b *builder) container(i int, c Compartment) error {
	box := c.Box()
	start, end := BoxFrame(box, Start), BoxFrame(box, End)

	var next *Frame
	if i+1 < len(b.layout) && b.layout[i+1].Kind == Container {
		f := BoxFrame(b.layout[i+1].Box(), Start)
		next = &f
	}
	grows := next != nil && next.Encloses(start)

	if b.apex {
		if grows {
			return &core.StageError{
				Stage:     stage,
				Parameter: "compartment",
				Value:     i + 1,
				Message:   "section grows again after the apex",
				Err:       core.ErrMultipleApex,
			}
		}
		return b.emit(end)
	}

	if err := b.emit(start); err != nil {
		return err
	}
	if !grows {
		b.apex = true
		b.res.ApexIndex = i
		b.res.ApexFrame = len(b.res.Frames) - 1
		return b.emit(end)
	}
	return nil
}
