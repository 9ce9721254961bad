// Package eval provides a demand-driven, memoising attribute graph.
//
// An [Input] holds a user value; an [Attr] is a pure function of inputs
// and other attributes. Reading a value inside another attribute's
// compute function records a dependency edge, so the graph learns its
// own shape while it evaluates. Setting an input marks every transitive
// dependent stale; the next read recomputes only the stale cells.
//
//	g := eval.NewGraph("aircraft")
//	payload := eval.NewInput(g, "payload", 0.25)
//	mtow := eval.NewAttr(g, "mtow", func() (float64, error) {
//	    return weight.MTOWFromPayload(payload.Get())
//	})
//	m, err := mtow.Get()
//	payload.Set(0.5) // mtow is now stale
//
// Errors are cached like values: a failing attribute keeps failing until
// one of its inputs changes. A Graph is not safe for concurrent use.
package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/uavsizer/internal/log"
)

var ErrCycle = errors.New("eval: dependency cycle")

type cell struct {
	name       string
	input      bool
	valid      bool
	computing  bool
	value      any
	err        error
	compute    func() (any, error)
	deps       map[*cell]struct{}
	dependents map[*cell]struct{}
}

type Graph struct {
	name  string
	cells []*cell
	stack []*cell
	lg    *log.Logger
	evals int
}

func NewGraph(name string) *Graph {
	return &Graph{name: name}
}

func (g *Graph) SetLogger(lg *log.Logger) { g.lg = lg }

// Evaluations returns the number of attribute computations so far.
func (g *Graph) Evaluations() int { return g.evals }

func (g *Graph) newCell(name string, input bool) *cell {
	c := &cell{
		name:       name,
		input:      input,
		deps:       make(map[*cell]struct{}),
		dependents: make(map[*cell]struct{}),
	}
	g.cells = append(g.cells, c)
	return c
}

// track links c to the attribute currently being computed, if any.
func (g *Graph) track(c *cell) {
	if len(g.stack) == 0 {
		return
	}
	consumer := g.stack[len(g.stack)-1]
	consumer.deps[c] = struct{}{}
	c.dependents[consumer] = struct{}{}
}

func (g *Graph) invalidate(c *cell) {
	for d := range c.dependents {
		if d.valid {
			d.valid = false
			d.value = nil
			d.err = nil
			g.lg.Debug("invalidate", "graph", g.name, "attr", d.name, "cause", c.name)
			g.invalidate(d)
		}
	}
}

func (g *Graph) evaluate(c *cell) (any, error) {
	g.track(c)
	if c.valid {
		return c.value, c.err
	}
	if c.computing {
		return nil, fmt.Errorf("%w: %s", ErrCycle, g.path(c))
	}

	// Dependencies are rediscovered on every computation.
	for d := range c.deps {
		delete(d.dependents, c)
	}
	c.deps = make(map[*cell]struct{})

	c.computing = true
	g.stack = append(g.stack, c)
	v, err := c.compute()
	g.stack = g.stack[:len(g.stack)-1]
	c.computing = false

	g.evals++
	g.lg.Debug("evaluate", "graph", g.name, "attr", c.name, "deps", len(c.deps), "failed", err != nil)

	c.value, c.err, c.valid = v, err, true
	return v, err
}

func (g *Graph) path(c *cell) string {
	names := make([]string, 0, len(g.stack)+1)
	for _, s := range g.stack {
		names = append(names, s.name)
	}
	names = append(names, c.name)
	return strings.Join(names, " -> ")
}

// Stale lists the attributes that would recompute on their next read.
func (g *Graph) Stale() []string {
	var names []string
	for _, c := range g.cells {
		if !c.input && !c.valid {
			names = append(names, c.name)
		}
	}
	return names
}

// Invalidate marks every attribute stale.
func (g *Graph) Invalidate() {
	for _, c := range g.cells {
		if !c.input {
			c.valid = false
			c.value = nil
			c.err = nil
		}
	}
}

type Input[T any] struct {
	g *Graph
	c *cell
}

func NewInput[T any](g *Graph, name string, v T) *Input[T] {
	c := g.newCell(name, true)
	c.value, c.valid = v, true
	return &Input[T]{g: g, c: c}
}

func (in *Input[T]) Name() string { return in.c.name }

func (in *Input[T]) Get() T {
	in.g.track(in.c)
	return in.c.value.(T)
}

// Set replaces the value and marks all transitive dependents stale.
func (in *Input[T]) Set(v T) {
	in.c.value = v
	in.g.lg.Debug("set", "graph", in.g.name, "input", in.c.name)
	in.g.invalidate(in.c)
}

type Attr[T any] struct {
	g *Graph
	c *cell
}

func NewAttr[T any](g *Graph, name string, fn func() (T, error)) *Attr[T] {
	c := g.newCell(name, false)
	c.compute = func() (any, error) {
		v, err := fn()
		return v, err
	}
	return &Attr[T]{g: g, c: c}
}

func (a *Attr[T]) Name() string { return a.c.name }

// Valid reports whether the cached value is current.
func (a *Attr[T]) Valid() bool { return a.c.valid }

func (a *Attr[T]) Get() (T, error) {
	v, err := a.g.evaluate(a.c)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// MustGet is Get for attributes whose failure is a programming error.
func (a *Attr[T]) MustGet() T {
	v, err := a.Get()
	if err != nil {
		panic(err)
	}
	return v
}
