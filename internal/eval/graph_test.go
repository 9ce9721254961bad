package eval

import (
	"errors"
	"testing"
)

func TestMemoisation(t *testing.T) {
	g := NewGraph("test")
	x := NewInput(g, "x", 2.0)
	calls := 0
	sq := NewAttr(g, "sq", func() (float64, error) {
		calls++
		v := x.Get()
		return v * v, nil
	})

	for i := 0; i < 3; i++ {
		v, err := sq.Get()
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if v != 4 {
			t.Errorf("expected 4, got %f", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 computation, got %d", calls)
	}
}

func TestInvalidationIsTransitive(t *testing.T) {
	g := NewGraph("test")
	a := NewInput(g, "a", 1.0)
	b := NewInput(g, "b", 10.0)

	double := NewAttr(g, "double", func() (float64, error) { return 2 * a.Get(), nil })
	sum := NewAttr(g, "sum", func() (float64, error) {
		d, err := double.Get()
		if err != nil {
			return 0, err
		}
		return d + b.Get(), nil
	})
	onlyB := NewAttr(g, "onlyB", func() (float64, error) { return b.Get() + 1, nil })

	if v := sum.MustGet(); v != 12 {
		t.Fatalf("expected 12, got %f", v)
	}
	onlyB.MustGet()

	a.Set(5)
	if double.Valid() || sum.Valid() {
		t.Error("dependents of a should be stale")
	}
	if !onlyB.Valid() {
		t.Error("onlyB does not depend on a and should stay valid")
	}
	if v := sum.MustGet(); v != 20 {
		t.Errorf("expected 20, got %f", v)
	}
}

func TestReevaluationMatchesFreshGraph(t *testing.T) {
	build := func(v float64) (*Input[float64], *Attr[float64]) {
		g := NewGraph("test")
		in := NewInput(g, "in", v)
		out := NewAttr(g, "out", func() (float64, error) { return in.Get()*3 + 1, nil })
		return in, out
	}

	in, out := build(1)
	out.MustGet()
	in.Set(7)

	_, fresh := build(7)
	if out.MustGet() != fresh.MustGet() {
		t.Errorf("re-evaluated %f differs from fresh %f", out.MustGet(), fresh.MustGet())
	}
}

func TestErrorsAreCached(t *testing.T) {
	g := NewGraph("test")
	x := NewInput(g, "x", -1.0)
	boom := errors.New("negative")
	calls := 0
	pos := NewAttr(g, "pos", func() (float64, error) {
		calls++
		if x.Get() < 0 {
			return 0, boom
		}
		return x.Get(), nil
	})

	for i := 0; i < 2; i++ {
		if _, err := pos.Get(); !errors.Is(err, boom) {
			t.Errorf("expected cached error, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 computation, got %d", calls)
	}

	x.Set(3)
	if v, err := pos.Get(); err != nil || v != 3 {
		t.Errorf("expected recovery after input change, got %f, %v", v, err)
	}
}

func TestCycleDetection(t *testing.T) {
	g := NewGraph("test")
	var b *Attr[int]
	a := NewAttr(g, "a", func() (int, error) { return b.Get() })
	b = NewAttr(g, "b", func() (int, error) { return a.Get() })

	if _, err := a.Get(); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestStale(t *testing.T) {
	g := NewGraph("test")
	x := NewInput(g, "x", 1)
	y := NewAttr(g, "y", func() (int, error) { return x.Get() + 1, nil })

	if len(g.Stale()) != 1 {
		t.Errorf("expected 1 stale attribute before first read, got %v", g.Stale())
	}
	y.MustGet()
	if len(g.Stale()) != 0 {
		t.Errorf("expected no stale attributes, got %v", g.Stale())
	}
	g.Invalidate()
	if len(g.Stale()) != 1 {
		t.Errorf("expected y stale after Invalidate, got %v", g.Stale())
	}
}
