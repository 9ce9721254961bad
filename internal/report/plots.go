// Package report renders evaluated designs: gonum plots of the sizing
// diagrams and a one-page PDF design sheet.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/uavsizer/internal/fuselage"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/performance"
	"github.com/san-kum/uavsizer/internal/scissor"
)

const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

var (
	red   = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	blue  = color.RGBA{R: 40, G: 80, B: 200, A: 255}
	green = color.RGBA{R: 30, G: 150, B: 60, A: 255}
	grey  = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, min(len(xs), len(ys)))
	for i := range pts {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	return pts
}

func line(p *plot.Plot, name string, c color.Color, dashed bool, pts plotter.XYs) error {
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	l.Color = c
	l.Width = vg.Points(1.5)
	if dashed {
		l.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	}
	p.Add(l)
	if name != "" {
		p.Legend.Add(name, l)
	}
	return nil
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

// PowerCurves plots required and available power against airspeed.
func PowerCurves(env *performance.Envelope) (*plot.Plot, error) {
	if env == nil || len(env.Speeds) == 0 {
		return nil, fmt.Errorf("report: no power curves")
	}
	p := newPlot("Power", "V [m/s]", "P [W]")
	for _, c := range []struct {
		name   string
		ys     []float64
		col    color.Color
		dashed bool
	}{
		{"required", env.PowerRequired, red, false},
		{"parasitic", env.PowerParasitic, grey, true},
		{"induced", env.PowerInduced, grey, true},
		{"continuous", env.PowerContinuous, blue, false},
		{"burst", env.PowerBurst, green, true},
	} {
		if len(c.ys) == 0 {
			continue
		}
		if err := line(p, c.name, c.col, c.dashed, xys(env.Speeds, c.ys)); err != nil {
			return nil, err
		}
	}
	if err := marker(p, "endurance", env.EnduranceSpeed, 0, p.Y.Max); err != nil {
		return nil, err
	}
	if err := marker(p, "cruise", env.CruiseSpeed, 0, p.Y.Max); err != nil {
		return nil, err
	}
	p.Y.Min = 0
	return p, nil
}

func marker(p *plot.Plot, name string, x, y0, y1 float64) error {
	if x <= 0 {
		return nil
	}
	return line(p, name, grey, true, plotter.XYs{{X: x, Y: y0}, {X: x, Y: y1}})
}

// LoadingDiagram plots the stall lines and the active climb curves with
// the selected design point.
func LoadingDiagram(d loading.Diagram) (*plot.Plot, error) {
	p := newPlot(fmt.Sprintf("Loading diagram, V_s = %.0f m/s", d.StallSpeed), "W/S [N/m^2]", "W/P [N/W]")
	top := 3 * d.Design.PowerLoading

	for _, s := range d.Stall {
		name := fmt.Sprintf("stall C_Lmax %.2f", s.MaxLiftCoef)
		if err := line(p, name, grey, s.MaxLiftCoef != d.Design.MaxLiftCoef, plotter.XYs{{X: s.WingLoading, Y: 0}, {X: s.WingLoading, Y: top}}); err != nil {
			return nil, err
		}
	}
	for _, c := range d.ActiveCurves() {
		pts := xys(d.WingLoading, c.PowerLoading)
		kept := pts[:0:0]
		for _, pt := range pts {
			if pt.Y <= top {
				kept = append(kept, pt)
			}
		}
		col := blue
		if c.Kind == "climb_gradient" {
			col = green
		}
		if err := line(p, fmt.Sprintf("%s AR %.0f", c.Kind, c.AspectRatio), col, false, kept); err != nil {
			return nil, err
		}
	}

	s, err := plotter.NewScatter(plotter.XYs{{X: d.Design.WingLoading, Y: d.Design.PowerLoading}})
	if err != nil {
		return nil, err
	}
	s.Color = red
	p.Add(s)
	p.Legend.Add("design point", s)
	p.X.Min, p.Y.Min, p.Y.Max = 0, 0, top
	return p, nil
}

// Scissor plots the stability and control lines with the selected tail
// ratio and the operating CG.
func Scissor(r *scissor.Result) (*plot.Plot, error) {
	if r == nil {
		return nil, fmt.Errorf("report: no scissor analysis for a tailless design")
	}
	p := newPlot("Scissor plot", "(x_cg - x_ac)/mac", "S_h/S")
	if err := line(p, "stability", red, false, xys(r.Curves.X, r.Curves.Stability)); err != nil {
		return nil, err
	}
	if err := line(p, "control", blue, false, xys(r.Curves.X, r.Curves.Control)); err != nil {
		return nil, err
	}

	ctrl, stab := r.Limits(r.Required)
	if err := line(p, fmt.Sprintf("S_h/S = %.3f", r.Required), green, true, plotter.XYs{{X: ctrl, Y: r.Required}, {X: stab, Y: r.Required}}); err != nil {
		return nil, err
	}
	s, err := plotter.NewScatter(plotter.XYs{{X: r.Position, Y: r.Required}})
	if err != nil {
		return nil, err
	}
	s.Color = red
	p.Add(s)
	p.Legend.Add("operating cg", s)
	p.Y.Min = 0
	return p, nil
}

// Frames plots the side view of the frame stations and the cones.
func Frames(f *fuselage.Fuselage) (*plot.Plot, error) {
	if f == nil || len(f.Frames) == 0 {
		return nil, fmt.Errorf("report: no frames")
	}
	p := newPlot("Fuselage side view", "x [m]", "z [m]")
	top := make(plotter.XYs, 0, len(f.Frames)+2)
	bottom := make(plotter.XYs, 0, len(f.Frames)+2)
	if f.Nose != nil {
		top = append(top, plotter.XY{X: f.Nose.Tip.X, Y: f.Nose.Tip.Z})
		bottom = append(bottom, plotter.XY{X: f.Nose.Tip.X, Y: f.Nose.Tip.Z})
	}
	for _, fr := range f.Frames {
		top = append(top, plotter.XY{X: fr.X(), Y: fr.Position.Z + fr.Height})
		bottom = append(bottom, plotter.XY{X: fr.X(), Y: fr.Position.Z})
		if err := line(p, "", grey, true, plotter.XYs{{X: fr.X(), Y: fr.Position.Z}, {X: fr.X(), Y: fr.Position.Z + fr.Height}}); err != nil {
			return nil, err
		}
	}
	if f.Tail != nil {
		top = append(top, plotter.XY{X: f.Tail.Tip.X, Y: f.Tail.Tip.Z})
		bottom = append(bottom, plotter.XY{X: f.Tail.Tip.X, Y: f.Tail.Tip.Z})
	}
	if err := line(p, "top", blue, false, top); err != nil {
		return nil, err
	}
	if err := line(p, "bottom", blue, false, bottom); err != nil {
		return nil, err
	}
	return p, nil
}

// Path is dir/plots/<label>.pdf.
func Path(dir, label string) string {
	return filepath.Join(dir, "plots", label+".pdf")
}

// Save writes p as a PDF under dir and returns the file name.
func Save(p *plot.Plot, dir, label string) (string, error) {
	path := Path(dir, label)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := p.Save(Width, Height, path); err != nil {
		return "", err
	}
	return path, nil
}
