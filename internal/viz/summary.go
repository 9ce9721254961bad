package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/fuselage"
	"github.com/san-kum/uavsizer/internal/geometry"
	"github.com/san-kum/uavsizer/internal/performance"
	"github.com/san-kum/uavsizer/internal/surface"
)

const panelWidth = 38

func field(s Styles, label, format string, args ...any) string {
	return s.Label.Render(fmt.Sprintf("%-14s", label)) + s.Value.Render(fmt.Sprintf(format, args...))
}

// Summary renders the main results of d as side-by-side panels.
func Summary(d *design.Design) string {
	s := CurrentTheme.Styles()
	m := d.Mission

	sizing := BoxWithTitle(s, "Sizing", strings.Join([]string{
		field(s, "goal", "%s %.1f %s", m.Goal, m.GoalValue, m.GoalUnit),
		field(s, "config", "%s", m.Configuration),
		field(s, "mtow", "%.3f kg", d.Weight.MTOW),
		field(s, "payload", "%.3f kg", d.Weight.Payload),
		field(s, "W/S", "%.1f N/m²", d.Loading.WingLoading),
		field(s, "W/P", "%.4f N/W", d.Loading.PowerLoading),
		field(s, "AR", "%.0f", d.Loading.AspectRatio),
		field(s, "V_stall", "%.1f m/s", d.Stall),
		field(s, "V_cruise", "%.1f m/s", d.Cruise.Speed),
	}, "\n"), panelWidth)

	parts := BoxWithTitle(s, "Components", strings.Join([]string{
		field(s, "motor", "%s", d.Motor.Name),
		field(s, "propeller", "%s", d.Propeller.Name),
		field(s, "esc", "%.0f A", d.ESC.Amperage),
		field(s, "battery", "%.0f Wh", d.Battery.Energy/3600),
		field(s, "camera", "%s", d.Camera.Name),
	}, "\n"), panelWidth)

	lines := []string{}
	if env := d.Performance; env != nil {
		lines = append(lines,
			field(s, "endurance", "%.2f h", env.Endurance),
			field(s, "range", "%.1f km", env.Range))
	}
	if p := d.Placement; p != nil {
		lines = append(lines, field(s, "cg", "%.3f mac", p.Position))
	}
	perf := BoxWithTitle(s, "Performance", strings.Join(lines, "\n"), panelWidth)

	top := lipgloss.JoinHorizontal(lipgloss.Top, sizing, parts, perf)
	return lipgloss.JoinVertical(lipgloss.Left, top, Breakdown(d), Warnings(d))
}

// Breakdown renders the mass fraction of every component kind.
func Breakdown(d *design.Design) string {
	s := CurrentTheme.Styles()
	if d.Mass.Total == 0 {
		return ""
	}
	var rows []string
	for _, k := range d.Mass.Kinds() {
		w := d.Mass.ByKind[k]
		f := w / d.Mass.Total
		rows = append(rows, fmt.Sprintf("%s %s %s",
			s.Label.Render(fmt.Sprintf("%-10s", k)), ProgressBar(s, f, 30), s.Value.Render(fmt.Sprintf("%.3f kg", w))))
	}
	return BoxWithTitle(s, fmt.Sprintf("Mass %.3f kg", d.Mass.Total), strings.Join(rows, "\n"), 3*panelWidth+4)
}

func Warnings(d *design.Design) string {
	if len(d.Warnings) == 0 {
		return ""
	}
	s := CurrentTheme.Styles()
	rows := make([]string, len(d.Warnings))
	for i, w := range d.Warnings {
		rows[i] = s.Warn.Render("! ") + w.String()
	}
	return strings.Join(rows, "\n")
}

// PowerChart plots required and continuous available power against speed.
func PowerChart(env *performance.Envelope, width, height int) string {
	if env == nil || len(env.Speeds) == 0 {
		return ""
	}
	caption := fmt.Sprintf("P [W] vs V %.0f..%.0f m/s", env.Speeds[0], env.Speeds[len(env.Speeds)-1])
	return asciigraph.PlotMany([][]float64{env.PowerRequired, env.PowerContinuous},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption(caption))
}

func outline(s *surface.Surface) [][]geometry.Point2 {
	root, tip := s.Position, s.TipLeadingEdge()
	if s.Vertical {
		return [][]geometry.Point2{{{X: root.X, Y: root.Y}, {X: root.X + s.RootChord, Y: root.Y}}}
	}
	half := []geometry.Point2{
		{X: root.X, Y: root.Y},
		{X: tip.X, Y: tip.Y},
		{X: tip.X + s.TipChord, Y: tip.Y},
		{X: root.X + s.RootChord, Y: root.Y},
	}
	mirror := make([]geometry.Point2, len(half))
	for i, p := range half {
		mirror[i] = geometry.Point2{X: p.X, Y: 2*root.Y - p.Y}
	}
	return [][]geometry.Point2{half, mirror}
}

// Planform draws the top view of the installed aircraft, nose left.
func Planform(p *design.Placement, f *fuselage.Fuselage, width, height int) string {
	if p == nil || p.Wing == nil {
		return ""
	}
	var shapes [][]geometry.Point2
	shapes = append(shapes, outline(p.Wing)...)
	if p.Tail != nil {
		for _, t := range p.Tail.Surfaces() {
			shapes = append(shapes, outline(t)...)
		}
		for _, c := range p.Tail.Connectors {
			shapes = append(shapes, []geometry.Point2{{X: c.Start.X, Y: c.Start.Y}, {X: c.End.X, Y: c.End.Y}})
		}
	}
	if f != nil && len(f.Frames) > 0 {
		var left, right []geometry.Point2
		if f.Nose != nil {
			left = append(left, geometry.Point2{X: f.Nose.Tip.X, Y: f.Nose.Tip.Y})
		}
		for _, fr := range f.Frames {
			left = append(left, geometry.Point2{X: fr.X(), Y: fr.Position.Y - fr.Width/2})
			right = append(right, geometry.Point2{X: fr.X(), Y: fr.Position.Y + fr.Width/2})
		}
		if f.Tail != nil {
			left = append(left, geometry.Point2{X: f.Tail.Tip.X, Y: f.Tail.Tip.Y})
		}
		if f.Nose != nil {
			right = append([]geometry.Point2{left[0]}, right...)
		}
		if f.Tail != nil {
			right = append(right, left[len(left)-1])
		}
		shapes = append(shapes, left, right)
	}

	minX, minY, maxX, maxY := shapes[0][0].X, shapes[0][0].Y, shapes[0][0].X, shapes[0][0].Y
	for _, sh := range shapes {
		for _, pt := range sh {
			minX, maxX = min(minX, pt.X), max(maxX, pt.X)
			minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
		}
	}

	c := NewCanvas(width, height)
	v := c.Fit(minX, minY, maxX, maxY)
	for _, sh := range shapes {
		v.Polyline(sh...)
	}
	return c.String()
}
