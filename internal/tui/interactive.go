// Package tui is the interactive sizing front end: pick a preset, tune
// the inputs and re-evaluate in place.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/uavsizer/internal/config"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var configurations = []core.Configuration{core.Conventional, core.Canard, core.FlyingWing}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateResult
)

// param is one editable input. Toggles ignore step and cycle on adjust.
type param struct {
	name   string
	step   float64
	toggle bool
	get    func(*config.Config) string
	set    func(*config.Config, string) error
	adjust func(*config.Config, int)
}

func number(name string, step float64, field func(*config.Config) *float64) param {
	return param{
		name: name,
		step: step,
		get:  func(c *config.Config) string { return fmt.Sprintf("%.3f", *field(c)) },
		set: func(c *config.Config, s string) error {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			*field(c) = v
			return nil
		},
		adjust: func(c *config.Config, dir int) { *field(c) += float64(dir) * step },
	}
}

func flag(name string, field func(*config.Config) *bool) param {
	return param{
		name:   name,
		toggle: true,
		get:    func(c *config.Config) string { return strconv.FormatBool(*field(c)) },
		adjust: func(c *config.Config, _ int) { *field(c) = !*field(c) },
	}
}

func params() []param {
	return []param{
		{
			name:   "goal",
			toggle: true,
			get:    func(c *config.Config) string { return string(c.Mission.Goal) },
			adjust: func(c *config.Config, _ int) {
				if c.Mission.Goal == loading.GoalEndurance {
					c.Mission.Goal, c.Mission.GoalValue, c.Mission.GoalUnit = loading.GoalRange, 100, "km"
				} else {
					c.Mission.Goal, c.Mission.GoalValue, c.Mission.GoalUnit = loading.GoalEndurance, 1, "h"
				}
			},
		},
		number("goal value", 0.5, func(c *config.Config) *float64 { return &c.Mission.GoalValue }),
		number("payload/mtow", 0.05, func(c *config.Config) *float64 { return &c.Mission.TargetValue }),
		{
			name:   "configuration",
			toggle: true,
			get:    func(c *config.Config) string { return string(c.Mission.Configuration) },
			adjust: func(c *config.Config, dir int) {
				i := 0
				for j, k := range configurations {
					if k == c.Mission.Configuration {
						i = j
					}
				}
				n := len(configurations)
				c.Mission.Configuration = configurations[((i+dir)%n+n)%n]
			},
		},
		flag("handlaunch", func(c *config.Config) *bool { return &c.Mission.Handlaunch }),
		flag("twin boom", func(c *config.Config) *bool { return &c.Airframe.TwinBoom }),
		number("taper", 0.05, func(c *config.Config) *float64 { return &c.Airframe.Taper }),
		number("static margin", 0.01, func(c *config.Config) *float64 { return &c.Airframe.StaticMargin }),
		number("nose slender", 0.1, func(c *config.Config) *float64 { return &c.Airframe.NoseSlenderness }),
		number("tail slender", 0.1, func(c *config.Config) *float64 { return &c.Airframe.TailSlenderness }),
	}
}

type preset struct {
	goal loading.Goal
	name string
}

type model struct {
	state   state
	cursor  int
	presets []preset

	cfg         *config.Config
	params      []param
	paramCursor int
	editing     bool
	editBuf     string

	src      design.Sources
	aircraft *design.Aircraft
	result   *design.Design
	err      error
	planform bool

	width  int
	height int
}

func NewInteractiveApp(src design.Sources) *model {
	m := &model{
		src:    src,
		params: params(),
		width:  120,
		height: 40,
	}
	for _, g := range []loading.Goal{loading.GoalEndurance, loading.GoalRange} {
		for _, name := range config.ListPresets(g) {
			m.presets = append(m.presets, preset{goal: g, name: name})
		}
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateResult:
		return m.resultKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) == 0 {
			return m, nil
		}
		p := m.presets[m.cursor]
		m.cfg = config.GetPreset(p.goal, p.name)
		m.state = stateConfig
		m.paramCursor = 0
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	p := m.params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if err := p.set(m.cfg, m.editBuf); err != nil {
				m.err = err
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		if p.toggle {
			p.adjust(m.cfg, 1)
		} else {
			m.editing = true
			m.editBuf = p.get(m.cfg)
		}
	case "left", "h":
		p.adjust(m.cfg, -1)
	case "right", "l":
		p.adjust(m.cfg, 1)
	case "s":
		m.evaluate()
		m.state = stateResult
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m model) resultKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		return m, tea.ClearScreen
	case "c":
		m.state = stateConfig
		return m, tea.ClearScreen
	case "t":
		viz.NextTheme()
	case "p":
		m.planform = !m.planform
	}
	return m, nil
}

// evaluate reuses the attribute graph so only stale stages recompute.
func (m *model) evaluate() {
	m.result, m.err = nil, m.cfg.Validate()
	if m.err != nil {
		return
	}
	if m.aircraft == nil {
		m.aircraft = design.New(m.cfg, m.src)
	} else {
		m.aircraft.Set(m.cfg)
	}
	m.result, m.err = m.aircraft.Evaluate()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateResult:
		return m.viewResult()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("u a v s i z e r") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, p := range m.presets {
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", p.name)) + dim.Render(string(p.goal)) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", p.name)) + dimmer.Render(string(p.goal)) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(string(m.cfg.Mission.Goal)) + "  " + dim.Render(m.cfg.Mission.Payload) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 34)) + "\n\n")

	for i, p := range m.params {
		val := fmt.Sprintf("%14s", p.get(m.cfg))
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%14s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-14s", p.name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-14s", p.name)) + dim.Render(val) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n      " + red.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s size  esc back") + "\n")
	return b.String()
}

func (m model) viewResult() string {
	var b strings.Builder
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString("  " + red.Render(m.err.Error()) + "\n\n")
		b.WriteString(dim.Render("  c configure   q menu") + "\n")
		return b.String()
	}

	b.WriteString(viz.Summary(m.result) + "\n\n")
	cw, ch := max(m.width-12, 40), max(m.height/3, 8)
	if m.planform {
		b.WriteString(viz.Planform(m.result.Placement, m.result.Fuselage, cw/2, ch))
	} else {
		b.WriteString(viz.PowerChart(m.result.Performance, cw, ch))
	}
	b.WriteString("\n\n")
	b.WriteString(dim.Render(fmt.Sprintf("  evaluations %d   c configure  p planform/power  t theme  q menu",
		m.aircraft.Graph.Evaluations())) + "\n")
	return b.String()
}

func RunInteractive(src design.Sources) error {
	p := tea.NewProgram(NewInteractiveApp(src), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
