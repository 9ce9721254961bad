package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/assets"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/db"
	"github.com/san-kum/uavsizer/internal/design"
	"github.com/san-kum/uavsizer/internal/log"
)

func sources(t *testing.T) design.Sources {
	t.Helper()
	database, err := db.Open(assets.FS())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	return design.Sources{
		DB:       database,
		Airfoils: airfoil.NewLibrary(assets.FS()),
		AVLDir:   t.TempDir(),
		Logger:   log.Discard(),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(model)
	}
	return m
}

// presets are sorted, so handlaunch is second after flyingwing
func TestMenuListsPresets(t *testing.T) {
	m := *NewInteractiveApp(sources(t))
	if len(m.presets) == 0 {
		t.Fatal("expected presets")
	}
	if !strings.Contains(m.View(), m.presets[0].name) {
		t.Error("expected first preset in menu")
	}
}

func TestSizeAndResize(t *testing.T) {
	m := press(*NewInteractiveApp(sources(t)), "down", "enter", "s")
	if m.state != stateResult {
		t.Fatalf("expected result state, got %d", m.state)
	}
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	first := m.result.Weight.MTOW

	// payload/mtow is the third parameter
	m = press(m, "c", "down", "down", "right", "s")
	if m.err != nil {
		t.Fatalf("unexpected error: %v", m.err)
	}
	if m.result.Weight.MTOW <= first {
		t.Errorf("expected heavier aircraft, got %f after %f", m.result.Weight.MTOW, first)
	}
	if !strings.Contains(m.View(), "evaluations") {
		t.Error("expected result footer")
	}
}

func TestConfigToggle(t *testing.T) {
	m := press(*NewInteractiveApp(sources(t)), "down", "enter")
	// configuration is the fourth parameter
	m = press(m, "down", "down", "down", "enter")
	if m.cfg.Mission.Configuration != core.Canard {
		t.Errorf("expected canard, got %s", m.cfg.Mission.Configuration)
	}
}

func TestEditValue(t *testing.T) {
	m := press(*NewInteractiveApp(sources(t)), "down", "enter", "down", "enter")
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	m.editBuf = ""
	m = press(m, "2", ".", "5", "enter")
	if m.cfg.Mission.GoalValue != 2.5 {
		t.Errorf("expected goal value 2.5, got %f", m.cfg.Mission.GoalValue)
	}
}
