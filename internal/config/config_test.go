package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/weight"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mission.Goal != loading.GoalEndurance {
		t.Errorf("expected goal endurance, got %s", cfg.Mission.Goal)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.Airframe.BatteryWidth != 0.05 || cfg.Airframe.BatteryHeight != 0.035 {
		t.Errorf("unexpected battery section %fx%f", cfg.Airframe.BatteryWidth, cfg.Airframe.BatteryHeight)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.yaml")
	cfg := DefaultConfig()
	cfg.Mission.GoalValue = 2.5
	cfg.Airframe.TwinBoom = true
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Mission != cfg.Mission || got.Airframe != cfg.Airframe {
		t.Errorf("expected %+v, got %+v", cfg, got)
	}
}

func TestSaveLoadWingOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.yaml")
	cfg := DefaultConfig()
	offset := 0.03
	cfg.Airframe.WingOffset = &offset
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Airframe.WingOffset == nil || *got.Airframe.WingOffset != offset {
		t.Errorf("expected wing offset %v, got %v", offset, got.Airframe.WingOffset)
	}

	plain := filepath.Join(t.TempDir(), "plain.yaml")
	if err := Save(plain, DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	got, err = Load(plain)
	if err != nil {
		t.Fatal(err)
	}
	if got.Airframe.WingOffset != nil {
		t.Errorf("expected unset wing offset, got %v", *got.Airframe.WingOffset)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.yaml")
	data := []byte("mission:\n  performance_goal: range\n  goal_value: 100\n  goal_unit: km\n" +
		"  weight_target: payload\n  target_value: 0.5\n  payload_type: eoir\n  configuration: conventional\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Airframe.Plies != DefaultPlies {
		t.Errorf("expected default plies, got %d", cfg.Airframe.Plies)
	}
	if cfg.Mission.Handlaunch {
		t.Error("expected handlaunch off")
	}
}

func TestGoalSI(t *testing.T) {
	tests := []struct {
		goal  loading.Goal
		value float64
		unit  string
		want  float64
	}{
		{loading.GoalEndurance, 1, "h", 3600},
		{loading.GoalEndurance, 90, "s", 90},
		{loading.GoalRange, 100, "km", 100000},
		{loading.GoalRange, 500, "m", 500},
		{loading.GoalRange, 100, "", 100000},
	}
	for _, tt := range tests {
		got, err := Mission{Goal: tt.goal, GoalValue: tt.value, GoalUnit: tt.unit}.GoalSI()
		if err != nil {
			t.Fatalf("%s %s: %v", tt.goal, tt.unit, err)
		}
		if got != tt.want {
			t.Errorf("%s %g%s: expected %f, got %f", tt.goal, tt.value, tt.unit, tt.want, got)
		}
	}

	if _, err := (Mission{Goal: loading.GoalEndurance, GoalValue: 1, GoalUnit: "km"}).GoalSI(); !errors.Is(err, core.ErrConfig) {
		t.Errorf("expected config error for km endurance, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"goal", func(c *Config) { c.Mission.Goal = "speed" }, core.ErrConfig},
		{"target", func(c *Config) { c.Mission.WeightTarget = "volume" }, core.ErrConfig},
		{"configuration", func(c *Config) { c.Mission.Configuration = "biplane" }, core.ErrConfig},
		{"value", func(c *Config) { c.Mission.TargetValue = 0 }, core.ErrDomain},
		{"plies", func(c *Config) { c.Airframe.Plies = 0 }, core.ErrDomain},
		{"material", func(c *Config) { c.Airframe.Material = "balsa" }, core.ErrConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(loading.GoalRange, "100km")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Mission.TargetValue != 0.5 || cfg.Mission.Handlaunch {
		t.Errorf("unexpected mission %+v", cfg.Mission)
	}
	if cfg.Airframe.Plies != DefaultPlies {
		t.Errorf("expected default airframe, got %+v", cfg.Airframe)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset(loading.GoalRange, "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("speed", "100km"); cfg != nil {
		t.Error("expected nil for nonexistent goal")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets(loading.GoalEndurance)
	if len(presets) == 0 {
		t.Error("expected presets for endurance")
	}
	for _, name := range presets {
		if err := GetPreset(loading.GoalEndurance, name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent goal")
	}
}

func TestSpreadsheetRoundTrip(t *testing.T) {
	m := Mission{
		Goal:          loading.GoalRange,
		GoalValue:     100,
		GoalUnit:      "km",
		WeightTarget:  weight.TargetMTOW,
		TargetValue:   1.788395,
		Payload:       "eoir",
		Configuration: core.Conventional,
		Handlaunch:    false,
		Portable:      true,
	}
	var buf bytes.Buffer
	if err := WriteSpreadsheet(&buf, m); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ReadSpreadsheet(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got != m {
		t.Errorf("expected %+v, got %+v", m, got)
	}
}

func TestEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(EnvAssets+"=/tmp/assets\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAssets, "")
	os.Unsetenv(EnvAssets)
	t.Setenv(EnvLogLevel, "debug")

	if err := LoadEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("load env failed: %v", err)
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.Paths.Assets != "/tmp/assets" {
		t.Errorf("expected assets from dotenv, got %q", cfg.Paths.Assets)
	}
	if cfg.Paths.LogLevel != "debug" {
		t.Errorf("expected log level from environment, got %q", cfg.Paths.LogLevel)
	}
	if cfg.Paths.Data != DefaultDataDir {
		t.Errorf("expected default data dir, got %q", cfg.Paths.Data)
	}
}

func TestWingSection(t *testing.T) {
	a := DefaultConfig().Airframe
	if kind, name := a.WingSection(core.Conventional); kind != airfoil.Cambered || name != "naca2412" {
		t.Errorf("unexpected conventional section %s/%s", kind, name)
	}
	if kind, name := a.WingSection(core.FlyingWing); kind != airfoil.Reflexed || name != "reflex10" {
		t.Errorf("unexpected flying wing section %s/%s", kind, name)
	}
	a.WingAirfoil = "naca4412"
	if _, name := a.WingSection(core.Canard); name != "naca4412" {
		t.Errorf("expected user section, got %s", name)
	}
}
