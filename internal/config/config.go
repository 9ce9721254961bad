package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/uavsizer/internal/airfoil"
	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/mass"
	"github.com/san-kum/uavsizer/internal/weight"
)

const stage = "config"

const (
	DefaultTaper         = 0.5
	DefaultBatteryWidth  = 0.05
	DefaultBatteryHeight = 0.035
	DefaultStaticMargin  = 0.05
	DefaultPlies         = 2
	DefaultSlenderness   = 1.0
	DefaultDataDir       = ".uavsizer"
)

type Config struct {
	Mission  Mission        `yaml:"mission" json:"mission"`
	Airframe AirframeConfig `yaml:"airframe" json:"airframe"`
	Paths    PathsConfig    `yaml:"paths" json:"paths"`
}

// Mission is the user's top-level requirement set.
type Mission struct {
	Goal          loading.Goal       `yaml:"performance_goal" json:"performance_goal"`
	GoalValue     float64            `yaml:"goal_value" json:"goal_value"`
	GoalUnit      string             `yaml:"goal_unit" json:"goal_unit"` // h, s, km or m
	WeightTarget  weight.Target      `yaml:"weight_target" json:"weight_target"`
	TargetValue   float64            `yaml:"target_value" json:"target_value"`
	Payload       string             `yaml:"payload_type" json:"payload_type"`
	Configuration core.Configuration `yaml:"configuration" json:"configuration"`
	Handlaunch    bool               `yaml:"handlaunch" json:"handlaunch"`
	Portable      bool               `yaml:"portable" json:"portable"`
}

type AirframeConfig struct {
	WingAirfoil string  `yaml:"wing_airfoil" json:"wing_airfoil"`
	TailAirfoil string  `yaml:"tail_airfoil" json:"tail_airfoil"`
	Taper       float64 `yaml:"taper" json:"taper"`
	Dihedral    float64 `yaml:"dihedral" json:"dihedral"`
	Twist       float64 `yaml:"twist" json:"twist"`
	// WingOffset is the root to tip leading-edge offset in metres. Unset
	// keeps the trailing edge unswept.
	WingOffset      *float64 `yaml:"wing_offset,omitempty" json:"wing_offset,omitempty"`
	TwinBoom        bool     `yaml:"twin_boom" json:"twin_boom"`
	StaticMargin    float64  `yaml:"static_margin" json:"static_margin"`
	BatteryWidth    float64  `yaml:"battery_width" json:"battery_width"`
	BatteryHeight   float64  `yaml:"battery_height" json:"battery_height"`
	Plies           int      `yaml:"plies" json:"plies"`
	Material        string   `yaml:"material" json:"material"`
	NoseSlenderness float64  `yaml:"nose_slenderness" json:"nose_slenderness"`
	TailSlenderness float64  `yaml:"tail_slenderness" json:"tail_slenderness"`
	MinimiseFrames  bool     `yaml:"minimise_frames" json:"minimise_frames"`
}

type PathsConfig struct {
	Data     string `yaml:"data" json:"data"`
	Assets   string `yaml:"assets" json:"assets"`
	AVL      string `yaml:"avl" json:"avl"`
	Input    string `yaml:"input" json:"input"`
	LogLevel string `yaml:"log_level" json:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Mission: Mission{
			Goal:          loading.GoalEndurance,
			GoalValue:     1,
			GoalUnit:      "h",
			WeightTarget:  weight.TargetPayload,
			TargetValue:   0.25,
			Payload:       "eoir",
			Configuration: core.Conventional,
			Handlaunch:    true,
		},
		Airframe: AirframeConfig{
			TailAirfoil:     "naca0012",
			Taper:           DefaultTaper,
			StaticMargin:    DefaultStaticMargin,
			BatteryWidth:    DefaultBatteryWidth,
			BatteryHeight:   DefaultBatteryHeight,
			Plies:           DefaultPlies,
			Material:        mass.DefaultMaterial,
			NoseSlenderness: DefaultSlenderness,
			TailSlenderness: DefaultSlenderness,
		},
		Paths: PathsConfig{
			Data:     DefaultDataDir,
			LogLevel: "info",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GoalSI returns the goal in seconds (endurance) or metres (range).
func (m Mission) GoalSI() (float64, error) {
	unit := m.GoalUnit
	switch m.Goal {
	case loading.GoalEndurance:
		switch unit {
		case "h", "":
			return m.GoalValue * 3600, nil
		case "s":
			return m.GoalValue, nil
		}
	case loading.GoalRange:
		switch unit {
		case "km", "":
			return m.GoalValue * 1000, nil
		case "m":
			return m.GoalValue, nil
		}
	default:
		return 0, core.OptionError(stage, "performance_goal", m.Goal, "endurance|range")
	}
	return 0, core.OptionError(stage, "goal_unit", unit, "h|s for endurance, km|m for range")
}

// Validate checks the enumerated options and the positive quantities.
func (c *Config) Validate() error {
	m := c.Mission
	if _, err := m.GoalSI(); err != nil {
		return err
	}
	if m.GoalValue <= 0 {
		return core.DomainError(stage, "goal_value", m.GoalValue, "> 0")
	}
	if m.WeightTarget != weight.TargetPayload && m.WeightTarget != weight.TargetMTOW {
		return core.OptionError(stage, "weight_target", m.WeightTarget, "payload|mtow")
	}
	if m.TargetValue <= 0 {
		return core.DomainError(stage, "target_value", m.TargetValue, "> 0 kg")
	}
	if _, err := core.ParseConfiguration(string(m.Configuration)); err != nil {
		return err
	}
	if m.Payload == "" {
		return core.OptionError(stage, "payload_type", m.Payload, "a camera type")
	}

	a := c.Airframe
	if a.Taper <= 0 || a.Taper > 1 {
		return core.DomainError(stage, "taper", a.Taper, "(0, 1]")
	}
	if a.Plies < 1 {
		return core.DomainError(stage, "plies", a.Plies, ">= 1")
	}
	if _, ok := mass.Materials[a.Material]; !ok {
		return core.OptionError(stage, "material", a.Material, "fibreglass|carbon|kevlar")
	}
	if a.BatteryWidth <= 0 || a.BatteryHeight <= 0 {
		return core.DomainError(stage, "battery_section", fmt.Sprintf("%gx%g", a.BatteryWidth, a.BatteryHeight), "> 0 m")
	}
	return nil
}

// WingSection returns the wing section family the configuration needs
// and the section name, defaulting per family when none is set.
func (a AirframeConfig) WingSection(c core.Configuration) (airfoil.Kind, string) {
	kind, name := airfoil.Cambered, "naca2412"
	if c == core.FlyingWing {
		kind, name = airfoil.Reflexed, "reflex10"
	}
	if a.WingAirfoil != "" {
		name = a.WingAirfoil
	}
	return kind, name
}
