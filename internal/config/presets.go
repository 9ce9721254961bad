package config

import (
	"sort"

	"github.com/san-kum/uavsizer/internal/core"
	"github.com/san-kum/uavsizer/internal/loading"
	"github.com/san-kum/uavsizer/internal/weight"
)

// Presets holds typical missions grouped by performance goal. Airframe
// and path settings are taken from DefaultConfig.
var Presets = map[loading.Goal]map[string]Mission{
	loading.GoalEndurance: {
		"handlaunch": {
			Goal: loading.GoalEndurance, GoalValue: 1, GoalUnit: "h",
			WeightTarget: weight.TargetPayload, TargetValue: 0.25, Payload: "eoir",
			Configuration: core.Conventional, Handlaunch: true,
		},
		"surveillance": {
			Goal: loading.GoalEndurance, GoalValue: 3, GoalUnit: "h",
			WeightTarget: weight.TargetPayload, TargetValue: 0.6, Payload: "eoir",
			Configuration: core.Conventional,
		},
		"flyingwing": {
			Goal: loading.GoalEndurance, GoalValue: 45 * 60, GoalUnit: "s",
			WeightTarget: weight.TargetMTOW, TargetValue: 2, Payload: "eoir",
			Configuration: core.FlyingWing, Handlaunch: true, Portable: true,
		},
	},
	loading.GoalRange: {
		"100km": {
			Goal: loading.GoalRange, GoalValue: 100, GoalUnit: "km",
			WeightTarget: weight.TargetPayload, TargetValue: 0.5, Payload: "eoir",
			Configuration: core.Conventional,
		},
		"heavy-mapping": {
			Goal: loading.GoalRange, GoalValue: 60, GoalUnit: "km",
			WeightTarget: weight.TargetPayload, TargetValue: 0.9, Payload: "mapping",
			Configuration: core.Conventional,
		},
	},
}

// GetPreset returns a full config built on the named mission, or nil.
func GetPreset(goal loading.Goal, preset string) *Config {
	goalPresets, ok := Presets[goal]
	if !ok {
		return nil
	}
	m, ok := goalPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Mission = m
	return cfg
}

func ListPresets(goal loading.Goal) []string {
	goalPresets, ok := Presets[goal]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(goalPresets))
	for name := range goalPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
