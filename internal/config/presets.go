package config

import (
	"math"
	"sort"
)

var Presets = map[string]map[string]*Config{
	ModelGravity: {
		"earth_moon": {
			Model: ModelGravity, Dt: 1, Duration: 3600,
			Gravity: GravityConfig{
				G: DefaultG,
				Bodies: []BodyConfig{
					{X: 0, Y: 0, Mass: 5.972e24},
					{X: 6.371e6, Y: 0, VY: 7.12e3, Mass: 7.342e22},
				},
			},
		},
		"binary": {
			Model: ModelGravity, Dt: 0.001, Duration: 30,
			Gravity: GravityConfig{
				G: 1,
				Bodies: []BodyConfig{
					{X: -0.5, VY: -0.5, Mass: 1},
					{X: 0.5, VY: 0.5, Mass: 1},
				},
			},
		},
		"random": {
			Model: ModelGravity, Dt: 0.01, Duration: 60, Seed: 1,
			Gravity: GravityConfig{
				G: DefaultG, Random: 8, Width: DefaultWidth, Height: DefaultHeight,
			},
		},
	},
	ModelPendulum: {
		"horizontal": {
			Model: ModelPendulum, Dt: 0.001, Duration: 20,
			Pendulum: PendulumConfig{
				Gravity: DefaultGravity,
				First:   SegmentConfig{Length: 1, Mass: 1, Angle: math.Pi / 2},
				Second:  SegmentConfig{Length: 1, Mass: 1, Angle: math.Pi / 2},
			},
		},
		"gentle": {
			Model: ModelPendulum, Dt: 0.001, Duration: 30,
			Pendulum: PendulumConfig{
				Gravity: DefaultGravity,
				First:   SegmentConfig{Length: 1, Mass: 1, Angle: 0.3},
				Second:  SegmentConfig{Length: 1, Mass: 1, Angle: 0.3},
			},
		},
		"chaos": {
			Model: ModelPendulum, Dt: 0.0005, Duration: 60,
			Pendulum: PendulumConfig{
				Gravity: DefaultGravity,
				First:   SegmentConfig{Length: 1, Mass: 2, Angle: 3.0},
				Second:  SegmentConfig{Length: 1.5, Mass: 1, Angle: 3.0},
			},
		},
		"rest": {
			Model: ModelPendulum, Dt: 0.01, Duration: 10,
			Pendulum: PendulumConfig{
				Gravity: DefaultGravity,
				First:   SegmentConfig{Length: 1, Mass: 1},
				Second:  SegmentConfig{Length: 1, Mass: 1},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
