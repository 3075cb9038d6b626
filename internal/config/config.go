package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	ModelGravity  = "gravity"
	ModelPendulum = "pendulum"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultG         = 6.6743e-11
	DefaultGravity   = 9.80665
	DefaultBodies    = 5
	DefaultWidth     = 8.0
	DefaultHeight    = 6.0
	DefaultTheta     = 0.5
	DefaultSegLength = 1.0
	DefaultSegMass   = 1.0
)

type Config struct {
	Model    string         `yaml:"model"`
	Dt       float64        `yaml:"dt"`
	Duration float64        `yaml:"duration"`
	Seed     int64          `yaml:"seed"`
	Gravity  GravityConfig  `yaml:"gravity"`
	Pendulum PendulumConfig `yaml:"pendulum"`
}

type GravityConfig struct {
	G float64 `yaml:"g"`
	// Random, when positive, replaces Bodies with that many seeded random
	// bodies scattered over Width×Height. Load only falls back to
	// DefaultBodies when a file lists neither.
	Random int          `yaml:"random"`
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
	Bodies []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
	Mass float64 `yaml:"mass"`
}

type PendulumConfig struct {
	Gravity float64       `yaml:"gravity"`
	First   SegmentConfig `yaml:"first"`
	Second  SegmentConfig `yaml:"second"`
}

type SegmentConfig struct {
	Length float64 `yaml:"length"`
	Mass   float64 `yaml:"mass"`
	Angle  float64 `yaml:"angle"`
	Omega  float64 `yaml:"omega"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    ModelPendulum,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gravity: GravityConfig{
			G:      DefaultG,
			Random: DefaultBodies,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Pendulum: PendulumConfig{
			Gravity: DefaultGravity,
			First:   SegmentConfig{Length: DefaultSegLength, Mass: DefaultSegMass, Angle: DefaultTheta},
			Second:  SegmentConfig{Length: DefaultSegLength, Mass: DefaultSegMass, Angle: DefaultTheta},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Gravity.Random = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Gravity.Random == 0 && len(cfg.Gravity.Bodies) == 0 {
		cfg.Gravity.Random = DefaultBodies
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

// Validate checks run-level settings. Physical parameters are checked by the
// simulators themselves when they are built.
func (c *Config) Validate() error {
	switch c.Model {
	case ModelGravity, ModelPendulum:
	default:
		return fmt.Errorf("unknown model: %q", c.Model)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Model == ModelGravity && c.Gravity.Random <= 0 && len(c.Gravity.Bodies) == 0 {
		return fmt.Errorf("gravity model needs bodies or a random body count")
	}
	return nil
}

// Clone returns a deep copy so presets can be customised safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Gravity.Bodies = append([]BodyConfig(nil), c.Gravity.Bodies...)
	return &out
}
