package main

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/storage"
	"github.com/spf13/cobra"
)

// loadConfig resolves the run configuration for model from, in order, a
// config file, a preset or the defaults, then applies any flags the user set
// explicitly.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		if loaded.Model != model {
			return nil, fmt.Errorf("config %s is for model %s, not %s", configFile, loaded.Model, model)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for model %s (available: %v)", preset, model, config.ListPresets(model))
		}
	default:
		cfg = config.DefaultConfig()
		cfg.Model = model
	}

	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.Gravity.Random = numBodies
	}
	if flags.Changed("theta1") {
		cfg.Pendulum.First.Angle = theta1
	}
	if flags.Changed("theta2") {
		cfg.Pendulum.Second.Angle = theta2
	}
	if flags.Changed("omega1") {
		cfg.Pendulum.First.Omega = omega1
	}
	if flags.Changed("omega2") {
		cfg.Pendulum.Second.Omega = omega2
	}
}

func runConfig(cfg *config.Config) dynamo.Config {
	return dynamo.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		Seed:          cfg.Seed,
		ValidateState: true,
	}
}

// storedRun loads a run back into the shape the exporters expect.
func storedRun(st *storage.Store, runID string) (*storage.RunMetadata, storage.RunInfo, *dynamo.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, storage.RunInfo{}, nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, storage.RunInfo{}, nil, err
	}
	if len(states) == 0 {
		return nil, storage.RunInfo{}, nil, fmt.Errorf("run %s has no data", runID)
	}

	info := storage.RunInfo{
		Model:    meta.Model,
		Preset:   meta.Preset,
		Seed:     meta.Seed,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Labels:   meta.Labels,
		Params:   meta.Params,
	}
	result := &dynamo.Result{
		States:     states,
		Times:      times,
		Metrics:    meta.Metrics,
		StepsTaken: meta.Steps,
	}
	if meta.EnergyDrift != nil {
		result.EnergyDrift = *meta.EnergyDrift
	}
	return meta, info, result, nil
}

func label(labels []string, idx int) string {
	if idx >= 0 && idx < len(labels) {
		return labels[idx]
	}
	return fmt.Sprintf("x%d", idx)
}

func checkIndex(dim int, idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= dim {
			return fmt.Errorf("%w: index %d outside state of length %d", dynamo.ErrDimensionMismatch, i, dim)
		}
	}
	return nil
}
