package automation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/experiment"
	"github.com/san-kum/mechsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted batch of runs loaded from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep selects a configuration by file, preset or model defaults.
// Non-zero Dt, Duration and Seed override it.
type ScenarioStep struct {
	Model    string  `yaml:"model"`
	Preset   string  `yaml:"preset"`
	Config   string  `yaml:"config"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`
	Save     bool    `yaml:"save"`
}

type StepResult struct {
	Config *config.Config
	RunID  string
	Result *dynamo.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

// Resolve builds the validated run configuration for the step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for model %q", s.Preset, s.Model)
		}
	default:
		cfg = config.DefaultConfig()
		cfg.Model = s.Model
	}

	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Steps marked Save are written to
// store when it is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Printf("step %d/%d: %s for %gs", i+1, len(scenario.Steps), cfg.Model, cfg.Duration)

		exp := experiment.New(cfg, registry)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: result}
		if step.Save && store != nil {
			sr.RunID, err = store.Save(experiment.Describe(cfg, step.Preset, exp.System()), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, sr)
	}

	return results, nil
}

type MonteCarloConfig struct {
	Base         *config.Config
	// Perturbation is the half-width of the uniform noise added to every
	// component of the initial state.
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID     int
	InitState   dynamo.State
	FinalState  dynamo.State
	EnergyDrift float64
	Stable      bool
}

// RunMonteCarlo runs NumTrials copies of Base with randomly perturbed initial
// states. A trial is stable when it finished without a simulation error and
// every state stayed within the model's stability limit.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.Base == nil || cfg.NumTrials <= 0 || cfg.Perturbation < 0 {
		return nil, fmt.Errorf("%w: need a base config, positive trials and non-negative perturbation", dynamo.ErrInvalidConfig)
	}
	if err := cfg.Base.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	runCfg := dynamo.Config{Dt: cfg.Base.Dt, Duration: cfg.Base.Duration, Seed: cfg.Seed, ValidateState: true}
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		sys, err := registry.Build(cfg.Base, rand.New(rand.NewSource(cfg.Base.Seed)))
		if err != nil {
			return results, err
		}

		initState := sys.State()
		for i := range initState {
			initState[i] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		}
		if err := sys.SetState(initState); err != nil {
			return results, err
		}

		sim := dynamo.New(sys)
		for _, m := range registry.DefaultMetrics(cfg.Base.Model, sys) {
			sim.AddMetric(m)
		}

		result, err := sim.Run(ctx, runCfg)
		if err != nil {
			return results, err
		}

		stable := len(result.Errors) == 0
		if s, ok := result.Metrics["stability"]; ok && s < 1 {
			stable = false
		}

		results = append(results, MonteCarloResult{
			TrialID:     trial,
			InitState:   initState,
			FinalState:  result.States[len(result.States)-1],
			EnergyDrift: result.EnergyDrift,
			Stable:      stable,
		})

		if (trial+1)%10 == 0 {
			log.Printf("monte carlo: %d/%d trials complete", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
