package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
)

// Experiment is one seeded, reproducible run of a configured model.
type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	simulator  *dynamo.Simulator
	randSource *rand.Rand
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{
		cfg:        cfg,
		registry:   registry,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup builds the system and attaches the default metrics for its model.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}

	sys, err := e.registry.Build(e.cfg, e.randSource)
	if err != nil {
		return err
	}

	e.simulator = dynamo.New(sys)
	for _, m := range e.registry.DefaultMetrics(e.cfg.Model, sys) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.RunConfig())
}

// RunConfig is the runner configuration derived from the experiment config.
func (e *Experiment) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator returns the underlying runner for adding observers.
func (e *Experiment) Simulator() *dynamo.Simulator {
	return e.simulator
}

func (e *Experiment) System() dynamo.System {
	if e.simulator == nil {
		return nil
	}
	return e.simulator.System()
}
