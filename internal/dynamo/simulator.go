package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	sys       System
	metrics   []Metric
	observers []Observer
}

func New(sys System) *Simulator {
	return &Simulator{
		sys:       sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) System() System         { return s.sys }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances the system with a fixed timestep until cfg.Duration is
// covered, recording the initial state and every state after a step.
// Non-finite values are never corrected: with ValidateState the run stops
// recording at the first invalid state and reports it in Result.Errors.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		States:  make([]State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	x := s.sys.State()
	result.States = append(result.States, x)
	result.Times = append(result.Times, t)

	initialEnergy := s.computeEnergy()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}

		s.sys.Advance(cfg.Dt)
		t += cfg.Dt
		x = s.sys.State()

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{
				Step: i, Time: t, State: x, Wrapped: ErrInvalidState,
			})
			break
		}

		result.StepsTaken++
		result.States = append(result.States, x)
		result.Times = append(result.Times, t)

		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}
	}

	finalEnergy := s.computeEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback advances the system and hands each new state to fn
// without recording it. The run ends early when fn returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(State, float64) bool) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.sys.Advance(cfg.Dt)
		t += cfg.Dt
		x := s.sys.State()

		if cfg.ValidateState && !x.IsValid() {
			return &SimulationError{Step: i, Time: t, State: x, Wrapped: ErrInvalidState}
		}

		if !fn(x, t) {
			return nil
		}
	}

	return nil
}

func ValidateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

func (s *Simulator) computeEnergy() float64 {
	if h, ok := s.sys.(Hamiltonian); ok {
		return h.Energy()
	}
	return 0
}
