package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

// decay is dx/dt = -x integrated with explicit Euler.
type decay struct {
	x float64
}

func (d *decay) Advance(dt float64)    { d.x += dt * -d.x }
func (d *decay) State() State          { return State{d.x} }
func (d *decay) StateLabels() []string { return []string{"x"} }
func (d *decay) Energy() float64       { return d.x * d.x }

func (d *decay) SetState(x State) error {
	if len(x) != 1 {
		return ErrDimensionMismatch
	}
	d.x = x[0]
	return nil
}

// blowup doubles every step and turns into NaN after a fixed number of steps.
type blowup struct {
	x     float64
	steps int
	at    int
}

func (b *blowup) Advance(dt float64) {
	b.steps++
	b.x *= 2
	if b.steps >= b.at {
		b.x = math.NaN()
	}
}
func (b *blowup) State() State          { return State{b.x} }
func (b *blowup) StateLabels() []string { return []string{"x"} }

func (b *blowup) SetState(x State) error {
	b.x = x[0]
	return nil
}

func TestSimulatorRun(t *testing.T) {
	sim := New(&decay{x: 1})

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
	}

	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}

	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	finalState := result.States[len(result.States)-1][0]
	expected := 1.0 * math.Exp(-1.0)
	if math.Abs(finalState-expected) > 0.2 {
		t.Errorf("expected final state ~%.4f, got %.4f", expected, finalState)
	}

	if result.States[0][0] != 1.0 {
		t.Errorf("initial state overwritten: %v", result.States[0])
	}

	if result.EnergyDrift <= 0 {
		t.Errorf("expected energy drift for a decaying system, got %f", result.EnergyDrift)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&decay{x: 1})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"nan dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorValidateState(t *testing.T) {
	sim := New(&blowup{x: 1, at: 4})

	result, err := sim.Run(context.Background(), Config{Dt: 1, Duration: 10, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 3 {
		t.Errorf("expected 3 valid steps, got %d", result.StepsTaken)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Errorf("expected one ErrInvalidState, got %v", result.Errors)
	}

	var simErr *SimulationError
	if !errors.As(result.Errors[0], &simErr) || simErr.Step != 3 {
		t.Errorf("expected SimulationError at step 3, got %v", result.Errors[0])
	}
}

func TestSimulatorPropagatesNonFinite(t *testing.T) {
	sim := New(&blowup{x: 1, at: 2})

	result, err := sim.Run(context.Background(), Config{Dt: 1, Duration: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 5 || len(result.Errors) != 0 {
		t.Errorf("expected 5 unchecked steps, got %d (errors %v)", result.StepsTaken, result.Errors)
	}
	if !math.IsNaN(result.States[5][0]) {
		t.Errorf("expected NaN to propagate, got %v", result.States[5])
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := New(&decay{x: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.States) != 1 {
		t.Errorf("expected only the initial state, got %v", result)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(x State, time float64) {
	t.count++
	t.sum += x[0]
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	sim := New(&decay{x: 1})

	metric := &testMetric{}
	sim.AddMetric(metric)

	var observed []float64
	sim.AddObserver(ObserverFunc(func(x State, at float64) {
		observed = append(observed, at)
	}))

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}

	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}

	if len(observed) != 10 || math.Abs(observed[9]-1.0) > 1e-9 {
		t.Errorf("unexpected observer calls: %v", observed)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(&decay{x: 1})

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 1}, func(x State, t float64) bool {
		calls++
		return calls < 4
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 4 {
		t.Errorf("expected callback to stop the run after 4 calls, got %d", calls)
	}

	err = New(&blowup{x: 1, at: 2}).RunWithCallback(context.Background(),
		Config{Dt: 1, Duration: 5, ValidateState: true},
		func(State, float64) bool { return true })
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) (System, error) {
		return &decay{x: float64(seed)}, nil
	}

	results, err := NewEnsemble(build, 4, 1).Run(context.Background(), Config{Dt: 0.1, Duration: 1})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.States[0][0] != float64(i+1) {
			t.Errorf("run %d: expected seed %d as initial state, got %v", i, i+1, r.States[0])
		}
	}

	failing := func(seed int64) (System, error) {
		if seed == 2 {
			return nil, ErrParameterBounds
		}
		return &decay{x: 1}, nil
	}
	if _, err := NewEnsemble(failing, 3, 0).Run(context.Background(), Config{Dt: 0.1, Duration: 1}); !errors.Is(err, ErrParameterBounds) {
		t.Errorf("expected builder error, got %v", err)
	}
}
