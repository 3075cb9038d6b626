package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/gravity"
	"github.com/san-kum/mechsim/internal/metrics"
	"github.com/san-kum/mechsim/internal/pendulum"
	"github.com/san-kum/mechsim/internal/vec"
)

// Builder constructs a system from a run configuration. Any randomness must
// come from rng.
type Builder func(cfg *config.Config, rng *rand.Rand) (dynamo.System, error)

type model struct {
	build Builder
	// stateLimit bounds |x_i| for the stability metric.
	stateLimit float64
}

type Registry struct {
	models map[string]model
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]model)}

	r.Register(config.ModelGravity, buildGravity, 1e15)
	r.Register(config.ModelPendulum, buildPendulum, 1e6)

	return r
}

func (r *Registry) Register(name string, build Builder, stateLimit float64) {
	r.models[name] = model{build: build, stateLimit: stateLimit}
}

func (r *Registry) Build(cfg *config.Config, rng *rand.Rand) (dynamo.System, error) {
	m, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	return m.build(cfg, rng)
}

// EnsembleBuilder adapts cfg into a per-seed builder for dynamo.Ensemble.
func (r *Registry) EnsembleBuilder(cfg *config.Config) (dynamo.Builder, error) {
	if _, ok := r.models[cfg.Model]; !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	return func(seed int64) (dynamo.System, error) {
		return r.Build(cfg, rand.New(rand.NewSource(seed)))
	}, nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics picks the metrics that make sense for sys.
func (r *Registry) DefaultMetrics(name string, sys dynamo.System) []dynamo.Metric {
	var ms []dynamo.Metric
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergyDrift(h))
	}
	if p, ok := sys.(metrics.MomentumComputer); ok {
		ms = append(ms, metrics.NewMomentumDrift(p))
	}
	if m, ok := r.models[name]; ok {
		ms = append(ms, metrics.NewStability(m.stateLimit))
	}
	return ms
}

func buildGravity(cfg *config.Config, rng *rand.Rand) (dynamo.System, error) {
	gc := cfg.Gravity

	var bodies []gravity.Body
	if gc.Random > 0 {
		bodies = gravity.RandomBodies(rng, gc.Random, gc.Width, gc.Height)
	} else {
		bodies = make([]gravity.Body, len(gc.Bodies))
		for i, b := range gc.Bodies {
			bodies[i] = gravity.Body{
				Pos:  vec.Vec{X: b.X, Y: b.Y},
				Vel:  vec.Vec{X: b.VX, Y: b.VY},
				Mass: b.Mass,
			}
		}
	}

	sim, err := gravity.New(bodies)
	if err != nil {
		return nil, err
	}
	if gc.G != 0 {
		sim.G = gc.G
	}
	return sim, nil
}

func buildPendulum(cfg *config.Config, rng *rand.Rand) (dynamo.System, error) {
	pc := cfg.Pendulum

	first := pendulum.NewSegment(pc.First.Length, pc.First.Mass, pc.First.Angle)
	first.AngularVelocity = pc.First.Omega
	second := pendulum.NewSegment(pc.Second.Length, pc.Second.Mass, pc.Second.Angle)
	second.AngularVelocity = pc.Second.Omega

	return pendulum.New(first, second, pc.Gravity)
}
