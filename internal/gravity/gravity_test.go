package gravity

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

func earthMoon() []Body {
	return []Body{
		{Pos: vec.Vec{X: 0, Y: 0}, Mass: 5.972e24},
		{Pos: vec.Vec{X: 6.371e6, Y: 0}, Vel: vec.Vec{X: 0, Y: 7.12e3}, Mass: 7.342e22},
	}
}

func TestNewRejectsInvalidMass(t *testing.T) {
	tests := []struct {
		name string
		mass float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodies := []Body{{Mass: 1}, {Pos: vec.Vec{X: 1}, Mass: tt.mass}}
			_, err := New(bodies)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestNewCopiesBodies(t *testing.T) {
	bodies := earthMoon()
	s, err := New(bodies)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	bodies[0].Mass = 1
	if s.Body(0).Mass != 5.972e24 {
		t.Error("simulator shares the caller's slice")
	}

	s.Advance(1)
	if bodies[1].Pos.Y != 0 {
		t.Error("advance mutated the caller's slice")
	}
}

func TestForceSymmetry(t *testing.T) {
	s, err := New(earthMoon())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	for step := 0; step < 100; step++ {
		f := s.ComputeForces()
		if f[0] != f[1].Neg() {
			t.Fatalf("step %d: force[0]=%v, force[1]=%v", step, f[0], f[1])
		}
		s.Advance(10)
	}
}

func TestForceMagnitude(t *testing.T) {
	s, _ := New([]Body{
		{Pos: vec.Vec{X: 0, Y: 0}, Mass: 2},
		{Pos: vec.Vec{X: 3, Y: 4}, Mass: 5},
	})
	s.G = 1

	f := s.ComputeForces()
	want := 2.0 * 5.0 / 25.0
	if math.Abs(f[0].Len()-want) > 1e-12 {
		t.Errorf("expected magnitude %v, got %v", want, f[0].Len())
	}
	// attractive: body 0 pulled toward body 1
	if f[0].X <= 0 || f[0].Y <= 0 {
		t.Errorf("expected force toward (3,4), got %v", f[0])
	}
	if math.Abs(f[0].X/f[0].Y-0.75) > 1e-12 {
		t.Errorf("force not along separation: %v", f[0])
	}
}

func TestNetForceSumsToZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s, err := New(RandomBodies(rng, 12, 100, 100))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	var sum vec.Vec
	var scale float64
	for _, f := range s.ComputeForces() {
		sum = sum.Add(f)
		scale = math.Max(scale, f.Len())
	}
	if sum.Len() > scale*1e-12 {
		t.Errorf("net force %v not zero (scale %v)", sum, scale)
	}
}

func TestEmptyAndSingleBody(t *testing.T) {
	tests := []struct {
		name   string
		bodies []Body
	}{
		{"empty", nil},
		{"single", []Body{{Pos: vec.Vec{X: 1, Y: 2}, Vel: vec.Vec{X: 3, Y: -1}, Mass: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.bodies)
			if err != nil {
				t.Fatalf("new failed: %v", err)
			}

			for step := 0; step < 10; step++ {
				for i, f := range s.ComputeForces() {
					if f != vec.Zero {
						t.Errorf("body %d: expected zero force, got %v", i, f)
					}
				}
				s.Advance(0.5)
			}

			for i, b := range s.Bodies() {
				if b.Vel != tt.bodies[i].Vel {
					t.Errorf("body %d: velocity changed to %v", i, b.Vel)
				}
			}
		})
	}
}

func TestMomentumConserved(t *testing.T) {
	s, _ := New(earthMoon())
	p0 := s.Momentum()

	for i := 0; i < 1000; i++ {
		s.Advance(1)
	}

	p1 := s.Momentum()
	scale := 7.342e22 * 7.12e3
	if p1.Sub(p0).Len() > scale*1e-9 {
		t.Errorf("momentum drifted from %v to %v", p0, p1)
	}
}

func TestAngularMomentumConserved(t *testing.T) {
	s, _ := New(earthMoon())
	l0 := s.AngularMomentum()
	if l0 == 0 {
		t.Fatal("expected non-zero angular momentum")
	}

	for i := 0; i < 1000; i++ {
		s.Advance(1)
	}

	if l1 := s.AngularMomentum(); math.Abs((l1-l0)/l0) > 1e-9 {
		t.Errorf("angular momentum drifted from %g to %g", l0, l1)
	}
}

func TestEarthMoonStep(t *testing.T) {
	s, _ := New(earthMoon())
	s.Advance(1)

	a := s.Body(0)
	if !(a.Vel.X > 0) {
		t.Errorf("expected body A pulled toward B, vx=%v", a.Vel.X)
	}
	if a.Vel.Y != 0 {
		t.Errorf("expected no y velocity on A, got %v", a.Vel.Y)
	}

	b := s.Body(1)
	if math.Abs(b.Pos.Y-7.12e3) > 1 {
		t.Errorf("expected B to advance ~7.12e3 in y, got %v", b.Pos.Y)
	}
	if !(b.Pos.X < 6.371e6) {
		t.Errorf("expected B pulled toward A, x=%v", b.Pos.X)
	}

	// semi-implicit: position moved by the updated velocity
	if math.Abs((b.Pos.X-6.371e6)-b.Vel.X) > 1e-6 {
		t.Errorf("position update does not use new velocity: dx=%v vx=%v", b.Pos.X-6.371e6, b.Vel.X)
	}
}

func TestForcesRecorded(t *testing.T) {
	s, _ := New(earthMoon())
	if s.Forces() != nil {
		t.Error("expected nil forces before the first step")
	}

	want := s.ComputeForces()
	s.Advance(1)
	got := s.Forces()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Forces() = %v, want %v", got, want)
	}

	got[0] = vec.Zero
	if s.Forces()[0] == vec.Zero {
		t.Error("Forces() exposes internal storage")
	}
}

func TestCoincidentBodiesPropagateNonFinite(t *testing.T) {
	s, _ := New([]Body{{Mass: 1}, {Mass: 1}})
	s.Advance(1)

	if s.State().IsValid() {
		t.Error("expected non-finite state for coincident bodies")
	}
}

func TestHalfStepConvergence(t *testing.T) {
	run := func(dt float64, steps int) vec.Vec {
		s, _ := New([]Body{
			{Mass: 1000},
			Satellite(Body{Mass: 1000}, 10, 1, 1),
		})
		s.G = 1
		for i := 0; i < steps; i++ {
			s.Advance(dt)
		}
		return s.Body(1).Pos
	}

	prev := math.Inf(1)
	for _, dt := range []float64{0.01, 0.005, 0.0025} {
		diff := run(dt, 1).Sub(run(dt/2, 2)).Len()
		if diff > 10*dt*dt*10 {
			t.Errorf("dt=%v: one-step vs two-half-step diff %v not O(dt^2)", dt, diff)
		}
		if diff >= prev {
			t.Errorf("dt=%v: difference %v did not shrink (previous %v)", dt, diff, prev)
		}
		prev = diff
	}
}

func TestDeterminism(t *testing.T) {
	a, _ := New(RandomBodies(rand.New(rand.NewSource(3)), 8, 50, 50))
	b, _ := New(RandomBodies(rand.New(rand.NewSource(3)), 8, 50, 50))

	for i := 0; i < 200; i++ {
		a.Advance(0.01)
		b.Advance(0.01)
	}

	xa, xb := a.State(), b.State()
	for i := range xa {
		if xa[i] != xb[i] {
			t.Fatalf("state[%d] differs: %v vs %v", i, xa[i], xb[i])
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	s, _ := New(earthMoon())
	x := s.State()
	if len(x) != 8 || len(s.StateLabels()) != 8 {
		t.Fatalf("unexpected dimensions: %d values, %d labels", len(x), len(s.StateLabels()))
	}

	s.Advance(5)
	if err := s.SetState(x); err != nil {
		t.Fatalf("set state failed: %v", err)
	}
	if s.Body(1).Pos != (vec.Vec{X: 6.371e6}) {
		t.Errorf("state not restored: %v", s.Body(1).Pos)
	}

	if err := s.SetState(x[:3]); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCircularOrbitEnergy(t *testing.T) {
	central := Body{Mass: 1000}
	s, _ := New([]Body{central, Satellite(central, 10, 1e-3, 1)})
	s.G = 1

	e0 := s.Energy()
	for i := 0; i < 5000; i++ {
		s.Advance(0.001)
	}

	if drift := math.Abs((s.Energy() - e0) / e0); drift > 5e-3 {
		t.Errorf("energy drift %v too large for symplectic integration", drift)
	}
	if r := s.Body(1).Pos.Sub(s.Body(0).Pos).Len(); math.Abs(r-10) > 0.1 {
		t.Errorf("orbit radius drifted to %v", r)
	}
}

func TestRandomBodiesDeterministic(t *testing.T) {
	a := RandomBodies(rand.New(rand.NewSource(42)), 5, 10, 20)
	b := RandomBodies(rand.New(rand.NewSource(42)), 5, 10, 20)

	for i := range a {
		if a[i] != b[i] {
			t.Errorf("body %d differs: %v vs %v", i, a[i], b[i])
		}
		if a[i].Mass < 1e9 || a[i].Mass >= 1.1e10 {
			t.Errorf("body %d mass %v out of range", i, a[i].Mass)
		}
		if a[i].Pos.X < 0 || a[i].Pos.X >= 10 || a[i].Pos.Y < 0 || a[i].Pos.Y >= 20 {
			t.Errorf("body %d position %v outside box", i, a[i].Pos)
		}
	}
}

func BenchmarkComputeForces32(b *testing.B) {
	s, _ := New(RandomBodies(rand.New(rand.NewSource(1)), 32, 100, 100))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ComputeForces()
	}
}

func BenchmarkAdvance32(b *testing.B) {
	s, _ := New(RandomBodies(rand.New(rand.NewSource(1)), 32, 100, 100))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Advance(1e-6)
	}
}
