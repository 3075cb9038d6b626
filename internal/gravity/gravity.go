// Package gravity implements an exact pairwise N-body Newtonian gravity
// simulator advanced with semi-implicit Euler.
//
// The simulator owns an ordered list of bodies. Every step computes the net
// force on each body by visiting each unordered pair once and applying the
// result with opposite signs to both members, then updates velocity before
// position. Coincident bodies produce NaN/Inf forces; the simulator does not
// guard against them and the values propagate through later steps.
package gravity

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

// G is the gravitational constant in m³ kg⁻¹ s⁻².
const G = 6.6743e-11

type Body struct {
	Pos  vec.Vec
	Vel  vec.Vec
	Mass float64
}

type Simulator struct {
	// G is the gravitational constant used for force evaluation.
	G float64

	bodies []Body
	forces []vec.Vec
	time   float64
	steps  int
}

// New returns a simulator owning a copy of bodies. Every mass must be finite
// and strictly positive.
func New(bodies []Body) (*Simulator, error) {
	for i, b := range bodies {
		if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
			return nil, fmt.Errorf("%w: body %d mass must be positive, got %g", dynamo.ErrParameterBounds, i, b.Mass)
		}
	}

	owned := make([]Body, len(bodies))
	copy(owned, bodies)

	return &Simulator{
		G:      G,
		bodies: owned,
	}, nil
}

func (s *Simulator) Len() int        { return len(s.bodies) }
func (s *Simulator) Body(i int) Body { return s.bodies[i] }
func (s *Simulator) Time() float64   { return s.time }
func (s *Simulator) Steps() int      { return s.steps }

func (s *Simulator) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// ComputeForces returns the net force on every body, aligned by index.
func (s *Simulator) ComputeForces() []vec.Vec {
	n := len(s.bodies)
	forces := make([]vec.Vec, n)

	for i := 0; i < n; i++ {
		bi := &s.bodies[i]
		for j := i + 1; j < n; j++ {
			bj := &s.bodies[j]

			f := pairForce(s.G, bi, bj)
			forces[i] = forces[i].Add(f)
			forces[j] = forces[j].Add(f.Neg())
		}
	}

	return forces
}

// pairForce is the attraction on a toward b.
func pairForce(g float64, a, b *Body) vec.Vec {
	dx := b.Pos.X - a.Pos.X
	dy := b.Pos.Y - a.Pos.Y
	r := math.Sqrt(dx*dx + dy*dy)

	f := g * a.Mass * b.Mass / (r * r)
	return vec.Vec{X: f * dx / r, Y: f * dy / r}
}

// Advance moves every body forward by dt: velocity from the current forces
// first, then position from the new velocity.
func (s *Simulator) Advance(dt float64) {
	forces := s.ComputeForces()

	for i := range s.bodies {
		b := &s.bodies[i]
		acc := vec.Vec{X: forces[i].X / b.Mass, Y: forces[i].Y / b.Mass}
		b.Vel = b.Vel.Add(acc.Scale(dt))
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	}

	s.forces = forces
	s.time += dt
	s.steps++
}

// Forces returns the forces computed by the last Advance, or nil before the
// first step.
func (s *Simulator) Forces() []vec.Vec {
	if s.forces == nil {
		return nil
	}
	out := make([]vec.Vec, len(s.forces))
	copy(out, s.forces)
	return out
}

func (s *Simulator) Momentum() vec.Vec {
	var p vec.Vec
	for _, b := range s.bodies {
		p = p.Add(b.Vel.Scale(b.Mass))
	}
	return p
}

func (s *Simulator) Energy() float64 {
	ke, pe := 0.0, 0.0
	for i, bi := range s.bodies {
		ke += 0.5 * bi.Mass * bi.Vel.Dot(bi.Vel)
		for j := i + 1; j < len(s.bodies); j++ {
			bj := s.bodies[j]
			r := bj.Pos.Sub(bi.Pos).Len()
			pe -= s.G * bi.Mass * bj.Mass / r
		}
	}
	return ke + pe
}

// AngularMomentum is the total z component of r×p about the origin.
func (s *Simulator) AngularMomentum() float64 {
	l := 0.0
	for _, b := range s.bodies {
		l += b.Mass * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	}
	return l
}
