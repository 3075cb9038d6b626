// Package pendulum implements a planar double pendulum: two massive bobs on
// rigid massless rods attached in series to a fixed pivot at the origin.
//
// Angles are measured from the downward vertical; the y axis points up.
// Each step evaluates the closed-form angular accelerations of both segments
// from the pre-step state, then integrates each segment with
// ω += α·dt, θ += ω·dt and recomputes the bob positions.
package pendulum

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

// StandardGravity is g₀ in m/s².
const StandardGravity = 9.80665

type Segment struct {
	Length float64
	Mass   float64

	Angle               float64
	AngularVelocity     float64
	AngularAcceleration float64 // last computed

	// Pos is the bob position, derived from Angle and the parent pivot.
	Pos vec.Vec
}

func NewSegment(length, mass, startAngle float64) Segment {
	return Segment{Length: length, Mass: mass, Angle: startAngle}
}

func (s Segment) validate(name string) error {
	if !(s.Length > 0) || math.IsInf(s.Length, 0) {
		return fmt.Errorf("%w: %s segment length must be positive, got %g", dynamo.ErrParameterBounds, name, s.Length)
	}
	if !(s.Mass > 0) || math.IsInf(s.Mass, 0) {
		return fmt.Errorf("%w: %s segment mass must be positive, got %g", dynamo.ErrParameterBounds, name, s.Mass)
	}
	return nil
}

type System struct {
	first, second Segment
	gravity       float64

	time  float64
	steps int
}

func New(first, second Segment, gravity float64) (*System, error) {
	if err := first.validate("first"); err != nil {
		return nil, err
	}
	if err := second.validate("second"); err != nil {
		return nil, err
	}
	if math.IsNaN(gravity) || math.IsInf(gravity, 0) {
		return nil, fmt.Errorf("%w: gravity must be finite, got %g", dynamo.ErrParameterBounds, gravity)
	}

	s := &System{first: first, second: second, gravity: gravity}
	s.updatePositions()
	return s, nil
}

func (s *System) First() Segment   { return s.first }
func (s *System) Second() Segment  { return s.second }
func (s *System) Gravity() float64 { return s.gravity }
func (s *System) Time() float64    { return s.time }
func (s *System) Steps() int       { return s.steps }

// Pivot returns the attachment point of segment i (0 or 1).
func (s *System) Pivot(i int) vec.Vec {
	if i == 0 {
		return vec.Zero
	}
	return s.first.Pos
}

// Accelerations evaluates the angular accelerations of both segments for
// the current angles and angular velocities without changing any state.
//
// The denominator D1 = l1·(m1 + m2·sin²Δ) only vanishes as m1 → 0; near
// that limit the result grows without bound and is returned as is.
func (s *System) Accelerations() (a1, a2 float64) {
	return accelerations(&s.first, &s.second, s.gravity)
}

func accelerations(p, q *Segment, g float64) (a1, a2 float64) {
	m1, m2 := p.Mass, q.Mass
	l1, l2 := p.Length, q.Length
	th1, th2 := p.Angle, q.Angle
	w1, w2 := p.AngularVelocity, q.AngularVelocity

	delta := th2 - th1
	sinD, cosD := math.Sin(delta), math.Cos(delta)
	sin1, sin2 := math.Sin(th1), math.Sin(th2)

	mt := m1 + m2
	den1 := mt*l1 - m2*l1*cosD*cosD
	den2 := (l2 / l1) * den1

	a1 = (m2*l1*w1*w1*sinD*cosD +
		m2*g*sin2*cosD +
		m2*l2*w2*w2*sinD -
		mt*g*sin1) / den1

	a2 = (-m2*l2*w2*w2*sinD*cosD +
		mt*g*sin1*cosD -
		mt*l1*w1*w1*sinD -
		mt*g*sin2) / den2

	return a1, a2
}

// Advance moves both segments forward by dt. Both accelerations are taken
// from the pre-step state before either segment is touched.
func (s *System) Advance(dt float64) {
	a1, a2 := accelerations(&s.first, &s.second, s.gravity)

	integrate(&s.first, a1, dt)
	integrate(&s.second, a2, dt)
	s.updatePositions()

	s.time += dt
	s.steps++
}

func integrate(seg *Segment, acc, dt float64) {
	seg.AngularAcceleration = acc
	seg.AngularVelocity += acc * dt
	seg.Angle += seg.AngularVelocity * dt
}

func (s *System) updatePositions() {
	s.first.Pos = bob(vec.Zero, &s.first)
	s.second.Pos = bob(s.first.Pos, &s.second)
}

func bob(pivot vec.Vec, seg *Segment) vec.Vec {
	return vec.Vec{
		X: pivot.X + seg.Length*math.Sin(seg.Angle),
		Y: pivot.Y - seg.Length*math.Cos(seg.Angle),
	}
}

// Energy is the total mechanical energy with the pivot as the zero of
// potential energy.
func (s *System) Energy() float64 {
	m1, m2 := s.first.Mass, s.second.Mass
	l1, l2 := s.first.Length, s.second.Length
	w1, w2 := s.first.AngularVelocity, s.second.AngularVelocity
	g := s.gravity

	v1sq := l1 * l1 * w1 * w1
	v2sq := l1*l1*w1*w1 + l2*l2*w2*w2 +
		2*l1*l2*w1*w2*math.Cos(s.first.Angle-s.second.Angle)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	pe := m1*g*s.first.Pos.Y + m2*g*s.second.Pos.Y

	return ke + pe
}
