package pendulum

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// State is [θ1, θ2, ω1, ω2].
func (s *System) State() dynamo.State {
	return dynamo.State{
		s.first.Angle, s.second.Angle,
		s.first.AngularVelocity, s.second.AngularVelocity,
	}
}

func (s *System) SetState(x dynamo.State) error {
	if len(x) != 4 {
		return fmt.Errorf("%w: want 4 values, got %d", dynamo.ErrDimensionMismatch, len(x))
	}
	s.first.Angle, s.second.Angle = x[0], x[1]
	s.first.AngularVelocity, s.second.AngularVelocity = x[2], x[3]
	s.first.AngularAcceleration, s.second.AngularAcceleration = 0, 0
	s.updatePositions()
	return nil
}

func (s *System) StateLabels() []string {
	return []string{"theta1", "theta2", "omega1", "omega2"}
}
