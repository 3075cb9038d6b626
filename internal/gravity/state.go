package gravity

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// State flattens the bodies as [x0, y0, vx0, vy0, x1, ...].
func (s *Simulator) State() dynamo.State {
	x := make(dynamo.State, len(s.bodies)*4)
	for i, b := range s.bodies {
		x[i*4] = b.Pos.X
		x[i*4+1] = b.Pos.Y
		x[i*4+2] = b.Vel.X
		x[i*4+3] = b.Vel.Y
	}
	return x
}

// SetState overwrites positions and velocities. Masses are unchanged.
func (s *Simulator) SetState(x dynamo.State) error {
	if len(x) != len(s.bodies)*4 {
		return fmt.Errorf("%w: want %d values, got %d", dynamo.ErrDimensionMismatch, len(s.bodies)*4, len(x))
	}
	for i := range s.bodies {
		b := &s.bodies[i]
		b.Pos.X, b.Pos.Y = x[i*4], x[i*4+1]
		b.Vel.X, b.Vel.Y = x[i*4+2], x[i*4+3]
	}
	s.forces = nil
	return nil
}

func (s *Simulator) StateLabels() []string {
	labels := make([]string, 0, len(s.bodies)*4)
	for i := range s.bodies {
		labels = append(labels,
			fmt.Sprintf("x%d", i),
			fmt.Sprintf("y%d", i),
			fmt.Sprintf("vx%d", i),
			fmt.Sprintf("vy%d", i),
		)
	}
	return labels
}
