package export

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/analysis"
	"github.com/san-kum/mechsim/internal/dynamo"
)

// BodyPaths splits recorded gravity states ([x, y, vx, vy] per body) into
// one position series per body.
func BodyPaths(states []dynamo.State) ([]Series, error) {
	if len(states) == 0 {
		return nil, nil
	}
	dim := len(states[0])
	if dim%4 != 0 {
		return nil, fmt.Errorf("%w: gravity state length %d is not a multiple of 4", dynamo.ErrDimensionMismatch, dim)
	}

	series := make([]Series, dim/4)
	for i := range series {
		series[i] = Series{Name: fmt.Sprintf("body %d", i), Points: make([]analysis.Point, 0, len(states))}
	}
	for _, x := range states {
		for i := range series {
			series[i].Points = append(series[i].Points, analysis.Point{X: x[4*i], Y: x[4*i+1]})
		}
	}
	return series, nil
}

// BobPaths rebuilds both bob paths of a double pendulum from recorded
// [θ1, θ2, ω1, ω2] states.
func BobPaths(states []dynamo.State, l1, l2 float64) ([]Series, error) {
	first := Series{Name: "bob 1", Points: make([]analysis.Point, 0, len(states))}
	second := Series{Name: "bob 2", Points: make([]analysis.Point, 0, len(states))}

	for _, x := range states {
		if len(x) != 4 {
			return nil, fmt.Errorf("%w: pendulum state length %d", dynamo.ErrDimensionMismatch, len(x))
		}
		p1 := analysis.Point{X: l1 * math.Sin(x[0]), Y: -l1 * math.Cos(x[0])}
		p2 := analysis.Point{X: p1.X + l2*math.Sin(x[1]), Y: p1.Y - l2*math.Cos(x[1])}
		first.Points = append(first.Points, p1)
		second.Points = append(second.Points, p2)
	}
	return []Series{first, second}, nil
}
