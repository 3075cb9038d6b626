package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// SweepPoint holds the distinct values one component visited after the
// transient for a single parameter value.
type SweepPoint struct {
	Param  float64
	Values []float64
}

// Sweep builds one system per parameter, lets it settle for transient and
// then collects the distinct values of component idx over record, quantised
// to 1e-3. It is the initial-condition analogue of a bifurcation diagram.
func Sweep(
	ctx context.Context,
	build func(param float64) (dynamo.System, error),
	params []float64,
	idx int,
	dt, transient, record float64,
) ([]SweepPoint, error) {
	if !(dt > 0) || transient < 0 || !(record > 0) {
		return nil, fmt.Errorf("%w: dt and record must be positive, transient non-negative", dynamo.ErrInvalidConfig)
	}

	settle := int(math.Round(transient / dt))
	samples := int(math.Round(record / dt))
	results := make([]SweepPoint, 0, len(params))

	for _, param := range params {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		sys, err := build(param)
		if err != nil {
			return results, fmt.Errorf("param %g: %w", param, err)
		}
		if err := checkIndex(len(sys.State()), idx); err != nil {
			return results, err
		}

		for i := 0; i < settle; i++ {
			sys.Advance(dt)
		}

		values := make([]float64, 0, 100)
		seen := make(map[int64]bool)
		for i := 0; i < samples; i++ {
			sys.Advance(dt)
			val := sys.State()[idx]
			if math.IsNaN(val) || math.IsInf(val, 0) {
				break
			}
			key := int64(math.Round(val * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, val)
			}
		}

		results = append(results, SweepPoint{Param: param, Values: values})
	}

	return results, nil
}

func SweepToASCII(data []SweepPoint, width, height int) string {
	points := make([]Point, 0)
	for _, p := range data {
		for _, v := range p.Values {
			points = append(points, Point{X: p.Param, Y: v})
		}
	}
	return PointsToASCII(points, width, height)
}
