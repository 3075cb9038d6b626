package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent from two copies
// of the same system. b is reset to a's state with component 0 shifted by
// d0; after every step the separation is measured, its log growth
// accumulated, and b pulled back to distance d0 along the same direction.
//
// λ ≈ Σ ln(|δx_k| / d0) / T
func LyapunovExponent(a, b dynamo.System, d0, dt, duration float64) (float64, error) {
	if !(d0 > 0) || !(dt > 0) || !(duration > 0) {
		return 0, fmt.Errorf("%w: d0, dt and duration must be positive", dynamo.ErrInvalidConfig)
	}

	x := a.State()
	if len(x) == 0 {
		return 0, fmt.Errorf("%w: empty state", dynamo.ErrDimensionMismatch)
	}

	xp := x.Clone()
	xp[0] += d0
	if err := b.SetState(xp); err != nil {
		return 0, err
	}

	steps := int(math.Round(duration / dt))
	sumLog := 0.0

	for i := 0; i < steps; i++ {
		a.Advance(dt)
		b.Advance(dt)

		x, xp = a.State(), b.State()
		sep := xp.Sub(x).Norm()
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, &dynamo.SimulationError{Step: i, Time: float64(i+1) * dt, State: xp, Wrapped: dynamo.ErrInvalidState}
		}
		if sep == 0 {
			continue
		}

		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for j := range xp {
			xp[j] = x[j] + (xp[j]-x[j])*scale
		}
		if err := b.SetState(xp); err != nil {
			return 0, err
		}
	}

	return sumLog / (float64(steps) * dt), nil
}
