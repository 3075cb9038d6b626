package gravity

import (
	"math"
	"math/rand"

	"github.com/san-kum/mechsim/internal/vec"
)

// RandomBodies scatters n resting bodies uniformly over a width×height box
// anchored at the origin. Masses fall in [1e9, 1.1e10). Identical rng seeds
// give identical bodies.
func RandomBodies(rng *rand.Rand, n int, width, height float64) []Body {
	bodies := make([]Body, n)
	for i := range bodies {
		m := rng.Float64()
		bodies[i] = Body{
			Pos:  vec.Vec{X: rng.Float64() * width, Y: rng.Float64() * height},
			Mass: m*1e10 + 1e9,
		}
	}
	return bodies
}

// Satellite returns a body on a circular orbit of the given radius around
// central, counter-clockwise, starting on central's +x side.
func Satellite(central Body, radius, mass, g float64) Body {
	speed := math.Sqrt(g * central.Mass / radius)
	return Body{
		Pos:  central.Pos.Add(vec.Vec{X: radius}),
		Vel:  central.Vel.Add(vec.Vec{Y: speed}),
		Mass: mass,
	}
}
