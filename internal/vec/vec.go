// Package vec provides the 2D vector value type shared by the simulators.
package vec

import "math"

type Vec struct {
	X, Y float64
}

var Zero = Vec{}

func Add(a, b Vec) Vec {
	return Vec{a.X + b.X, a.Y + b.Y}
}

func Scale(v Vec, k float64) Vec {
	return Vec{v.X * k, v.Y * k}
}

func (v Vec) Add(w Vec) Vec       { return Add(v, w) }
func (v Vec) Scale(k float64) Vec { return Scale(v, k) }
func (v Vec) Sub(w Vec) Vec       { return Vec{v.X - w.X, v.Y - w.Y} }
func (v Vec) Neg() Vec            { return Vec{-v.X, -v.Y} }
func (v Vec) Dot(w Vec) float64   { return v.X*w.X + v.Y*w.Y }

func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
