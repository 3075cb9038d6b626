package viz

import (
	"math"

	"github.com/san-kum/mechsim/internal/vec"
)

// View maps simulation coordinates onto canvas sub-pixels. Center lands in
// the middle of the canvas and one simulation unit spans Scale sub-pixels.
type View struct {
	Center vec.Vec
	Scale  float64
	W, H   int
}

func NewView(c *Canvas) View {
	return View{Scale: 1, W: c.SubWidth(), H: c.SubHeight()}
}

// Project flips y so that simulation "up" is screen "up".
func (v View) Project(p vec.Vec) (int, int) {
	x := float64(v.W)/2 + (p.X-v.Center.X)*v.Scale
	y := float64(v.H)/2 - (p.Y-v.Center.Y)*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

// Fit scales the view so a disc of radius extent around Center fills the
// shorter canvas side with a small margin.
func (v *View) Fit(extent float64) {
	if !(extent > 0) || math.IsInf(extent, 0) {
		return
	}
	half := float64(min(v.W, v.H)) / 2
	v.Scale = half / (extent * 1.1)
}

func (v *View) Zoom(factor float64) {
	if factor > 0 {
		v.Scale *= factor
	}
}
