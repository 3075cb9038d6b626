package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/mechsim/internal/vec"
)

// Trail is a bounded history of positions, oldest first.
type Trail struct {
	max    int
	points []vec.Vec
}

func NewTrail(max int) *Trail {
	return &Trail{max: max, points: make([]vec.Vec, 0, max)}
}

func (t *Trail) Push(p vec.Vec) {
	if t.max <= 0 || !p.IsFinite() {
		return
	}
	if len(t.points) == t.max {
		copy(t.points, t.points[1:])
		t.points = t.points[:t.max-1]
	}
	t.points = append(t.points, p)
}

func (t *Trail) Len() int          { return len(t.points) }
func (t *Trail) Points() []vec.Vec { return t.points }
func (t *Trail) Reset()            { t.points = t.points[:0] }

// Draw plots the trail, thinning the older half so it fades out.
func (t *Trail) Draw(c *Canvas, v View, color, faded lipgloss.Color) {
	n := len(t.points)
	for i, p := range t.points {
		x, y := v.Project(p)
		if i < n/2 {
			if i%2 == 0 {
				c.SetColor(x, y, faded)
			}
			continue
		}
		c.SetColor(x, y, color)
	}
}
