package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/mechsim/internal/dynamo"
)

type Point struct {
	X, Y float64
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// PhasePortrait is the projection of a recorded trajectory onto two state
// components.
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait projects states onto components xIdx and yIdx. Samples
// with a non-finite coordinate are skipped.
func NewPhasePortrait(states []dynamo.State, xIdx, yIdx int) (*PhasePortrait, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("no states recorded")
	}
	if err := checkIndex(len(states[0]), xIdx, yIdx); err != nil {
		return nil, err
	}

	portrait := &PhasePortrait{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(states)),
	}
	for _, x := range states {
		p := Point{X: x[xIdx], Y: x[yIdx]}
		if p.finite() {
			portrait.Points = append(portrait.Points, p)
		}
	}

	return portrait, nil
}

func checkIndex(dim int, idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= dim {
			return fmt.Errorf("%w: component %d out of range for %d-dimensional state", dynamo.ErrDimensionMismatch, i, dim)
		}
	}
	return nil
}

// PoincareSection returns the (xIdx, yIdx) projection at every upward
// crossing of level by component crossIdx, linearly interpolated between the
// two samples that bracket the crossing.
func PoincareSection(states []dynamo.State, crossIdx int, level float64, xIdx, yIdx int) ([]Point, error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("no states recorded")
	}
	if err := checkIndex(len(states[0]), crossIdx, xIdx, yIdx); err != nil {
		return nil, err
	}

	points := make([]Point, 0)
	for i := 1; i < len(states); i++ {
		prev, curr := states[i-1], states[i]
		if !(prev[crossIdx] < level && curr[crossIdx] >= level) {
			continue
		}

		frac := (level - prev[crossIdx]) / (curr[crossIdx] - prev[crossIdx])
		p := Point{
			X: prev[xIdx] + frac*(curr[xIdx]-prev[xIdx]),
			Y: prev[yIdx] + frac*(curr[yIdx]-prev[yIdx]),
		}
		if p.finite() {
			points = append(points, p)
		}
	}

	return points, nil
}

// PhasePortraitToASCII rasterises the portrait with 10% padding and draws
// the axes where they fall inside the view.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil {
		return ""
	}
	return PointsToASCII(portrait.Points, width, height)
}

func PointsToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
