package export

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/san-kum/mechsim/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const dpi = 150

// Series is one named curve in the plane.
type Series struct {
	Name   string
	Points []analysis.Point
}

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Tick.Marker = limitedTicker(8, "%.3g")
	p.Y.Tick.Marker = limitedTicker(8, "%.3g")
	p.Add(plotter.NewGrid())
	return p
}

// xys drops non-finite samples, which plotter rejects.
func xys(points []analysis.Point) plotter.XYs {
	out := make(plotter.XYs, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		out = append(out, plotter.XY{X: p.X, Y: p.Y})
	}
	return out
}

// TrajectoryPNG draws every series as a line on equal axes.
func TrajectoryPNG(path, title string, series []Series) error {
	p := newPlot(title, "x", "y")

	drawn := 0
	for i, s := range series {
		pts := xys(s.Points)
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
		drawn++
	}
	if drawn == 0 {
		return fmt.Errorf("nothing to plot")
	}

	equalAxes(p)
	return savePNG(p, 6, 6, path)
}

// equalAxes widens the shorter axis so one unit has the same length on both.
func equalAxes(p *plot.Plot) {
	dx := p.X.Max - p.X.Min
	dy := p.Y.Max - p.Y.Min
	if dx > dy {
		mid := (p.Y.Max + p.Y.Min) / 2
		p.Y.Min, p.Y.Max = mid-dx/2, mid+dx/2
	} else {
		mid := (p.X.Max + p.X.Min) / 2
		p.X.Min, p.X.Max = mid-dy/2, mid+dy/2
	}
}

// TimeSeriesPNG draws y against t.
func TimeSeriesPNG(path, title, ylabel string, t, y []float64) error {
	if len(t) != len(y) || len(t) == 0 {
		return fmt.Errorf("plot data invalid: %d times, %d values", len(t), len(y))
	}

	points := make([]analysis.Point, len(t))
	for i := range t {
		points[i] = analysis.Point{X: t[i], Y: y[i]}
	}
	pts := xys(points)
	if len(pts) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	p := newPlot(title, "time (s)", ylabel)
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	return savePNG(p, 8, 4, path)
}

func savePNG(p *plot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
