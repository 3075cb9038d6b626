package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/gravity"
	"github.com/san-kum/mechsim/internal/pendulum"
	"github.com/san-kum/mechsim/internal/vec"
)

// Drawer draws the current state of one kind of system.
type Drawer interface {
	// Observe is called after every step to extend trails.
	Observe()
	Draw(c *Canvas, v View, theme Theme)
	// Focus is the point the view is centred on.
	Focus() vec.Vec
	// Extent is the radius around Focus that should fit on screen.
	Extent() float64
	Reset()
}

// NewDrawer picks the drawer for sys.
func NewDrawer(sys dynamo.System, trailLength int) (Drawer, error) {
	switch s := sys.(type) {
	case *gravity.Simulator:
		return NewGravityDrawer(s, trailLength), nil
	case *pendulum.System:
		return NewPendulumDrawer(s, trailLength), nil
	default:
		return nil, fmt.Errorf("no drawer for %T", sys)
	}
}

type GravityDrawer struct {
	sim    *gravity.Simulator
	trails []*Trail
}

func NewGravityDrawer(sim *gravity.Simulator, trailLength int) *GravityDrawer {
	d := &GravityDrawer{sim: sim, trails: make([]*Trail, sim.Len())}
	for i := range d.trails {
		d.trails[i] = NewTrail(trailLength)
	}
	return d
}

func (d *GravityDrawer) Observe() {
	for i, tr := range d.trails {
		tr.Push(d.sim.Body(i).Pos)
	}
}

func (d *GravityDrawer) Reset() {
	for _, tr := range d.trails {
		tr.Reset()
	}
}

// Focus is the centre of mass.
func (d *GravityDrawer) Focus() vec.Vec {
	var sum vec.Vec
	total := 0.0
	for _, b := range d.sim.Bodies() {
		sum = sum.Add(b.Pos.Scale(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return vec.Zero
	}
	return sum.Scale(1 / total)
}

func (d *GravityDrawer) Extent() float64 {
	focus := d.Focus()
	extent := 0.0
	for _, b := range d.sim.Bodies() {
		extent = math.Max(extent, b.Pos.Sub(focus).Len())
	}
	if extent == 0 {
		return 1
	}
	return extent
}

func (d *GravityDrawer) Draw(c *Canvas, v View, theme Theme) {
	bodies := d.sim.Bodies()
	if len(bodies) == 0 {
		return
	}

	lightest := bodies[0].Mass
	for _, b := range bodies {
		lightest = math.Min(lightest, b.Mass)
	}

	for i, tr := range d.trails {
		tr.Draw(c, v, theme.EntityColor(i), theme.Muted)
	}
	for i, b := range bodies {
		if !b.Pos.IsFinite() {
			continue
		}
		x, y := v.Project(b.Pos)
		c.DrawDisc(x, y, bodyRadius(b.Mass, lightest), theme.EntityColor(i))
	}
}

// bodyRadius grows by one sub-pixel per two decades of mass above the
// lightest body, up to 3.
func bodyRadius(mass, lightest float64) int {
	r := 1 + int(math.Round(math.Log10(mass/lightest)/2))
	return min(r, 3)
}

type PendulumDrawer struct {
	sys   *pendulum.System
	trail *Trail
}

func NewPendulumDrawer(sys *pendulum.System, trailLength int) *PendulumDrawer {
	return &PendulumDrawer{sys: sys, trail: NewTrail(trailLength)}
}

func (d *PendulumDrawer) Observe()        { d.trail.Push(d.sys.Second().Pos) }
func (d *PendulumDrawer) Reset()          { d.trail.Reset() }
func (d *PendulumDrawer) Focus() vec.Vec  { return vec.Zero }
func (d *PendulumDrawer) Extent() float64 { return d.sys.First().Length + d.sys.Second().Length }

func (d *PendulumDrawer) Draw(c *Canvas, v View, theme Theme) {
	first, second := d.sys.First(), d.sys.Second()

	d.trail.Draw(c, v, theme.EntityColor(1), theme.Muted)

	px, py := v.Project(vec.Zero)
	x1, y1 := v.Project(first.Pos)
	x2, y2 := v.Project(second.Pos)

	c.DrawDisc(px, py, 1, theme.Muted)
	if first.Pos.IsFinite() {
		c.DrawLine(px, py, x1, y1, theme.Rod)
	}
	if first.Pos.IsFinite() && second.Pos.IsFinite() {
		c.DrawLine(x1, y1, x2, y2, theme.Rod)
	}

	r1, r2 := 1, 1
	if first.Mass > second.Mass {
		r1 = 2
	} else if second.Mass > first.Mass {
		r2 = 2
	}
	if first.Pos.IsFinite() {
		c.DrawDisc(x1, y1, r1, theme.EntityColor(0))
	}
	if second.Pos.IsFinite() {
		c.DrawDisc(x2, y2, r2, theme.EntityColor(1))
	}
}
