package metrics

import (
	"math"

	"github.com/san-kum/mechsim/internal/dynamo"
	"github.com/san-kum/mechsim/internal/vec"
)

type MomentumComputer interface {
	Momentum() vec.Vec
}

// MomentumDrift tracks the largest change in total linear momentum since the
// first observation. For an isolated system it stays at rounding level.
type MomentumDrift struct {
	name     string
	sys      MomentumComputer
	initial  vec.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift(sys MomentumComputer) *MomentumDrift {
	return &MomentumDrift{
		name: "momentum_drift",
		sys:  sys,
	}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(x dynamo.State, t float64) {
	p := m.sys.Momentum()
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = vec.Zero
	m.maxDrift = 0
	m.samples = 0
}
