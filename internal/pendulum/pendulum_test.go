package pendulum

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mechsim/internal/dynamo"
)

func unitPendulum(theta1, theta2 float64) *System {
	s, err := New(NewSegment(1, 1, theta1), NewSegment(1, 1, theta2), StandardGravity)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("System", func() {
	Describe("construction", func() {
		DescribeTable("rejects invalid segments",
			func(first, second Segment) {
				_, err := New(first, second, StandardGravity)
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("zero length", NewSegment(0, 1, 0), NewSegment(1, 1, 0)),
			Entry("negative length", NewSegment(1, 1, 0), NewSegment(-1, 1, 0)),
			Entry("zero mass", NewSegment(1, 0, 0), NewSegment(1, 1, 0)),
			Entry("negative mass", NewSegment(1, 1, 0), NewSegment(1, -2, 0)),
			Entry("nan length", NewSegment(math.NaN(), 1, 0), NewSegment(1, 1, 0)),
			Entry("infinite mass", NewSegment(1, 1, 0), NewSegment(1, math.Inf(1), 0)),
		)

		It("rejects non-finite gravity", func() {
			_, err := New(NewSegment(1, 1, 0), NewSegment(1, 1, 0), math.NaN())
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("derives bob positions from the start angles", func() {
			s, err := New(NewSegment(2, 1, math.Pi/2), NewSegment(1, 1, 0), StandardGravity)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.First().Pos.X).To(BeNumerically("~", 2, 1e-12))
			Expect(s.First().Pos.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(s.Second().Pos.X).To(BeNumerically("~", 2, 1e-12))
			Expect(s.Second().Pos.Y).To(BeNumerically("~", -1, 1e-12))
			Expect(s.Pivot(1)).To(Equal(s.First().Pos))
		})
	})

	Describe("rest state", func() {
		It("stays hanging straight down", func() {
			s := unitPendulum(0, 0)

			for i := 0; i < 1000; i++ {
				s.Advance(0.01)
			}

			Expect(s.State()).To(Equal(dynamo.State{0, 0, 0, 0}))
			a1, a2 := s.Accelerations()
			Expect(a1).To(BeZero())
			Expect(a2).To(BeZero())
		})
	})

	Describe("released from horizontal", func() {
		var s *System

		BeforeEach(func() {
			s = unitPendulum(math.Pi/2, math.Pi/2)
			s.Advance(0.001)
		})

		It("falls back toward the vertical", func() {
			a1, a2 := s.Accelerations()
			Expect(a1).To(BeNumerically("<", 0))
			Expect(a2).To(BeNumerically("<", 0))

			Expect(s.First().AngularVelocity).To(BeNumerically("<", 0))
			Expect(s.First().Angle).To(BeNumerically("<", math.Pi/2))
		})

		It("caches the accelerations of the pre-step state", func() {
			Expect(s.First().AngularAcceleration).To(BeNumerically("~", -StandardGravity, 1e-12))
			Expect(s.Second().AngularAcceleration).To(BeNumerically("~", 0, 1e-12))
		})

		It("places the bobs from the new angles", func() {
			p, q := s.First(), s.Second()

			Expect(p.Pos.X).To(Equal(math.Sin(p.Angle)))
			Expect(p.Pos.Y).To(Equal(-math.Cos(p.Angle)))
			Expect(q.Pos.X).To(BeNumerically("~", p.Pos.X+math.Sin(q.Angle), 1e-15))
			Expect(q.Pos.Y).To(BeNumerically("~", p.Pos.Y-math.Cos(q.Angle), 1e-15))
		})
	})

	Describe("integration order", func() {
		It("uses the pre-step state of both segments", func() {
			s := unitPendulum(0.7, -0.4)
			s.first.AngularVelocity, s.second.AngularVelocity = 1.5, -2

			a1, a2 := s.Accelerations()
			s.Advance(0.01)

			Expect(s.First().AngularAcceleration).To(Equal(a1))
			Expect(s.Second().AngularAcceleration).To(Equal(a2))
			Expect(s.First().AngularVelocity).To(Equal(1.5 + a1*0.01))
			Expect(s.Second().Angle).To(Equal(-0.4 + (-2+a2*0.01)*0.01))
		})

		It("is not symmetric in segment order", func() {
			a, err := New(NewSegment(1, 3, 0.5), NewSegment(2, 1, -0.2), StandardGravity)
			Expect(err).NotTo(HaveOccurred())
			b, err := New(NewSegment(2, 1, -0.2), NewSegment(1, 3, 0.5), StandardGravity)
			Expect(err).NotTo(HaveOccurred())

			a1, _ := a.Accelerations()
			_, b2 := b.Accelerations()
			Expect(a1).NotTo(BeNumerically("~", b2, 1e-6))
		})
	})

	Describe("step refinement", func() {
		It("converges quadratically in dt", func() {
			run := func(dt float64, steps int) dynamo.State {
				s := unitPendulum(math.Pi/2, math.Pi/2)
				for i := 0; i < steps; i++ {
					s.Advance(dt)
				}
				return s.State()
			}

			var diffs []float64
			for _, dt := range []float64{0.01, 0.005, 0.0025} {
				a, b := run(dt, 1), run(dt/2, 2)
				d := 0.0
				for i := range a {
					d = math.Max(d, math.Abs(a[i]-b[i]))
				}
				diffs = append(diffs, d)
			}

			for i := 1; i < len(diffs); i++ {
				Expect(diffs[i]).To(BeNumerically(">", 0))
				Expect(diffs[i-1] / diffs[i]).To(BeNumerically("~", 4, 0.5))
			}
		})
	})

	Describe("mirror symmetry", func() {
		It("gives opposite accelerations for mirrored angles", func() {
			a := unitPendulum(0.1, 0.1)
			b := unitPendulum(-0.1, -0.1)

			a1, a2 := a.Accelerations()
			b1, b2 := b.Accelerations()
			Expect(a1 + b1).To(BeNumerically("~", 0, 1e-12))
			Expect(a2 + b2).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("energy", func() {
		It("stays close to its initial value for small steps", func() {
			s := unitPendulum(0.3, 0.3)
			e0 := s.Energy()

			for i := 0; i < 10000; i++ {
				s.Advance(1e-4)
			}

			Expect(math.Abs((s.Energy() - e0) / e0)).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("state vector", func() {
		It("round-trips through SetState", func() {
			s := unitPendulum(0.2, 0.4)
			x := s.State()
			Expect(s.StateLabels()).To(HaveLen(len(x)))

			s.Advance(0.1)
			Expect(s.SetState(x)).To(Succeed())
			Expect(s.State()).To(Equal(x))
			Expect(s.First().Pos.X).To(Equal(math.Sin(0.2)))
		})

		It("rejects a wrong dimension", func() {
			s := unitPendulum(0, 0)
			Expect(s.SetState(dynamo.State{1, 2})).To(MatchError(dynamo.ErrDimensionMismatch))
		})
	})
})
