package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/coilgun/internal/coil"
	"github.com/san-kum/coilgun/internal/physics"
	"github.com/san-kum/coilgun/internal/sim"
)

func launcher(stagePositions ...float64) *sim.Simulator {
	c, err := coil.NewCapsule(1.0, 0.083, 0.02)
	Expect(err).NotTo(HaveOccurred())
	c.UpdatePosition(0.02)

	stages := make([]*coil.Stage, len(stagePositions))
	for i, x := range stagePositions {
		stages[i], err = coil.NewStage(i+1, x, 100, 0.09, 0.05, 1000e-6, 400)
		Expect(err).NotTo(HaveOccurred())
	}

	s, err := sim.New(c, stages, 0.4, 1e-5)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Simulator", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = launcher(0.05, 0.13, 0.21)
	})

	It("starts idle at t=0", func() {
		Expect(s.State()).To(Equal(sim.Idle))
		Expect(s.Time()).To(BeZero())
	})

	It("reports the summed capacitor energy", func() {
		res, err := s.Run(1e-3)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.InitialEnergy).To(Equal(3 * 80.0))
		Expect(res.InitialEnergy).To(Equal(s.InitialEnergy()))
	})

	It("only fires stages within reach of the capsule", func() {
		_, err := s.Run(1e-3)
		Expect(err).NotTo(HaveOccurred())

		stages := s.Stages()
		Expect(stages[0].Active()).To(BeTrue())
		Expect(stages[1].Active()).To(BeFalse())
		Expect(stages[2].Active()).To(BeFalse())
	})

	It("terminates on time or position", func() {
		const maxTime = 0.02
		res, err := s.Run(maxTime)
		Expect(err).NotTo(HaveOccurred())

		byTime := res.TotalTime <= maxTime
		byPosition := res.FinalPosition >= 0.4
		Expect(byTime || byPosition).To(BeTrue())
		Expect(res.FinalVelocity).To(BeNumerically(">=", 0))
	})

	It("keeps parallel arrays aligned with the records", func() {
		res, err := s.Run(2e-3)
		Expect(err).NotTo(HaveOccurred())

		n := len(res.Records)
		Expect(res.Times()).To(HaveLen(n))
		Expect(res.Positions()).To(HaveLen(n))
		Expect(res.Velocities()).To(HaveLen(n))
		Expect(res.Forces()).To(HaveLen(n))
		Expect(res.Energies()).To(HaveLen(n))
	})

	It("records the run parameters", func() {
		res, err := s.Run(1e-3)
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Parameters.TubeLength).To(Equal(0.4))
		Expect(res.Parameters.MaxTime).To(Equal(1e-3))
		Expect(res.Parameters.InitialPosition).To(Equal(0.02))
		Expect(res.Parameters.Stages).To(HaveLen(3))
		Expect(res.Parameters.Stages[2].Position).To(Equal(0.21))
	})

	Context("after a run", func() {
		var first float64

		BeforeEach(func() {
			res, err := s.Run(2e-3)
			Expect(err).NotTo(HaveOccurred())
			first = res.FinalVelocity
		})

		It("refuses to run again", func() {
			_, err := s.Run(2e-3)
			Expect(err).To(MatchError(physics.ErrNotIdle))
		})

		It("reproduces the first run after reset", func() {
			Expect(s.Reset()).To(Succeed())
			again, err := s.Run(2e-3)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.FinalVelocity).To(Equal(first))
		})

		It("returns to idle on reset", func() {
			Expect(s.Reset()).To(Succeed())
			Expect(s.State()).To(Equal(sim.Idle))
			Expect(s.Time()).To(BeZero())
			for _, st := range s.Stages() {
				Expect(st.Active()).To(BeFalse())
				Expect(st.Current()).To(BeZero())
			}
		})
	})

	Context("with several stages", func() {
		It("is unaffected by stages the capsule never reaches", func() {
			one, err := launcher(0.05).Run(5e-3)
			Expect(err).NotTo(HaveOccurred())
			three, err := launcher(0.05, 0.13, 0.21).Run(5e-3)
			Expect(err).NotTo(HaveOccurred())

			Expect(three.FinalVelocity).To(BeNumerically("~", one.FinalVelocity, 1e-12))
			Expect(three.InitialEnergy).To(BeNumerically(">", one.InitialEnergy))
		})
	})
})
