package metrics

import (
	"github.com/san-kum/coilgun/internal/sim"
)

// CouplingEnergy accumulates the energy exchanged through the mutual
// inductance of every active stage and the capsule. The capsule's dI/dt is
// taken as a backward difference between steps.
type CouplingEnergy struct {
	name        string
	total       float64
	lastCurrent float64
	samples     int
}

func NewCouplingEnergy() *CouplingEnergy {
	return &CouplingEnergy{name: "coupling_energy"}
}

func (c *CouplingEnergy) Name() string { return c.name }

func (c *CouplingEnergy) Observe(step sim.Step) error {
	ic := step.Capsule.Current()
	dic := 0.0
	if c.samples > 0 {
		dic = (ic - c.lastCurrent) / step.Dt
	}
	c.lastCurrent = ic
	c.samples++

	for _, st := range step.Stages {
		if !st.Active() {
			continue
		}
		e, err := step.Engine.EnergyTransfer(st, step.Capsule,
			st.CurrentAt(step.Time), ic,
			st.CurrentDerivativeAt(step.Time), dic,
			step.Dt)
		if err != nil {
			return err
		}
		c.total += e
	}
	return nil
}

func (c *CouplingEnergy) Value() float64 { return c.total }

func (c *CouplingEnergy) Reset() {
	c.total = 0
	c.lastCurrent = 0
	c.samples = 0
}
