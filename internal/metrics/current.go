package metrics

import (
	"math"

	"github.com/san-kum/coilgun/internal/sim"
)

// PeakCapsuleCurrent tracks the largest induced current magnitude.
type PeakCapsuleCurrent struct {
	name string
	peak float64
}

func NewPeakCapsuleCurrent() *PeakCapsuleCurrent {
	return &PeakCapsuleCurrent{name: "peak_capsule_current"}
}

func (p *PeakCapsuleCurrent) Name() string { return p.name }

func (p *PeakCapsuleCurrent) Observe(step sim.Step) error {
	p.peak = math.Max(p.peak, math.Abs(step.Capsule.Current()))
	return nil
}

func (p *PeakCapsuleCurrent) Value() float64 { return p.peak }
func (p *PeakCapsuleCurrent) Reset()         { p.peak = 0 }

// PeakStageCurrent tracks the largest single-stage discharge current.
type PeakStageCurrent struct {
	name string
	peak float64
}

func NewPeakStageCurrent() *PeakStageCurrent {
	return &PeakStageCurrent{name: "peak_stage_current"}
}

func (p *PeakStageCurrent) Name() string { return p.name }

func (p *PeakStageCurrent) Observe(step sim.Step) error {
	for _, st := range step.Stages {
		if st.Active() {
			p.peak = math.Max(p.peak, st.CurrentAt(step.Time))
		}
	}
	return nil
}

func (p *PeakStageCurrent) Value() float64 { return p.peak }
func (p *PeakStageCurrent) Reset()         { p.peak = 0 }

// StagesFired counts the stages that fired during the run.
type StagesFired struct {
	name  string
	fired int
}

func NewStagesFired() *StagesFired {
	return &StagesFired{name: "stages_fired"}
}

func (s *StagesFired) Name() string { return s.name }

func (s *StagesFired) Observe(step sim.Step) error {
	n := 0
	for _, st := range step.Stages {
		if st.Active() {
			n++
		}
	}
	s.fired = n
	return nil
}

func (s *StagesFired) Value() float64 { return float64(s.fired) }
func (s *StagesFired) Reset()         { s.fired = 0 }
