package sim

import (
	"fmt"

	"github.com/san-kum/coilgun/internal/coil"
	"github.com/san-kum/coilgun/internal/physics"
)

// State is the lifecycle of a Simulator.
type State int

const (
	Idle State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Step is what a Metric sees after each integration step.
type Step struct {
	Index   int
	Time    float64
	Dt      float64
	Force   float64
	Capsule *coil.Capsule
	Stages  []*coil.Stage
	Engine  *physics.Engine
}

// Metric reduces a run to a single number.
type Metric interface {
	Name() string
	Observe(step Step) error
	Value() float64
	Reset()
}

// StepError wraps a failure with the step it happened on.
type StepError struct {
	Step     int
	Time     float64
	Position float64
	Wrapped  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6fs, x=%.4fm): %v", e.Step, e.Time, e.Position, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
