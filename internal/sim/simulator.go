// Package sim runs the time-stepped launcher simulation.
//
// A Simulator owns one capsule and its stages. Each step it fires stages the
// capsule has come within range of, updates the capsule's induced current,
// sums the electromagnetic force, integrates the capsule's motion and records
// the new state. A Simulator is not safe for concurrent use.
package sim

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/coilgun/internal/coil"
	"github.com/san-kum/coilgun/internal/physics"
	"github.com/san-kum/coilgun/internal/recorder"
)

const (
	// currentSmoothing is the fraction of the gap to the Ohmic target the
	// capsule current closes each step.
	currentSmoothing = 0.1

	// activationFloor is the minimum trigger range of a stage.
	activationFloor = 0.01 // m

	minStageCurrent   = 0.1   // A
	minCapsuleCurrent = 0.001 // A

	dragCoefficient = 0.001 // N·s/m
	dragThreshold   = 0.01  // m/s
)

type capsuleState struct {
	position float64
	velocity float64
	current  float64
}

type Simulator struct {
	capsule    *coil.Capsule
	stages     []*coil.Stage
	engine     *physics.Engine
	recorder   *recorder.Recorder
	tubeLength float64
	dt         float64

	time    float64
	state   State
	initial capsuleState
	metrics []Metric
	log     zerolog.Logger
}

// New returns an idle simulator. The capsule's current position, velocity
// and current are what Reset restores.
func New(capsule *coil.Capsule, stages []*coil.Stage, tubeLength, timeStep float64) (*Simulator, error) {
	if capsule == nil {
		return nil, &physics.ValidationError{Field: "capsule", Reason: "is required"}
	}
	if err := physics.Positive("tube length", tubeLength); err != nil {
		return nil, err
	}
	if err := physics.Positive("time step", timeStep); err != nil {
		return nil, err
	}
	return &Simulator{
		capsule:    capsule,
		stages:     stages,
		engine:     physics.NewEngine(),
		recorder:   recorder.New(),
		tubeLength: tubeLength,
		dt:         timeStep,
		initial: capsuleState{
			position: capsule.Position(),
			velocity: capsule.Velocity(),
			current:  capsule.Current(),
		},
		metrics: make([]Metric, 0),
		log:     zerolog.Nop(),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)         { s.metrics = append(s.metrics, m) }
func (s *Simulator) SetLogger(l zerolog.Logger) { s.log = l }
func (s *Simulator) Time() float64              { return s.time }
func (s *Simulator) State() State               { return s.state }
func (s *Simulator) Capsule() *coil.Capsule     { return s.capsule }
func (s *Simulator) Stages() []*coil.Stage      { return s.stages }
func (s *Simulator) Engine() *physics.Engine    { return s.engine }
func (s *Simulator) TubeLength() float64        { return s.tubeLength }
func (s *Simulator) TimeStep() float64          { return s.dt }

// InitialEnergy returns the energy stored across all stage capacitors.
func (s *Simulator) InitialEnergy() float64 {
	total := 0.0
	for _, st := range s.stages {
		total += st.StoredEnergy()
	}
	return total
}

// Run steps the simulation until maxTime elapses or the capsule leaves the
// tube. A simulator runs once; call Reset before running it again.
func (s *Simulator) Run(maxTime float64) (*recorder.Result, error) {
	switch s.state {
	case Running:
		return nil, physics.ErrRunning
	case Terminated:
		return nil, physics.ErrNotIdle
	}
	s.state = Running
	defer func() { s.state = Terminated }()

	s.recorder.SetInitialEnergy(s.InitialEnergy())
	for _, m := range s.metrics {
		m.Reset()
	}

	steps := 0
	for s.time < maxTime && s.capsule.Position() < s.tubeLength {
		if err := s.step(steps); err != nil {
			return nil, err
		}
		s.time += s.dt
		steps++
	}

	reason := "max time"
	if s.capsule.Position() >= s.tubeLength {
		reason = "exited tube"
	}
	s.log.Info().
		Str("reason", reason).
		Int("steps", steps).
		Float64("velocity", s.capsule.Velocity()).
		Float64("position", s.capsule.Position()).
		Msg("simulation terminated")

	result, err := s.recorder.Result()
	if err != nil {
		return nil, err
	}
	result.Parameters = s.parameters(maxTime)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// Reset rewinds time, restores the capsule, clears every stage and drops the
// recorded history.
func (s *Simulator) Reset() error {
	if s.state == Running {
		return physics.ErrRunning
	}
	s.time = 0
	s.capsule.UpdatePosition(s.initial.position)
	s.capsule.SetVelocity(s.initial.velocity)
	s.capsule.SetInducedCurrent(s.initial.current)
	for _, st := range s.stages {
		st.Reset()
	}
	s.recorder.Reset()
	for _, m := range s.metrics {
		m.Reset()
	}
	s.state = Idle
	return nil
}

func (s *Simulator) step(i int) error {
	s.activateStages()

	if err := s.updateCapsuleCurrent(); err != nil {
		return s.stepError(i, err)
	}

	force, err := s.totalForce()
	if err != nil {
		return s.stepError(i, err)
	}

	s.engine.UpdateKinematics(s.capsule, force, s.dt)
	if !finite(s.capsule.Position()) || !finite(s.capsule.Velocity()) {
		return s.stepError(i, physics.ErrUnstable)
	}

	s.recorder.Record(s.time, s.capsule, s.stages, force)

	step := Step{
		Index:   i,
		Time:    s.time,
		Dt:      s.dt,
		Force:   force,
		Capsule: s.capsule,
		Stages:  s.stages,
		Engine:  s.engine,
	}
	for _, m := range s.metrics {
		if err := m.Observe(step); err != nil {
			return s.stepError(i, fmt.Errorf("metric %s: %w", m.Name(), err))
		}
	}
	return nil
}

func (s *Simulator) activateStages() {
	x := s.capsule.Position()
	for _, st := range s.stages {
		if st.Active() {
			continue
		}
		reach := math.Max(st.Properties().Length, activationFloor)
		if math.Abs(x-st.Position()) <= reach {
			st.Activate(s.time)
			s.log.Debug().
				Int("stage", st.ID()).
				Float64("time", s.time).
				Float64("position", x).
				Msg("stage fired")
		}
	}
}

// separation is the capsule-stage distance floored at physics.MinSeparation.
func (s *Simulator) separation(st *coil.Stage) float64 {
	return math.Max(physics.MinSeparation, math.Abs(s.capsule.Position()-st.Position()))
}

// updateCapsuleCurrent moves the capsule current a fixed fraction towards
// the Ohmic current of the summed transformer and motional EMF.
func (s *Simulator) updateCapsuleCurrent() error {
	emf := 0.0
	for _, st := range s.stages {
		if !st.Active() {
			continue
		}
		i := st.CurrentAt(s.time)
		if err := st.SetCurrent(i); err != nil {
			return err
		}

		d := s.separation(st)
		m, err := s.engine.MutualInductance(st, s.capsule, d)
		if err != nil {
			return err
		}
		grad, err := s.engine.CouplingGradient(st, s.capsule, d)
		if err != nil {
			return err
		}
		emf += m*st.CurrentDerivativeAt(s.time) + s.capsule.Velocity()*i*grad
	}

	r := s.capsule.Properties().Resistance
	if r > 0 {
		target := emf / r
		ic := s.capsule.Current()
		s.capsule.SetInducedCurrent(ic + currentSmoothing*(target-ic))
	}
	return nil
}

// totalForce sums the coupling force of every active stage carrying enough
// current. Each contributing stage also adds a small velocity drag.
func (s *Simulator) totalForce() (float64, error) {
	total := 0.0
	ic := s.capsule.Current()
	v := s.capsule.Velocity()
	for _, st := range s.stages {
		if !st.Active() {
			continue
		}
		is := st.CurrentAt(s.time)
		if math.Abs(is) <= minStageCurrent || math.Abs(ic) <= minCapsuleCurrent {
			continue
		}
		f, err := s.engine.Force(st, s.capsule, s.separation(st), is, ic)
		if err != nil {
			return 0, err
		}
		total += f
		if math.Abs(v) > dragThreshold {
			total -= dragCoefficient * v
		}
	}
	return total, nil
}

func (s *Simulator) stepError(i int, err error) error {
	return &StepError{Step: i, Time: s.time, Position: s.capsule.Position(), Wrapped: err}
}

func (s *Simulator) parameters(maxTime float64) recorder.Parameters {
	props := s.capsule.Properties()
	p := recorder.Parameters{
		CapsuleMass:     s.capsule.Mass(),
		CapsuleDiameter: props.Diameter,
		CapsuleLength:   props.Length,
		InitialPosition: s.initial.position,
		InitialVelocity: s.initial.velocity,
		TubeLength:      s.tubeLength,
		TimeStep:        s.dt,
		MaxTime:         maxTime,
		Stages:          make([]recorder.StageParameters, len(s.stages)),
	}
	for i, st := range s.stages {
		sp := st.Properties()
		p.Stages[i] = recorder.StageParameters{
			ID:          st.ID(),
			Position:    sp.Position,
			Turns:       sp.Turns,
			Diameter:    sp.Diameter,
			Length:      sp.Length,
			Capacitance: st.Capacitance(),
			Voltage:     st.Voltage(),
		}
	}
	return p
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
