package coil

import (
	"fmt"
	"math"

	"github.com/san-kum/coilgun/internal/physics"
)

// Regime classifies the stage's RLC discharge.
type Regime int

const (
	Underdamped Regime = iota
	CriticallyDamped
	Overdamped
)

func (r Regime) String() string {
	switch r {
	case Underdamped:
		return "underdamped"
	case CriticallyDamped:
		return "critical"
	case Overdamped:
		return "overdamped"
	}
	return "unknown"
}

// Stage is a fixed copper coil discharged from a capacitor once the capsule
// comes within range.
type Stage struct {
	element
	id          int
	capacitance float64
	voltage     float64

	active      bool
	activatedAt float64
}

// NewStage builds a stage at position. Capacitance must be positive; the
// voltage is taken as given.
func NewStage(id int, position float64, turns int, diameter, length, capacitance, voltage float64) (*Stage, error) {
	if err := physics.Positive("capacitance", capacitance); err != nil {
		return nil, err
	}
	props, err := physics.NewProperties(turns, diameter, length, copperResistance(turns, diameter), position)
	if err != nil {
		return nil, err
	}
	return &Stage{
		element:     newElement(props),
		id:          id,
		capacitance: capacitance,
		voltage:     voltage,
	}, nil
}

// copperResistance assumes 14 AWG wire with one coil circumference per turn.
func copperResistance(turns int, diameter float64) float64 {
	r := physics.WireDiameter14AWG / 2
	area := math.Pi * r * r
	length := float64(turns) * math.Pi * diameter
	return physics.RhoCopper * length / area
}

func (s *Stage) ID() int                 { return s.id }
func (s *Stage) Position() float64       { return s.props.Position }
func (s *Stage) Capacitance() float64    { return s.capacitance }
func (s *Stage) Voltage() float64        { return s.voltage }
func (s *Stage) Active() bool            { return s.active }
func (s *Stage) ActivationTime() float64 { return s.activatedAt }

// Activate marks the stage active and latches the activation time.
func (s *Stage) Activate(t float64) {
	s.active = true
	s.activatedAt = t
}

// Reset returns the stage to its inactive state with no current.
func (s *Stage) Reset() {
	s.active = false
	s.activatedAt = 0
	s.current = 0
}

// NaturalFrequency returns ω₀ = 1/√(LC).
func (s *Stage) NaturalFrequency() float64 {
	return 1 / math.Sqrt(s.Inductance()*s.capacitance)
}

// DampingCoefficient returns α = R/2L.
func (s *Stage) DampingCoefficient() float64 {
	return s.props.Resistance / (2 * s.Inductance())
}

func (s *Stage) Regime() Regime {
	alpha, w0 := s.DampingCoefficient(), s.NaturalFrequency()
	switch {
	case alpha < w0:
		return Underdamped
	case alpha == w0:
		return CriticallyDamped
	default:
		return Overdamped
	}
}

func (s *Stage) elapsed(t float64) (float64, bool) {
	if !s.active || t < s.activatedAt {
		return 0, false
	}
	return t - s.activatedAt, true
}

// CurrentAt returns the discharge current at time t. Negative half-cycles
// are clipped to zero and the overdamped case carries no current.
func (s *Stage) CurrentAt(t float64) float64 {
	dt, ok := s.elapsed(t)
	if !ok {
		return 0
	}
	l := s.Inductance()
	alpha, w0 := s.DampingCoefficient(), s.NaturalFrequency()

	var i float64
	switch {
	case alpha < w0:
		wd := math.Sqrt(w0*w0 - alpha*alpha)
		i = (s.voltage / (wd * l)) * math.Exp(-alpha*dt) * math.Sin(wd*dt)
	case alpha == w0:
		i = (s.voltage / l) * dt * math.Exp(-alpha*dt)
	}
	return math.Max(0, i)
}

// CurrentDerivativeAt returns dI/dt at time t. It is not clipped.
func (s *Stage) CurrentDerivativeAt(t float64) float64 {
	dt, ok := s.elapsed(t)
	if !ok {
		return 0
	}
	l := s.Inductance()
	alpha, w0 := s.DampingCoefficient(), s.NaturalFrequency()

	switch {
	case alpha < w0:
		wd := math.Sqrt(w0*w0 - alpha*alpha)
		amp := s.voltage / (wd * l)
		return amp * math.Exp(-alpha*dt) * (wd*math.Cos(wd*dt) - alpha*math.Sin(wd*dt))
	case alpha == w0:
		return (s.voltage / l) * math.Exp(-alpha*dt) * (1 - alpha*dt)
	}
	return 0
}

// StoredEnergy returns ½·C·V². The model does not deplete it.
func (s *Stage) StoredEnergy() float64 {
	return 0.5 * s.capacitance * s.voltage * s.voltage
}

// EnergyTransferred estimates the energy drawn from the capacitor by time t
// assuming an RC decay.
func (s *Stage) EnergyTransferred(t float64) float64 {
	dt, ok := s.elapsed(t)
	if !ok {
		return 0
	}
	tau := s.props.Resistance * s.capacitance
	e0 := s.StoredEnergy()
	return e0 - e0*math.Exp(-dt/tau)
}

func (s *Stage) String() string {
	status := "inactive"
	if s.active {
		status = "active"
	}
	return fmt.Sprintf("Stage(id=%d, position=%.3fm, turns=%d, C=%.0fµF, V=%.0fV, %s)",
		s.id, s.props.Position, s.props.Turns, s.capacitance*1e6, s.voltage, status)
}
