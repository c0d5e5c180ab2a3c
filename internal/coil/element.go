package coil

import "github.com/san-kum/coilgun/internal/physics"

type element struct {
	props      physics.Properties
	current    float64
	inductance float64
}

func newElement(props physics.Properties) element {
	return element{props: props}
}

func (e *element) Properties() physics.Properties { return e.props }

// Inductance returns the solenoid self-inductance, computed on first use.
func (e *element) Inductance() float64 {
	if e.inductance == 0 {
		e.inductance = physics.SolenoidInductance(e.props)
	}
	return e.inductance
}

func (e *element) Current() float64 { return e.current }

// SetCurrent stores a non-negative current.
func (e *element) SetCurrent(i float64) error {
	if err := physics.NonNegative("current", i); err != nil {
		return err
	}
	e.current = i
	return nil
}

// MagneticMoment returns N·I·A.
func (e *element) MagneticMoment() float64 {
	return float64(e.props.Turns) * e.current * e.props.Area()
}
