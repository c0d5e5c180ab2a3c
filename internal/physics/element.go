package physics

import "math"

// Properties describes the geometry and resistance of a coil-like element.
// It is a value type; a moved element gets a new Properties value.
type Properties struct {
	Turns      int
	Diameter   float64 // m
	Length     float64 // m
	Resistance float64 // Ω
	Position   float64 // m, along the tube axis
}

// NewProperties validates and returns coil properties.
func NewProperties(turns int, diameter, length, resistance, position float64) (Properties, error) {
	if turns < 1 {
		return Properties{}, invalid("turns", float64(turns), "must be positive")
	}
	if err := Positive("diameter", diameter); err != nil {
		return Properties{}, err
	}
	if err := Positive("length", length); err != nil {
		return Properties{}, err
	}
	if err := NonNegative("resistance", resistance); err != nil {
		return Properties{}, err
	}
	return Properties{
		Turns:      turns,
		Diameter:   diameter,
		Length:     length,
		Resistance: resistance,
		Position:   position,
	}, nil
}

// Radius returns half the diameter.
func (p Properties) Radius() float64 { return p.Diameter / 2 }

// Area returns the cross-sectional area π·r².
func (p Properties) Area() float64 {
	r := p.Radius()
	return math.Pi * r * r
}

// WithPosition returns a copy of p moved to x.
func (p Properties) WithPosition(x float64) Properties {
	p.Position = x
	return p
}

// SolenoidInductance returns L = μ₀·(N/ℓ)²·A·ℓ.
func SolenoidInductance(p Properties) float64 {
	n := float64(p.Turns) / p.Length
	return Mu0 * n * n * p.Area() * p.Length
}

// Element is any coil that takes part in the electromagnetic coupling.
type Element interface {
	Properties() Properties
	Inductance() float64
	Current() float64
	SetCurrent(i float64) error
	MagneticMoment() float64
}

// Body is the kinematic state the engine integrates.
type Body interface {
	Mass() float64
	Position() float64
	Velocity() float64
	UpdatePosition(x float64)
	SetVelocity(v float64)
}
