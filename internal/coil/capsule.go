package coil

import (
	"fmt"
	"math"

	"github.com/san-kum/coilgun/internal/physics"
)

// Capsule is the conductive projectile: a single-turn aluminium loop that
// moves along the tube axis.
type Capsule struct {
	element
	mass     float64
	velocity float64
}

// NewCapsule returns a capsule at rest at the origin.
func NewCapsule(mass, diameter, length float64) (*Capsule, error) {
	if err := physics.Positive("mass", mass); err != nil {
		return nil, err
	}
	props, err := physics.NewProperties(1, diameter, length, capsuleResistance(diameter), 0)
	if err != nil {
		return nil, err
	}
	return &Capsule{element: newElement(props), mass: mass}, nil
}

// capsuleResistance treats the circumference as the current path through a
// wall of fixed thickness.
func capsuleResistance(diameter float64) float64 {
	path := math.Pi * diameter
	area := math.Pi * diameter * physics.CapsuleWallThickness
	return physics.RhoAluminum * path / area
}

func (c *Capsule) Mass() float64     { return c.mass }
func (c *Capsule) Position() float64 { return c.props.Position }
func (c *Capsule) Velocity() float64 { return c.velocity }

// UpdatePosition moves the capsule to x.
func (c *Capsule) UpdatePosition(x float64) {
	c.props = c.props.WithPosition(x)
}

func (c *Capsule) SetVelocity(v float64) { c.velocity = v }

// SetInducedCurrent stores a signed eddy current. Unlike SetCurrent it
// accepts negative values, since the induced EMF reverses as the capsule
// passes a coil.
func (c *Capsule) SetInducedCurrent(i float64) { c.current = i }

// ApplyForce advances the capsule by dt under force. Velocity is updated
// first and the position step uses the new velocity.
func (c *Capsule) ApplyForce(force, dt float64) {
	a := force / c.mass
	c.velocity += a * dt
	c.UpdatePosition(c.props.Position + c.velocity*dt + 0.5*a*dt*dt)
}

func (c *Capsule) KineticEnergy() float64 {
	return 0.5 * c.mass * c.velocity * c.velocity
}

func (c *Capsule) Momentum() float64 {
	return c.mass * c.velocity
}

func (c *Capsule) String() string {
	return fmt.Sprintf("Capsule(mass=%.3fkg, diameter=%.3fm, length=%.3fm, position=%.3fm, velocity=%.1fm/s)",
		c.mass, c.props.Diameter, c.props.Length, c.props.Position, c.velocity)
}
