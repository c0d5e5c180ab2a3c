package physics

import "math"

// Engine evaluates the coupling model between two elements and integrates
// the capsule's motion. It holds no per-run state and may be shared.
type Engine struct {
	mu0 float64
}

// NewEngine returns an engine using the vacuum permeability.
func NewEngine() *Engine {
	return &Engine{mu0: Mu0}
}

// MutualInductance returns the coupling M between a and b at the given
// axial separation.
//
// Closer than the longer coil the coupling falls off linearly with the
// overlap; beyond it a dipole approximation is used.
func (e *Engine) MutualInductance(a, b Element, distance float64) (float64, error) {
	if distance < 0 {
		return 0, invalid("distance", distance, "cannot be negative")
	}
	pa, pb := a.Properties(), b.Properties()
	ra, rb := pa.Radius(), pb.Radius()
	turns := math.Sqrt(float64(pa.Turns) * float64(pb.Turns))

	ref := math.Max(pa.Length, pb.Length)
	if distance < ref {
		overlap := math.Max(0, 1-distance/ref)
		return e.mu0 * math.Sqrt(ra*rb) * turns * overlap, nil
	}

	area := (ra * ra) * (rb * rb)
	return e.mu0 * math.Pi * area * turns / (distance * distance * distance), nil
}

// Force returns the axial force between a and b carrying currents ia and ib.
// The gradient of M is taken by central difference over GradientStep, with
// the lower sample floored at zero separation.
func (e *Engine) Force(a, b Element, distance, ia, ib float64) (float64, error) {
	if distance < 0 {
		return 0, invalid("distance", distance, "cannot be negative")
	}
	if ia == 0 || ib == 0 {
		return 0, nil
	}
	grad, err := e.gradient(a, b, distance+GradientStep/2, math.Max(0, distance-GradientStep/2))
	if err != nil {
		return 0, err
	}
	return -ia * ib * grad, nil
}

// CouplingGradient returns dM/dx around distance with both sample points
// floored at MinSeparation. It is the gradient used for motional EMF.
func (e *Engine) CouplingGradient(a, b Element, distance float64) (float64, error) {
	hi := math.Max(MinSeparation, distance+GradientStep/2)
	lo := math.Max(MinSeparation, distance-GradientStep/2)
	return e.gradient(a, b, hi, lo)
}

func (e *Engine) gradient(a, b Element, hi, lo float64) (float64, error) {
	mHi, err := e.MutualInductance(a, b, hi)
	if err != nil {
		return 0, err
	}
	mLo, err := e.MutualInductance(a, b, lo)
	if err != nil {
		return 0, err
	}
	return (mHi - mLo) / GradientStep, nil
}

// UpdateKinematics advances body by dt under a constant force. The position
// update uses the velocity from before the step.
func (e *Engine) UpdateKinematics(body Body, force, dt float64) {
	a := force / body.Mass()
	x, v := body.Position(), body.Velocity()
	body.UpdatePosition(x + v*dt + 0.5*a*dt*dt)
	body.SetVelocity(v + a*dt)
}

// EnergyTransfer estimates the energy exchanged between a and b over dt
// through their mutual coupling.
func (e *Engine) EnergyTransfer(a, b Element, ia, ib, dia, dib, dt float64) (float64, error) {
	if math.Abs(ia) < NegligibleCurrent && math.Abs(ib) < NegligibleCurrent {
		return 0, nil
	}
	distance := math.Abs(a.Properties().Position - b.Properties().Position)
	m, err := e.MutualInductance(a, b, distance)
	if err != nil {
		return 0, err
	}
	power := ia*m*dib + ib*m*dia
	return math.Abs(power * dt), nil
}

// ValidateConstants reports whether the engine's μ₀ matches 4π×10⁻⁷.
func (e *Engine) ValidateConstants() bool {
	return math.Abs(e.mu0-4*math.Pi*1e-7) < 1e-12
}
