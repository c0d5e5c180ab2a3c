package physics

import "math"

// Mu0 is the permeability of free space in H/m.
const Mu0 = 4 * math.Pi * 1e-7

// Material and wire constants used to derive coil resistances.
const (
	RhoAluminum = 2.65e-8 // Ω·m
	RhoCopper   = 1.68e-8 // Ω·m

	// CapsuleWallThickness is the effective conduction wall of the capsule.
	CapsuleWallThickness = 0.01 // m

	// WireDiameter14AWG is the stage winding wire diameter.
	WireDiameter14AWG = 1.628e-3 // m
)

// Numerical constants shared by the engine and the simulator.
const (
	// GradientStep is the central-difference step used for dM/dx.
	GradientStep = 0.001 // m

	// MinSeparation floors capsule-stage distances in gradient and force
	// evaluations so the near field stays finite.
	MinSeparation = 0.001 // m

	// NegligibleCurrent is the magnitude below which energy transfer is zero.
	NegligibleCurrent = 1e-6 // A
)
