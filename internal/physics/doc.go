// Package physics holds the electromagnetic model of the launcher.
//
// It defines the shared vocabulary used by every other package:
//
//   - [Properties]: immutable coil geometry and resistance
//   - [Element]: capability interface implemented by the capsule and the stages
//   - [Body]: the kinematic view of the capsule
//   - [Engine]: stateless calculator for mutual inductance, force, energy
//     transfer and kinematic integration
//
// All formulas are closed-form approximations. Distances below zero are
// rejected with a [ValidationError]; callers that work close to a coil clamp
// their separation to [MinSeparation] before asking for gradients or forces.
//
// # Example
//
//	eng := physics.NewEngine()
//	m, err := eng.MutualInductance(stage, capsule, 0.03)
//	f, err := eng.Force(stage, capsule, 0.03, 250, 1200)
package physics
