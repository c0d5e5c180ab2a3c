// Package analysis inspects recorded launcher runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: FFT of a sampled signal such
//     as the summed stage current
//   - [RingingFrequency]: the damped frequency a stage's discharge should show
//   - [NewPhasePortrait] and [PhasePortraitToASCII]: position against velocity
//
// # Checking the discharge
//
//	f, err := analysis.DominantFrequency(res.StageCurrents(), dt)
//	want := analysis.RingingFrequency(stage)
package analysis
