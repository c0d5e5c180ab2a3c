package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/coilgun/internal/coil"
)

// PowerSpectrum returns the magnitude of the first half of the DFT of data.
// Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spec := fft.FFTReal(data)
	ps := make([]float64, len(spec)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of data sampled every dt seconds. The mean is removed first.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("need at least 4 samples, got %d", len(data))
	}
	if dt <= 0 {
		return 0, fmt.Errorf("sample interval must be positive, got %g", dt)
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(len(data)) * dt), nil
}

// RingingFrequency returns ω_d/2π for an underdamped stage and 0 otherwise.
func RingingFrequency(s *coil.Stage) float64 {
	if s.Regime() != coil.Underdamped {
		return 0
	}
	w0, alpha := s.NaturalFrequency(), s.DampingCoefficient()
	return math.Sqrt(w0*w0-alpha*alpha) / (2 * math.Pi)
}
