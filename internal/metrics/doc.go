// Package metrics provides sim.Metric implementations that summarise a
// launcher run.
package metrics

import "github.com/san-kum/coilgun/internal/sim"

// Default returns one of each metric, in a stable order.
func Default() []sim.Metric {
	return []sim.Metric{
		NewPeakCapsuleCurrent(),
		NewPeakStageCurrent(),
		NewCouplingEnergy(),
		NewStagesFired(),
	}
}
