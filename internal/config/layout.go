package config

import (
	"github.com/san-kum/coilgun/internal/physics"
)

// coilFill is the share of the stage spacing a layout coil occupies when no
// coil length is given.
const coilFill = 0.6

// LayoutConfig generates Count identical, evenly spaced stages.
type LayoutConfig struct {
	Count       int     `yaml:"count"`
	Start       float64 `yaml:"start"`
	Spacing     float64 `yaml:"spacing,omitempty"`
	Turns       int     `yaml:"turns"`
	Diameter    float64 `yaml:"diameter"`
	Length      float64 `yaml:"length,omitempty"`
	Capacitance float64 `yaml:"capacitance"`
	Voltage     float64 `yaml:"voltage"`
}

func (l *LayoutConfig) Validate() error {
	if l.Count < 1 {
		return &physics.ValidationError{Field: "layout.count", Value: float64(l.Count), Reason: "must be positive"}
	}
	if err := physics.NonNegative("layout.spacing", l.Spacing); err != nil {
		return err
	}
	return physics.NonNegative("layout.length", l.Length)
}

// Stages expands the layout. Spacing defaults to tubeLength/Count and the
// coil length to 60% of the spacing.
func (l *LayoutConfig) Stages(tubeLength float64) []StageConfig {
	if l.Count < 1 {
		return nil
	}
	spacing := l.Spacing
	if spacing == 0 {
		spacing = tubeLength / float64(l.Count)
	}
	length := l.Length
	if length == 0 {
		length = spacing * coilFill
	}

	stages := make([]StageConfig, l.Count)
	for i := range stages {
		stages[i] = StageConfig{
			ID:          i,
			Position:    l.Start + float64(i)*spacing,
			Turns:       l.Turns,
			Diameter:    l.Diameter,
			Length:      length,
			Capacitance: l.Capacitance,
			Voltage:     l.Voltage,
		}
	}
	return stages
}
