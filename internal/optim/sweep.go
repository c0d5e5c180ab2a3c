package optim

import (
	"context"
	"fmt"

	"github.com/san-kum/coilgun/internal/config"
	"github.com/san-kum/coilgun/internal/recorder"
	"github.com/san-kum/coilgun/internal/sim"
)

// Parameter names understood by Apply.
const (
	ParamVoltage     = "voltage"
	ParamCapacitance = "capacitance"
	ParamTurns       = "turns"
	ParamCapsuleMass = "capsule_mass"
	ParamSpacing     = "spacing"
)

// Apply returns a copy of base with params written into it. Stage-level
// parameters apply to every stage.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := base.Clone()
	if len(cfg.Stages) == 0 && cfg.Layout != nil {
		if v, ok := params[ParamSpacing]; ok {
			cfg.Layout.Spacing = v
		}
		cfg.Stages = cfg.StageConfigs()
	} else if _, ok := params[ParamSpacing]; ok {
		return nil, fmt.Errorf("%s needs a layout config", ParamSpacing)
	}

	for name, v := range params {
		switch name {
		case ParamVoltage:
			cfg.SetVoltage(v)
		case ParamCapacitance:
			for i := range cfg.Stages {
				cfg.Stages[i].Capacitance = v
			}
		case ParamTurns:
			for i := range cfg.Stages {
				cfg.Stages[i].Turns = int(v)
			}
		case ParamCapsuleMass:
			cfg.Capsule.Mass = v
		case ParamSpacing:
		default:
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
	}
	return cfg, nil
}

// Runner adapts a base config into a RunFunc for GridSearch.
func Runner(base *config.Config) RunFunc {
	return func(params map[string]float64) (*recorder.Result, error) {
		cfg, err := Apply(base, params)
		if err != nil {
			return nil, err
		}
		s, err := cfg.Build()
		if err != nil {
			return nil, err
		}
		return s.Run(cfg.MaxTime)
	}
}

// SweepPoint is the outcome of one charging voltage.
type SweepPoint struct {
	Voltage       float64
	FinalVelocity float64
	FinalPosition float64
	MaxForce      float64
	Efficiency    float64
}

// VoltageSweep runs base once per voltage, concurrently, and returns the
// points in voltage order.
func VoltageSweep(ctx context.Context, base *config.Config, voltages []float64, workers int) ([]SweepPoint, error) {
	builders := make([]sim.Builder, len(voltages))
	for i, v := range voltages {
		cfg := base.Clone()
		cfg.SetVoltage(v)
		builders[i] = cfg.Build
	}

	batch := sim.NewBatch(builders, base.MaxTime)
	batch.SetWorkers(workers)

	results, err := batch.Run(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(results))
	for i, r := range results {
		points[i] = SweepPoint{
			Voltage:       voltages[i],
			FinalVelocity: r.FinalVelocity,
			FinalPosition: r.FinalPosition,
			MaxForce:      r.MaxForce(),
			Efficiency:    r.EnergyEfficiency(),
		}
	}
	return points, nil
}
