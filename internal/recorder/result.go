package recorder

import (
	"gonum.org/v1/gonum/floats"
)

// Result is the outcome of one simulation run.
type Result struct {
	FinalVelocity float64            `json:"final_velocity"`
	FinalPosition float64            `json:"final_position"`
	TotalTime     float64            `json:"total_time"`
	InitialEnergy float64            `json:"initial_energy"`
	Parameters    Parameters         `json:"parameters"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
	Records       []Record           `json:"history"`
}

// FinalKineticEnergy returns the kinetic energy of the last record.
func (r *Result) FinalKineticEnergy() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return r.Records[len(r.Records)-1].KineticEnergy
}

// MaxForce returns the largest net force seen during the run.
func (r *Result) MaxForce() float64 {
	if len(r.Records) == 0 {
		return 0
	}
	return floats.Max(r.Forces())
}

// EnergyEfficiency returns final kinetic energy over stored energy, or 0
// when nothing was stored.
func (r *Result) EnergyEfficiency() float64 {
	if r.InitialEnergy <= 0 {
		return 0
	}
	return r.FinalKineticEnergy() / r.InitialEnergy
}

func (r *Result) column(f func(Record) float64) []float64 {
	out := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		out[i] = f(rec)
	}
	return out
}

func (r *Result) Times() []float64 {
	return r.column(func(rec Record) float64 { return rec.Time })
}

func (r *Result) Positions() []float64 {
	return r.column(func(rec Record) float64 { return rec.Position })
}

func (r *Result) Velocities() []float64 {
	return r.column(func(rec Record) float64 { return rec.Velocity })
}

func (r *Result) Forces() []float64 {
	return r.column(func(rec Record) float64 { return rec.Force })
}

func (r *Result) Energies() []float64 {
	return r.column(func(rec Record) float64 { return rec.KineticEnergy })
}

func (r *Result) CapsuleCurrents() []float64 {
	return r.column(func(rec Record) float64 { return rec.CapsuleCurrent })
}

func (r *Result) StageCurrents() []float64 {
	return r.column(func(rec Record) float64 { return rec.StageCurrent })
}

// ToMap flattens the result into nested maps and slices suitable for
// generic encoders.
func (r *Result) ToMap() map[string]interface{} {
	history := make([]map[string]interface{}, len(r.Records))
	for i, rec := range r.Records {
		history[i] = rec.toMap()
	}
	metrics := make(map[string]interface{}, len(r.Metrics))
	for k, v := range r.Metrics {
		metrics[k] = v
	}

	return map[string]interface{}{
		"final_velocity":       r.FinalVelocity,
		"final_position":       r.FinalPosition,
		"total_time":           r.TotalTime,
		"initial_energy":       r.InitialEnergy,
		"final_kinetic_energy": r.FinalKineticEnergy(),
		"max_force":            r.MaxForce(),
		"energy_efficiency":    r.EnergyEfficiency(),
		"time":                 r.Times(),
		"position":             r.Positions(),
		"velocity":             r.Velocities(),
		"force":                r.Forces(),
		"kinetic_energy":       r.Energies(),
		"history":              history,
		"metrics":              metrics,
		"parameters":           r.Parameters.toMap(),
	}
}

// Summary returns the scalar outcome of the run.
func (r *Result) Summary() map[string]float64 {
	return map[string]float64{
		"final_velocity":       r.FinalVelocity,
		"final_position":       r.FinalPosition,
		"total_time":           r.TotalTime,
		"initial_energy":       r.InitialEnergy,
		"final_kinetic_energy": r.FinalKineticEnergy(),
		"max_force":            r.MaxForce(),
		"energy_efficiency":    r.EnergyEfficiency(),
	}
}
