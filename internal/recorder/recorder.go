// Package recorder collects per-step launcher snapshots and turns them into
// an immutable Result.
package recorder

import (
	"fmt"

	"github.com/san-kum/coilgun/internal/coil"
	"github.com/san-kum/coilgun/internal/physics"
)

// Recorder accumulates records in time order.
type Recorder struct {
	records       []Record
	initialEnergy float64
}

func New() *Recorder {
	return &Recorder{}
}

// Record appends a snapshot of the capsule and stages at time t.
func (r *Recorder) Record(t float64, capsule *coil.Capsule, stages []*coil.Stage, force float64) {
	active := 0
	stageCurrent := 0.0
	for _, s := range stages {
		if s.Active() {
			active++
			stageCurrent += s.CurrentAt(t)
		}
	}

	r.records = append(r.records, Record{
		Time:           t,
		Position:       capsule.Position(),
		Velocity:       capsule.Velocity(),
		Acceleration:   force / capsule.Mass(),
		Force:          force,
		KineticEnergy:  capsule.KineticEnergy(),
		CapsuleCurrent: capsule.Current(),
		ActiveStages:   active,
		StageCurrent:   stageCurrent,
	})
}

func (r *Recorder) SetInitialEnergy(e float64) { r.initialEnergy = e }

func (r *Recorder) Len() int { return len(r.records) }

// Reset drops all records and the stored initial energy.
func (r *Recorder) Reset() {
	r.records = nil
	r.initialEnergy = 0
}

// Result builds a result from the recorded history. The result owns its
// own copy of the records.
func (r *Recorder) Result() (*Result, error) {
	if len(r.records) == 0 {
		return nil, fmt.Errorf("build result: %w", physics.ErrEmptyState)
	}
	last := r.records[len(r.records)-1]
	records := make([]Record, len(r.records))
	copy(records, r.records)

	return &Result{
		FinalVelocity: last.Velocity,
		FinalPosition: last.Position,
		TotalTime:     last.Time,
		InitialEnergy: r.initialEnergy,
		Records:       records,
		Metrics:       make(map[string]float64),
	}, nil
}
