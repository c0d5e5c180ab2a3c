// Package storage persists simulation runs and their recorded history.
//
// Two backends are available: "files" keeps one directory per run with a
// JSON metadata file and a CSV of the records, and "sqlite" keeps runs and
// records in a single SQLite database.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/coilgun/internal/recorder"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("storage: run not found")

// RunMetadata is everything about a stored run except its records.
type RunMetadata struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Timestamp          time.Time           `json:"timestamp"`
	Steps              int                 `json:"steps"`
	FinalVelocity      float64             `json:"final_velocity"`
	FinalPosition      float64             `json:"final_position"`
	TotalTime          float64             `json:"total_time"`
	InitialEnergy      float64             `json:"initial_energy"`
	FinalKineticEnergy float64             `json:"final_kinetic_energy"`
	MaxForce           float64             `json:"max_force"`
	EnergyEfficiency   float64             `json:"energy_efficiency"`
	Parameters         recorder.Parameters `json:"parameters"`
	Metrics            map[string]float64  `json:"metrics"`
}

// NewRunMetadata summarises res under a fresh run id.
func NewRunMetadata(name string, res *recorder.Result) RunMetadata {
	return RunMetadata{
		ID:                 fmt.Sprintf("%s_%s", idPrefix(name), uuid.NewString()[:8]),
		Name:               name,
		Timestamp:          time.Now().UTC(),
		Steps:              len(res.Records),
		FinalVelocity:      res.FinalVelocity,
		FinalPosition:      res.FinalPosition,
		TotalTime:          res.TotalTime,
		InitialEnergy:      res.InitialEnergy,
		FinalKineticEnergy: res.FinalKineticEnergy(),
		MaxForce:           res.MaxForce(),
		EnergyEfficiency:   res.EnergyEfficiency(),
		Parameters:         res.Parameters,
		Metrics:            res.Metrics,
	}
}

// idPrefix makes name safe to use as a single path element.
func idPrefix(name string) string {
	id := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
	id = strings.TrimLeft(id, ".")
	if id == "" {
		return "run"
	}
	return id
}

// Result rebuilds a result from the metadata and its records.
func (m *RunMetadata) Result(records []recorder.Record) *recorder.Result {
	metrics := make(map[string]float64, len(m.Metrics))
	for k, v := range m.Metrics {
		metrics[k] = v
	}
	return &recorder.Result{
		FinalVelocity: m.FinalVelocity,
		FinalPosition: m.FinalPosition,
		TotalTime:     m.TotalTime,
		InitialEnergy: m.InitialEnergy,
		Parameters:    m.Parameters,
		Metrics:       metrics,
		Records:       records,
	}
}

// Store is a run repository.
type Store interface {
	Save(name string, res *recorder.Result) (string, error)
	List() ([]RunMetadata, error)
	Load(id string) (*RunMetadata, error)
	LoadRecords(id string) ([]recorder.Record, error)
	Close() error
}

// Open returns the named backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", "files":
		fs := NewFileStore(dir)
		if err := fs.Init(); err != nil {
			return nil, err
		}
		return fs, nil
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "runs.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
