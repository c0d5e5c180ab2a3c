package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/san-kum/coilgun/internal/recorder"
)

// runRow is the runs table.
type runRow struct {
	ID                 string `gorm:"primaryKey"`
	Name               string `gorm:"index"`
	CreatedAt          time.Time
	Steps              int
	FinalVelocity      float64
	FinalPosition      float64
	TotalTime          float64
	InitialEnergy      float64
	FinalKineticEnergy float64
	MaxForce           float64
	EnergyEfficiency   float64
	Parameters         datatypes.JSON
	Metrics            datatypes.JSON
}

func (runRow) TableName() string { return "runs" }

// recordRow is one step of a run.
type recordRow struct {
	ID             uint   `gorm:"primaryKey"`
	RunID          string `gorm:"index:idx_run_step,priority:1"`
	Step           int    `gorm:"index:idx_run_step,priority:2"`
	Time           float64
	Position       float64
	Velocity       float64
	Acceleration   float64
	Force          float64
	KineticEnergy  float64
	CapsuleCurrent float64
	ActiveStages   int
	StageCurrent   float64
}

func (recordRow) TableName() string { return "records" }

// SQLiteStore keeps runs in a SQLite database through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens or creates the database at path and migrates the schema.
// An empty path uses a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := "file::memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == "" {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&runRow{}, &recordRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(name string, res *recorder.Result) (string, error) {
	meta := NewRunMetadata(name, res)
	params, err := json.Marshal(meta.Parameters)
	if err != nil {
		return "", err
	}
	metrics, err := json.Marshal(meta.Metrics)
	if err != nil {
		return "", err
	}

	run := runRow{
		ID:                 meta.ID,
		Name:               meta.Name,
		CreatedAt:          meta.Timestamp,
		Steps:              meta.Steps,
		FinalVelocity:      meta.FinalVelocity,
		FinalPosition:      meta.FinalPosition,
		TotalTime:          meta.TotalTime,
		InitialEnergy:      meta.InitialEnergy,
		FinalKineticEnergy: meta.FinalKineticEnergy,
		MaxForce:           meta.MaxForce,
		EnergyEfficiency:   meta.EnergyEfficiency,
		Parameters:         datatypes.JSON(params),
		Metrics:            datatypes.JSON(metrics),
	}

	rows := make([]recordRow, len(res.Records))
	for i, r := range res.Records {
		rows[i] = recordRow{
			RunID:          meta.ID,
			Step:           i,
			Time:           r.Time,
			Position:       r.Position,
			Velocity:       r.Velocity,
			Acceleration:   r.Acceleration,
			Force:          r.Force,
			KineticEnergy:  r.KineticEnergy,
			CapsuleCurrent: r.CapsuleCurrent,
			ActiveStages:   r.ActiveStages,
			StageCurrent:   r.StageCurrent,
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 2000).Error
	})
	if err != nil {
		return "", fmt.Errorf("save run %s: %w", meta.ID, err)
	}
	return meta.ID, nil
}

func (s *SQLiteStore) List() ([]RunMetadata, error) {
	var rows []runRow
	if err := s.db.Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	runs := make([]RunMetadata, 0, len(rows))
	for _, r := range rows {
		meta, err := r.metadata()
		if err != nil {
			return nil, err
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *SQLiteStore) Load(id string) (*RunMetadata, error) {
	var row runRow
	err := s.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.metadata()
}

func (s *SQLiteStore) LoadRecords(id string) ([]recorder.Record, error) {
	if _, err := s.Load(id); err != nil {
		return nil, err
	}

	var rows []recordRow
	if err := s.db.Where("run_id = ?", id).Order("step").Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]recorder.Record, len(rows))
	for i, r := range rows {
		records[i] = recorder.Record{
			Time:           r.Time,
			Position:       r.Position,
			Velocity:       r.Velocity,
			Acceleration:   r.Acceleration,
			Force:          r.Force,
			KineticEnergy:  r.KineticEnergy,
			CapsuleCurrent: r.CapsuleCurrent,
			ActiveStages:   r.ActiveStages,
			StageCurrent:   r.StageCurrent,
		}
	}
	return records, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r runRow) metadata() (*RunMetadata, error) {
	meta := &RunMetadata{
		ID:                 r.ID,
		Name:               r.Name,
		Timestamp:          r.CreatedAt,
		Steps:              r.Steps,
		FinalVelocity:      r.FinalVelocity,
		FinalPosition:      r.FinalPosition,
		TotalTime:          r.TotalTime,
		InitialEnergy:      r.InitialEnergy,
		FinalKineticEnergy: r.FinalKineticEnergy,
		MaxForce:           r.MaxForce,
		EnergyEfficiency:   r.EnergyEfficiency,
	}
	if len(r.Parameters) > 0 {
		if err := json.Unmarshal(r.Parameters, &meta.Parameters); err != nil {
			return nil, fmt.Errorf("run %s parameters: %w", r.ID, err)
		}
	}
	if len(r.Metrics) > 0 {
		if err := json.Unmarshal(r.Metrics, &meta.Metrics); err != nil {
			return nil, fmt.Errorf("run %s metrics: %w", r.ID, err)
		}
	}
	return meta, nil
}
