package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/coilgun/internal/recorder"
)

// Columns is the CSV header, in record field order.
var Columns = []string{
	"time", "position", "velocity", "acceleration", "force",
	"kinetic_energy", "capsule_current", "active_stages", "total_stage_current",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per record with full float precision.
func WriteCSV(w io.Writer, records []recorder.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			formatFloat(r.Time),
			formatFloat(r.Position),
			formatFloat(r.Velocity),
			formatFloat(r.Acceleration),
			formatFloat(r.Force),
			formatFloat(r.KineticEnergy),
			formatFloat(r.CapsuleCurrent),
			strconv.Itoa(r.ActiveStages),
			formatFloat(r.StageCurrent),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportCSV writes records to path.
func ExportCSV(path string, records []recorder.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, records)
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) ([]recorder.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv: missing header")
	}

	records := make([]recorder.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (recorder.Record, error) {
	var vals [9]float64
	for j, field := range row {
		if j == 7 {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return recorder.Record{}, fmt.Errorf("%s: %w", Columns[j], err)
		}
		vals[j] = v
	}
	active, err := strconv.Atoi(row[7])
	if err != nil {
		return recorder.Record{}, fmt.Errorf("%s: %w", Columns[7], err)
	}

	return recorder.Record{
		Time:           vals[0],
		Position:       vals[1],
		Velocity:       vals[2],
		Acceleration:   vals[3],
		Force:          vals[4],
		KineticEnergy:  vals[5],
		CapsuleCurrent: vals[6],
		ActiveStages:   active,
		StageCurrent:   vals[8],
	}, nil
}
