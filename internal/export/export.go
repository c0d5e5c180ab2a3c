// Package export writes simulation results as JSON documents and CSV tables.
package export

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/san-kum/coilgun/internal/recorder"
)

// Meta identifies the run a document was produced from.
type Meta struct {
	ID      string    `json:"id,omitempty"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// Document returns the result's flat map with the run identity added.
func Document(meta Meta, res *recorder.Result) map[string]interface{} {
	doc := res.ToMap()
	doc["run"] = map[string]interface{}{
		"id":      meta.ID,
		"name":    meta.Name,
		"created": meta.Created.Format(time.RFC3339),
	}
	doc["steps"] = len(res.Records)
	return doc
}

func WriteJSON(w io.Writer, meta Meta, res *recorder.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document(meta, res))
}

// ExportJSON writes the document to path.
func ExportJSON(path string, meta Meta, res *recorder.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, res)
}
