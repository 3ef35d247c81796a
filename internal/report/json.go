package report

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/garagon/yarara/internal/registry"
	"github.com/garagon/yarara/internal/types"
)

func init() {
	registry.Default().MustRegisterReporter("json", func() (types.Reporter, error) {
		return NewJSON(os.Stdout), nil
	})
}

// Event is the JSON shape emitted for one reported diagnosis. The ID is
// generated per report call so downstream collectors can deduplicate.
type Event struct {
	ID        string          `json:"id"`
	Timestamp string          `json:"timestamp"`
	Diagnosis types.Diagnosis `json:"diagnosis"`
}

// JSONReporter writes one indented JSON event per diagnosis.
type JSONReporter struct {
	w io.Writer

	// now is a hook for tests; defaults to time.Now.
	now func() time.Time
}

// NewJSON creates a JSONReporter writing to w.
func NewJSON(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w, now: time.Now}
}

func (r *JSONReporter) Name() string { return "json" }

func (r *JSONReporter) Report(d *types.Diagnosis) error {
	event := Event{
		ID:        uuid.NewString(),
		Timestamp: r.now().UTC().Format(time.RFC3339),
		Diagnosis: *d,
	}
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(event)
}
