// Package artifacts owns the on-disk layout of a pipeline run: where raw
// listings, scored listings, reports, profiles and letters are written, and
// how their file names are derived from the run.
package artifacts

import (
	"time"

	"github.com/google/uuid"
)

// StampLayout is the timestamp prefix of every artifact file name.
const StampLayout = "20060102_150405"

// Run identifies one pipeline execution. Components receive the Run and only
// the Store turns it into file names.
type Run struct {
	ID      uuid.UUID
	Started time.Time
}

// NewRun starts a run at the given time.
func NewRun(now time.Time) Run {
	return Run{ID: uuid.New(), Started: now}
}

// Stamp is the run's file name prefix.
func (r Run) Stamp() string {
	return r.Started.Format(StampLayout)
}

// Date formats the run start for letter headings.
func (r Run) Date() string {
	return r.Started.Format("January 02, 2006")
}
