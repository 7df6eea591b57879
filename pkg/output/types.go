// Package output provides formatting of parsed log records and run summaries.
package output

import (
	"time"

	"github.com/ccollicutt/droidlog/pkg/logcat"
)

// Summary aggregates what a run saw.
type Summary struct {
	// Stats are the source counts (lines read, matched, unmatched, invalid).
	Stats logcat.Stats `json:"stats"`

	// Shown is the number of records that passed the filter.
	Shown int `json:"shown"`

	// ByLevel counts shown records per level.
	ByLevel map[logcat.Level]int `json:"by_level"`

	// Sources lists the files or devices that were read.
	Sources []string `json:"sources"`

	// Year is the reference year used for timestamps.
	Year int `json:"year"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration_ns"`
}

// NewSummary creates an empty Summary.
func NewSummary(sources []string, year int) *Summary {
	return &Summary{
		ByLevel: make(map[logcat.Level]int),
		Sources: sources,
		Year:    year,
	}
}

// Observe counts a shown record.
func (s *Summary) Observe(rec *logcat.Record) {
	s.Shown++
	s.ByLevel[rec.Level]++
}

// HasInvalid returns true if any line had an impossible timestamp.
func (s *Summary) HasInvalid() bool {
	return s.Stats.Invalid > 0
}
