package output

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/ccollicutt/droidlog/pkg/logcat"
)

// JSONFormatter writes newline-delimited JSON, one object per record.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

type jsonRecord struct {
	PID         string       `json:"pid"`
	TID         string       `json:"tid"`
	Level       logcat.Level `json:"level"`
	Tag         string       `json:"tag"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Source      string       `json:"source,omitempty"`
	Line        int          `json:"line,omitempty"`
	Fingerprint string       `json:"fingerprint,omitempty"`
}

// Format writes rec as a single JSON line.
func (f *JSONFormatter) Format(_ context.Context, rec *logcat.Record, w io.Writer) error {
	if f.opts.Quiet {
		return nil
	}

	out := jsonRecord{
		PID:       rec.PID,
		TID:       rec.TID,
		Level:     rec.Level,
		Tag:       rec.Tag,
		Content:   rec.Content,
		Timestamp: rec.Timestamp,
	}
	if f.opts.Verbose {
		out.Source = rec.Source
		out.Line = rec.LineNum
		out.Fingerprint = rec.Fingerprint()
	}
	return json.NewEncoder(w).Encode(out)
}

// Summary writes {"summary": {...}} as the final line.
func (f *JSONFormatter) Summary(_ context.Context, s *Summary, w io.Writer) error {
	return json.NewEncoder(w).Encode(struct {
		Summary *Summary `json:"summary"`
	}{s})
}
