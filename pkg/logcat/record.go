// Package logcat parses Android device log lines in the "threadtime" format
// produced by `adb logcat -v threadtime`.
package logcat

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/droidlog/pkg/hashing"
	"github.com/ccollicutt/droidlog/pkg/lazy"
)

// Level is the single-letter logcat severity.
type Level string

const (
	LevelVerbose Level = "V"
	LevelDebug   Level = "D"
	LevelInfo    Level = "I"
	LevelWarn    Level = "W"
	LevelError   Level = "E"
	LevelFatal   Level = "F"
	LevelSilent  Level = "S"
)

// Levels lists every level in ascending priority.
var Levels = []Level{LevelVerbose, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal, LevelSilent}

var levelNames = map[Level]string{
	LevelVerbose: "verbose",
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelWarn:    "warn",
	LevelError:   "error",
	LevelFatal:   "fatal",
	LevelSilent:  "silent",
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// Name returns the lower-case level name, e.g. "warn".
func (l Level) Name() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// Priority follows android.util.Log (VERBOSE=2 .. ASSERT=7), with silent above all.
// Unknown levels have priority 0.
func (l Level) Priority() int {
	for i, lv := range Levels {
		if lv == l {
			return i + 2
		}
	}
	return 0
}

// ParseLevel accepts a level letter ("W") or name ("warn"), case-insensitive.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		l := Level(strings.ToUpper(s))
		if l.Valid() {
			return l, nil
		}
	}
	lower := strings.ToLower(s)
	for l, name := range levelNames {
		if name == lower {
			return l, nil
		}
	}
	if lower == "warning" {
		return LevelWarn, nil
	}
	return "", fmt.Errorf("unknown log level %q (must be one of V, D, I, W, E, F, S)", s)
}

// Record is one parsed logcat line.
type Record struct {
	PID       string    `json:"pid"`
	TID       string    `json:"tid"`
	Level     Level     `json:"level"`
	Tag       string    `json:"tag"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Raw is the line as it was matched.
	Raw string `json:"-"`

	// Source and LineNum are filled in by sources, not by the parser.
	Source  string `json:"source,omitempty"`
	LineNum int    `json:"line,omitempty"`

	fingerprint *lazy.Value[string]
}

func newRecord(raw string) *Record {
	r := &Record{Raw: raw}
	r.fingerprint = lazy.New(func() string { return hashing.MD5Hex(raw) })
	return r
}

// Fingerprint returns the MD5 hex digest of Raw.
// It is computed on first use and cached for the record's lifetime.
func (r *Record) Fingerprint() string {
	if r.fingerprint == nil {
		return hashing.MD5Hex(r.Raw)
	}
	return r.fingerprint.Get()
}

// Equal compares the parsed fields of two records.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.PID == o.PID &&
		r.TID == o.TID &&
		r.Level == o.Level &&
		r.Tag == o.Tag &&
		r.Content == o.Content &&
		r.Timestamp.Equal(o.Timestamp)
}

// String renders the record back in threadtime layout.
func (r *Record) String() string {
	return fmt.Sprintf("%s %5s %5s %s %s: %s",
		r.Timestamp.Format("01-02 15:04:05.000"), r.PID, r.TID, r.Level, r.Tag, r.Content)
}
