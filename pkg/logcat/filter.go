package logcat

import (
	"regexp"
	"slices"
	"strings"
)

// Filter selects records. The zero Filter matches everything.
type Filter struct {
	// MinLevel drops records below this priority.
	MinLevel Level

	// Tags keeps only records whose tag is listed.
	// logcat pads short tags with spaces; they are trimmed before comparing.
	Tags []string

	// PID keeps only records from this process.
	PID string

	// Grep keeps only records whose content matches.
	Grep *regexp.Regexp
}

// Match reports whether r passes every configured condition.
func (f Filter) Match(r *Record) bool {
	if r == nil {
		return false
	}
	if f.MinLevel != "" && r.Level.Priority() < f.MinLevel.Priority() {
		return false
	}
	if len(f.Tags) > 0 && !slices.Contains(f.Tags, strings.TrimSpace(r.Tag)) {
		return false
	}
	if f.PID != "" && r.PID != f.PID {
		return false
	}
	if f.Grep != nil && !f.Grep.MatchString(r.Content) {
		return false
	}
	return true
}
