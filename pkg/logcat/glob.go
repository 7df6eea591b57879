package logcat

import (
	"fmt"
	"path/filepath"
	"slices"
)

// ExpandGlobs expands file paths and glob patterns into a sorted list with
// duplicates removed. A pattern that matches nothing is kept as a literal
// path so that opening it later reports a useful error.
func ExpandGlobs(patterns []string) ([]string, error) {
	var result []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		result = append(result, matches...)
	}

	slices.Sort(result)
	return slices.Compact(result), nil
}
