package logcat

import (
	"regexp"

	"github.com/ccollicutt/droidlog/pkg/deprecation"
)

// ParseLog parses a threadtime line against the current year.
//
// Deprecated: use Parse, or a Parser built with WithYear so results do not
// depend on the wall clock. Every call logs a deprecation warning.
var ParseLog = deprecation.WrapErr(nil, "ParseLog",
	"use logcat.Parse or a Parser with an explicit reference year", Parse)

// SafeMatch matches re at the start of content and returns the submatches.
// It returns nil when re is nil, content is empty or there is no match.
func SafeMatch(re *regexp.Regexp, content string) []string {
	if re == nil || content == "" {
		return nil
	}
	loc := re.FindStringSubmatchIndex(content)
	if loc == nil || loc[0] != 0 {
		return nil
	}
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = content[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}
