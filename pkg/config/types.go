// Package config provides configuration loading and validation for droidlog.
package config

import (
	"regexp"
	"time"

	"github.com/ccollicutt/droidlog/pkg/logcat"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// ADBPath is the adb binary used for device commands.
	ADBPath string `yaml:"adb_path"`

	// Serial selects a device. Empty picks one of the attached devices.
	Serial string `yaml:"serial,omitempty"`

	// LogSources are files or globs parsed when none are given on the command line.
	LogSources []string `yaml:"log_sources,omitempty"`

	// Year is the reference year for timestamps, which logcat does not print.
	// Zero means the current year at parse time.
	Year int `yaml:"year,omitempty"`

	// Timezone is the IANA zone the device clock runs in (default UTC).
	Timezone string `yaml:"timezone,omitempty"`

	// Output is the output format (text or json).
	Output string `yaml:"output"`

	// SkipInvalid skips lines whose timestamp is not a real date instead of failing.
	SkipInvalid bool `yaml:"skip_invalid,omitempty"`

	// Filter selects which records are printed.
	Filter FilterConfig `yaml:"filter"`

	// location is the resolved Timezone (populated during validation).
	location *time.Location
}

// Location returns the resolved time zone.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// ParserOptions returns the logcat parser options this config describes.
func (c *Config) ParserOptions() []logcat.Option {
	return []logcat.Option{
		logcat.WithYear(c.Year),
		logcat.WithLocation(c.Location()),
	}
}

// FilterConfig selects records by level, tag, process and content.
type FilterConfig struct {
	MinLevel string   `yaml:"min_level,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	PID      string   `yaml:"pid,omitempty"`
	Grep     string   `yaml:"grep,omitempty"`

	level        logcat.Level
	compiledGrep *regexp.Regexp
}

// Filter returns the compiled record filter.
func (f *FilterConfig) Filter() logcat.Filter {
	return logcat.Filter{
		MinLevel: f.level,
		Tags:     f.Tags,
		PID:      f.PID,
		Grep:     f.compiledGrep,
	}
}
