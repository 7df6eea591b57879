package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"time"
	_ "time/tzdata" // device time zones must resolve on hosts without a zoneinfo database

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/droidlog/pkg/logcat"
	"github.com/ccollicutt/droidlog/pkg/output"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// LoadOrDefault loads path, or the defaults when path is empty.
// Environment overrides and validation apply either way.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	return finish(DefaultConfig())
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, resolves the time zone and
// compiles the filter.
func Validate(cfg *Config) error {
	if cfg.ADBPath == "" {
		return errors.New("adb_path: must not be empty")
	}

	if cfg.Year < 0 || cfg.Year > 9999 {
		return fmt.Errorf("year: %d out of range (0 for current year, or 1-9999)", cfg.Year)
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	cfg.location = loc

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if !slices.Contains(output.Names, cfg.Output) {
		return fmt.Errorf("output: invalid format %q (must be text or json)", cfg.Output)
	}

	if err := validateFilter(&cfg.Filter); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	return nil
}

func validateFilter(f *FilterConfig) error {
	f.level = ""
	if f.MinLevel != "" {
		lv, err := logcat.ParseLevel(f.MinLevel)
		if err != nil {
			return fmt.Errorf("min_level: %w", err)
		}
		f.level = lv
	}

	for i, tag := range f.Tags {
		if tag == "" {
			return fmt.Errorf("tags[%d]: must not be empty", i)
		}
	}

	for _, c := range f.PID {
		if c < '0' || c > '9' {
			return fmt.Errorf("pid: %q is not a process id", f.PID)
		}
	}

	f.compiledGrep = nil
	if f.Grep != "" {
		re, err := regexp.Compile(f.Grep)
		if err != nil {
			return fmt.Errorf("invalid grep pattern: %w", err)
		}
		f.compiledGrep = re
	}

	return nil
}
