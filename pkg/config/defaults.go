package config

import (
	"fmt"
	"os"
	"strconv"
)

// Default values for configuration.
const (
	DefaultADBPath  = "adb"
	DefaultOutput   = "text"
	DefaultTimezone = "UTC"
)

// Environment variable names.
const (
	EnvADB    = "DROIDLOG_ADB"
	EnvSerial = "ANDROID_SERIAL"
	EnvYear   = "DROIDLOG_YEAR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ADBPath:  DefaultADBPath,
		Timezone: DefaultTimezone,
		Output:   DefaultOutput,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if adb := os.Getenv(EnvADB); adb != "" {
		c.ADBPath = adb
	}

	// ANDROID_SERIAL is what adb itself honors.
	if serial := os.Getenv(EnvSerial); serial != "" {
		c.Serial = serial
	}

	if year := os.Getenv(EnvYear); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return fmt.Errorf("%s: invalid year %q", EnvYear, year)
		}
		c.Year = y
	}

	return nil
}
