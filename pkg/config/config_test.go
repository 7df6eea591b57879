package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ccollicutt/droidlog/pkg/logcat"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvADB, "")
	t.Setenv(EnvSerial, "")
	t.Setenv(EnvYear, "")
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	content := `
adb_path: /opt/android-sdk/platform-tools/adb
serial: emulator-5554
log_sources:
  - /tmp/logs/*.log
year: 2023
timezone: Europe/Berlin
output: json
skip_invalid: true
filter:
  min_level: warn
  tags: [ActivityManager, Net]
  pid: "1234"
  grep: 'timeout|ANR'
`
	path := writeTempFile(t, "droidlog.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ADBPath != "/opt/android-sdk/platform-tools/adb" {
		t.Errorf("ADBPath = %q", cfg.ADBPath)
	}
	if cfg.Serial != "emulator-5554" {
		t.Errorf("Serial = %q", cfg.Serial)
	}
	if cfg.Year != 2023 {
		t.Errorf("Year = %d, want 2023", cfg.Year)
	}
	if cfg.Location().String() != "Europe/Berlin" {
		t.Errorf("Location = %v, want Europe/Berlin", cfg.Location())
	}
	if cfg.Output != "json" || !cfg.SkipInvalid {
		t.Errorf("Output = %q, SkipInvalid = %v", cfg.Output, cfg.SkipInvalid)
	}
	if len(cfg.LogSources) != 1 {
		t.Errorf("LogSources = %v", cfg.LogSources)
	}

	f := cfg.Filter.Filter()
	if f.MinLevel != logcat.LevelWarn {
		t.Errorf("MinLevel = %q, want W", f.MinLevel)
	}
	if f.Grep == nil || !f.Grep.MatchString("ANR in com.example") {
		t.Errorf("Grep = %v", f.Grep)
	}
	if len(f.Tags) != 2 || f.PID != "1234" {
		t.Errorf("Filter = %+v", f)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeTempFile(t, "empty.yaml", "")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ADBPath != DefaultADBPath {
		t.Errorf("ADBPath = %q, want %q", cfg.ADBPath, DefaultADBPath)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location = %v, want UTC", cfg.Location())
	}
	if cfg.Year != 0 {
		t.Errorf("Year = %d, want 0", cfg.Year)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/droidlog.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoadOrDefault_NoPath(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadOrDefault(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.ADBPath != DefaultADBPath {
		t.Errorf("ADBPath = %q", cfg.ADBPath)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvADB, "/usr/local/bin/adb")
	t.Setenv(EnvSerial, "R58M123ABC")
	t.Setenv(EnvYear, "2020")

	path := writeTempFile(t, "droidlog.yaml", "adb_path: adb\nyear: 2024\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ADBPath != "/usr/local/bin/adb" {
		t.Errorf("ADBPath = %q", cfg.ADBPath)
	}
	if cfg.Serial != "R58M123ABC" {
		t.Errorf("Serial = %q", cfg.Serial)
	}
	if cfg.Year != 2020 {
		t.Errorf("Year = %d, want 2020", cfg.Year)
	}
}

func TestEnvironmentOverrides_BadYear(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvYear, "last-year")

	_, err := LoadOrDefault(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), EnvYear) {
		t.Errorf("LoadOrDefault() error = %v, want %s error", err, EnvYear)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"empty adb path", func(c *Config) { c.ADBPath = "" }, "adb_path"},
		{"negative year", func(c *Config) { c.Year = -1 }, "year"},
		{"huge year", func(c *Config) { c.Year = 10000 }, "year"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "timezone"},
		{"bad output", func(c *Config) { c.Output = "xml" }, "output"},
		{"bad level", func(c *Config) { c.Filter.MinLevel = "loud" }, "min_level"},
		{"empty tag", func(c *Config) { c.Filter.Tags = []string{"ok", ""} }, "tags[1]"},
		{"bad pid", func(c *Config) { c.Filter.PID = "12a" }, "pid"},
		{"bad grep", func(c *Config) { c.Filter.Grep = "(unclosed" }, "grep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_EmptyOutputDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = ""
	cfg.Timezone = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
}

func TestConfig_ParserOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Year = 2022
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}

	p := logcat.NewParser(cfg.ParserOptions()...)
	if p.Year() != 2022 {
		t.Errorf("Year() = %d, want 2022", p.Year())
	}
}
