package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ccollicutt/droidlog/internal/cli"
	"github.com/ccollicutt/droidlog/pkg/config"
	"github.com/ccollicutt/droidlog/pkg/detector"
	"github.com/ccollicutt/droidlog/pkg/logcat"
)

var (
	projectRoot string
	rootOnce    sync.Once
)

// chdir changes to the project root directory for tests.
// Config files use paths relative to project root.
func chdir(t *testing.T) {
	t.Helper()
	rootOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		projectRoot = filepath.Dir(filepath.Dir(filename))
	})
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("Failed to chdir to project root: %v", err)
	}
}

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvADB, "")
	t.Setenv(config.EnvSerial, "")
	t.Setenv(config.EnvYear, "")
}

// TestE2E_DeviceDump tests the full pipeline from config to filtered records.
func TestE2E_DeviceDump(t *testing.T) {
	chdir(t)
	clearEnv(t)
	configFile := filepath.Join("testdata", "configs", "device.yaml")
	requireFile(t, configFile)
	ctx := context.Background()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	files, err := logcat.ExpandGlobs(cfg.LogSources)
	if err != nil {
		t.Fatalf("Failed to expand globs: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Expected 1 log file, got %d", len(files))
	}
	requireFile(t, files[0])

	source := logcat.NewFileSource(files, logcat.NewParser(cfg.ParserOptions()...))
	defer source.Close()

	filter := cfg.Filter.Filter()
	var kept []*logcat.Record
	for {
		rec, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if filter.Match(rec) {
			kept = append(kept, rec)
		}
	}

	if len(kept) != 2 {
		t.Fatalf("Expected 2 records at W or above, got %d", len(kept))
	}
	if kept[0].Tag != "ExampleApp" || kept[0].Level != logcat.LevelWarn {
		t.Errorf("first record = %s", kept[0])
	}
	if kept[1].Tag != "AudioFlinger" || kept[1].Level != logcat.LevelError {
		t.Errorf("second record = %s", kept[1])
	}

	want := time.Date(2024, time.January, 15, 10, 30, 1, 500_000_000, time.UTC)
	if !kept[1].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", kept[1].Timestamp, want)
	}

	stats := source.Stats()
	if stats.LinesRead != 9 || stats.Matched != 6 || stats.Unmatched != 3 || stats.Invalid != 0 {
		t.Errorf("Stats = %+v, want 9 read, 6 matched, 3 unmatched", stats)
	}
}

// TestE2E_CLI_ParseJSON runs the parse command through the root command.
func TestE2E_CLI_ParseJSON(t *testing.T) {
	chdir(t)
	clearEnv(t)
	configFile := filepath.Join("testdata", "configs", "device.yaml")

	var out bytes.Buffer
	root := cli.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"parse", "--config", configFile, "--output", "json", "--level", "E"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 JSON line, got %d:\n%s", len(lines), out.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if rec["tag"] != "AudioFlinger" || rec["level"] != "E" || rec["pid"] != "567" {
		t.Errorf("record = %v", rec)
	}
}

// TestE2E_Detect_DeviceDump checks the committed dump is recognized as threadtime.
func TestE2E_Detect_DeviceDump(t *testing.T) {
	chdir(t)
	logFile := filepath.Join("testdata", "logs", "device_threadtime.log")
	requireFile(t, logFile)

	result, err := detector.New().DetectFromFile(context.Background(), logFile)
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}
	if !result.Parseable() {
		t.Fatalf("Expected threadtime, got %+v", result.BestMatch())
	}
}
