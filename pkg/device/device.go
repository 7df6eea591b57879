// Package device enumerates Android devices through adb.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/ccollicutt/droidlog/pkg/choice"
)

// DefaultADB is the adb binary looked up in PATH.
const DefaultADB = "adb"

// StateDevice is the adb state of an attached, authorized device.
const StateDevice = "device"

// ErrNoDevices is returned when no device is in the "device" state.
var ErrNoDevices = errors.New("no devices attached")

// Enumerator lists devices and opens their log streams.
type Enumerator struct {
	// ADB is the adb binary (default "adb").
	ADB string

	// Runner runs adb (default ExecRunner).
	Runner Runner
}

// NewEnumerator creates an Enumerator for the given adb binary.
func NewEnumerator(adb string) *Enumerator {
	return &Enumerator{ADB: adb}
}

func (e *Enumerator) adb() string {
	if e.ADB == "" {
		return DefaultADB
	}
	return e.ADB
}

func (e *Enumerator) runner() Runner {
	if e.Runner == nil {
		return ExecRunner{}
	}
	return e.Runner
}

// Devices runs `adb devices` and returns the serials of attached devices,
// in the order adb lists them. Offline and unauthorized devices are excluded.
func (e *Enumerator) Devices(ctx context.Context) ([]string, error) {
	out, err := e.runner().Output(ctx, e.adb(), "devices")
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	return ParseDevices(string(out)), nil
}

// ParseDevices extracts serials from `adb devices` output: lines made of
// exactly two fields where the second is "device".
func ParseDevices(output string) []string {
	var devices []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == StateDevice {
			devices = append(devices, fields[0])
		}
	}
	return devices
}

// Pick returns one of devices chosen uniformly. A nil rng uses the global source.
func Pick(devices []string, rng *rand.Rand) (string, error) {
	if len(devices) == 0 {
		return "", ErrNoDevices
	}
	return choice.Choose(choice.Uniform(devices), rng)
}

// Resolve returns serial if set, otherwise picks one of the attached devices.
func (e *Enumerator) Resolve(ctx context.Context, serial string, rng *rand.Rand) (string, error) {
	if serial != "" {
		return serial, nil
	}
	devices, err := e.Devices(ctx)
	if err != nil {
		return "", err
	}
	return Pick(devices, rng)
}

// LogcatArgs returns the adb arguments that dump serial's log in threadtime format.
// An empty serial leaves device selection to adb.
func LogcatArgs(serial string, extra ...string) []string {
	var args []string
	if serial != "" {
		args = append(args, "-s", serial)
	}
	args = append(args, "logcat", "-v", "threadtime")
	return append(args, extra...)
}

// Logcat starts `adb logcat -v threadtime` and returns its output stream.
// Extra arguments are passed to logcat, e.g. "-d" to dump and exit.
func (e *Enumerator) Logcat(ctx context.Context, serial string, extra ...string) (io.ReadCloser, func() error, error) {
	stdout, wait, err := e.runner().Stream(ctx, e.adb(), LogcatArgs(serial, extra...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("starting logcat: %w", err)
	}
	return stdout, wait, nil
}
