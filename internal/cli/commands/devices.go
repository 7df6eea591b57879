package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/droidlog/pkg/config"
	"github.com/ccollicutt/droidlog/pkg/device"
)

// DevicesOptions holds command-line options for the devices command.
type DevicesOptions struct {
	ConfigPath string
	Output     string
}

// newEnumerator is replaced in tests to avoid running adb.
var newEnumerator = func(cfg *config.Config) *device.Enumerator {
	return device.NewEnumerator(cfg.ADBPath)
}

// NewDevicesCommand creates the devices command.
func NewDevicesCommand() *cobra.Command {
	opts := &DevicesOptions{}

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List attached Android devices",
		Long: `List the serials of devices that adb reports in the "device" state.

Offline and unauthorized devices are left out.

Exit codes:
  0 - At least one device attached
  1 - No devices attached
  2 - adb could not be run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevices(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to droidlog.yaml")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runDevices(cmd *cobra.Command, opts *DevicesOptions) error {
	ctx := commandContext(cmd)

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	devices, err := newEnumerator(cfg).Devices(ctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		log.Warn().Str("adb", cfg.ADBPath).Msg("No devices attached")
		ExitCode = 1
	}

	w := cmd.OutOrStdout()
	switch opts.Output {
	case "json":
		if devices == nil {
			devices = []string{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(devices)
	case "text":
		for _, d := range devices {
			fmt.Fprintln(w, d)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}
