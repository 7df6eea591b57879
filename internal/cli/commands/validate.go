package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/droidlog/pkg/config"
	"github.com/ccollicutt/droidlog/pkg/logcat"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a droidlog configuration file without reading any logs.

Checks:
  - YAML syntax
  - Reference year range
  - Time zone name
  - Output format
  - Filter level and regex validity
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd)
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  adb:       %s\n", cfg.ADBPath)
	if cfg.Serial != "" {
		fmt.Fprintf(w, "  Serial:    %s\n", cfg.Serial)
	}
	if cfg.Year > 0 {
		fmt.Fprintf(w, "  Year:      %d\n", cfg.Year)
	} else {
		fmt.Fprintf(w, "  Year:      current\n")
	}
	fmt.Fprintf(w, "  Time zone: %s\n", cfg.Location())
	fmt.Fprintf(w, "  Output:    %s\n", cfg.Output)

	if len(cfg.LogSources) == 0 {
		return nil
	}

	files, err := logcat.ExpandGlobs(cfg.LogSources)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding log source patterns: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "\nLog files matched: %d\n", len(files))
	for _, f := range files {
		fmt.Fprintf(w, "  - %s\n", f)
	}

	return nil
}
