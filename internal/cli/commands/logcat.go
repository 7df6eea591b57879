package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/droidlog/pkg/config"
	"github.com/ccollicutt/droidlog/pkg/logcat"
	"github.com/ccollicutt/droidlog/pkg/output"
)

// LogcatOptions holds command-line options for the logcat command.
type LogcatOptions struct {
	ParseOptions
	Serial string
	Dump   bool
}

// NewLogcatCommand creates the logcat command.
func NewLogcatCommand() *cobra.Command {
	opts := &LogcatOptions{}

	cmd := &cobra.Command{
		Use:   "logcat",
		Short: "Stream and parse a device log",
		Long: `Run 'adb logcat -v threadtime' against a device and parse its output.

The device is taken from --serial, the config file or ANDROID_SERIAL.
When none is set and several devices are attached, one is picked at random.

Streams until interrupted, or exits after the current buffer with --dump.

Example:
  droidlog logcat --level E
  droidlog logcat -s emulator-5554 --dump -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogcat(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to droidlog.yaml")
	cmd.Flags().StringVarP(&opts.Serial, "serial", "s", "", "Device serial (default from config or ANDROID_SERIAL)")
	cmd.Flags().BoolVarP(&opts.Dump, "dump", "d", false, "Dump the current log buffer and exit")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "Time zone of the device clock (default UTC)")
	cmd.Flags().StringVarP(&opts.Level, "level", "l", "", "Minimum level to show (V|D|I|W|E|F|S)")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "Only show these tags (can be repeated)")
	cmd.Flags().StringVar(&opts.PID, "pid", "", "Only show this process id")
	cmd.Flags().StringVarP(&opts.Grep, "grep", "g", "", "Only show messages matching this regex")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show fingerprints and a summary")

	return cmd
}

func runLogcat(cmd *cobra.Command, opts *LogcatOptions) error {
	ctx := commandContext(cmd)
	start := time.Now()

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// Live output is always for the current year.
	cfg.Year = 0
	cfg.SkipInvalid = true
	if err := applyParseFlags(cmd, cfg, &opts.ParseOptions); err != nil {
		return err
	}

	serial := cfg.Serial
	if cmd.Flags().Changed("serial") {
		serial = opts.Serial
	}

	enum := newEnumerator(cfg)
	serial, err = enum.Resolve(ctx, serial, nil)
	if err != nil {
		return fmt.Errorf("selecting device: %w", err)
	}

	var extra []string
	if opts.Dump {
		extra = append(extra, "-d")
	}

	stdout, wait, err := enum.Logcat(ctx, serial, extra...)
	if err != nil {
		return err
	}

	formatter, err := output.New(cfg.Output, output.FormatOptions{Verbose: opts.Verbose})
	if err != nil {
		_ = stdout.Close()
		_ = wait()
		return err
	}

	log.Info().Str("serial", serial).Bool("dump", opts.Dump).Msg("Reading device log")

	parser := logcat.NewParser(cfg.ParserOptions()...)
	source := logcat.NewReaderSource(serial, stdout, parser, logcat.WithSkipInvalid(true))

	w := cmd.OutOrStdout()
	summary := output.NewSummary([]string{serial}, parser.Year())
	drainErr := drain(ctx, source, cfg.Filter.Filter(), formatter, w, summary)
	_ = source.Close()
	waitErr := wait()
	summary.Duration = time.Since(start)

	if drainErr != nil {
		return drainErr
	}
	if waitErr != nil && ctx.Err() == nil {
		return fmt.Errorf("adb logcat: %w", waitErr)
	}

	if opts.Verbose {
		return formatter.Summary(ctx, summary, w)
	}
	return nil
}
