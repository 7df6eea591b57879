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

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	ConfigPath  string
	Output      string
	Year        int
	Timezone    string
	Level       string
	Tags        []string
	PID         string
	Grep        string
	SkipInvalid bool
	Merge       bool
	Verbose     bool
	Quiet       bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [log-file...]",
		Short: "Parse threadtime logcat output",
		Long: `Parse log lines produced by 'adb logcat -v threadtime'.

Reads the given files (globs allowed, gzip and zstd are decompressed
automatically) or standard input when no files are given or the file is "-".
Lines that are not in threadtime format are skipped.

logcat does not print the year, so timestamps use the current year unless
--year or the config file sets one.

Exit codes:
  0 - All matching lines parsed
  1 - Some lines had impossible timestamps (see --skip-invalid)
  2 - Configuration or runtime error

Example:
  adb logcat -d -v threadtime | droidlog parse --level W
  droidlog parse --year 2024 -o json bugreport-logcat.txt.gz
  droidlog parse --merge --tag ActivityManager device1.log device2.log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to droidlog.yaml")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "Output format (text|json)")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "Reference year for timestamps (default current year)")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "Time zone of the device clock (default UTC)")
	cmd.Flags().StringVarP(&opts.Level, "level", "l", "", "Minimum level to show (V|D|I|W|E|F|S)")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "Only show these tags (can be repeated)")
	cmd.Flags().StringVar(&opts.PID, "pid", "", "Only show this process id")
	cmd.Flags().StringVarP(&opts.Grep, "grep", "g", "", "Only show messages matching this regex")
	cmd.Flags().BoolVar(&opts.SkipInvalid, "skip-invalid", false, "Skip lines with impossible timestamps without failing")
	cmd.Flags().BoolVar(&opts.Merge, "merge", false, "Interleave multiple files by timestamp")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show source locations, fingerprints and a summary")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no records")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := commandContext(cmd)
	start := time.Now()

	cfg, err := config.LoadOrDefault(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyParseFlags(cmd, cfg, opts); err != nil {
		return err
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.LogSources
	}

	parser := logcat.NewParser(cfg.ParserOptions()...)
	srcOpts := []logcat.SourceOption{logcat.WithSkipInvalid(cfg.SkipInvalid)}

	source, names, err := openSources(cmd, patterns, parser, opts.Merge, srcOpts)
	if err != nil {
		return err
	}
	defer source.Close()

	formatter, err := output.New(cfg.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	log.Debug().
		Strs("sources", names).
		Int("year", parser.Year()).
		Str("timezone", cfg.Location().String()).
		Msg("Parsing logcat")

	w := cmd.OutOrStdout()
	summary := output.NewSummary(names, parser.Year())
	if err := drain(ctx, source, cfg.Filter.Filter(), formatter, w, summary); err != nil {
		return err
	}
	summary.Duration = time.Since(start)

	if opts.Verbose || opts.Quiet {
		if err := formatter.Summary(ctx, summary, w); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	if summary.HasInvalid() && !cfg.SkipInvalid {
		ExitCode = 1
	}

	return nil
}

// applyParseFlags overrides config values with flags the user set explicitly.
func applyParseFlags(cmd *cobra.Command, cfg *config.Config, opts *ParseOptions) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("year") {
		cfg.Year = opts.Year
	}
	if flags.Changed("timezone") {
		cfg.Timezone = opts.Timezone
	}
	if flags.Changed("level") {
		cfg.Filter.MinLevel = opts.Level
	}
	if flags.Changed("tag") {
		cfg.Filter.Tags = opts.Tags
	}
	if flags.Changed("pid") {
		cfg.Filter.PID = opts.PID
	}
	if flags.Changed("grep") {
		cfg.Filter.Grep = opts.Grep
	}
	if flags.Changed("skip-invalid") {
		cfg.SkipInvalid = opts.SkipInvalid
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

// openSources builds a single Source over stdin and/or the expanded file patterns.
func openSources(cmd *cobra.Command, patterns []string, p *logcat.Parser, merge bool, opts []logcat.SourceOption) (logcat.Source, []string, error) {
	if len(patterns) == 0 {
		patterns = []string{"-"}
	}

	var files []string
	var names []string
	useStdin := false
	for _, pattern := range patterns {
		if pattern == "-" {
			useStdin = true
			continue
		}
		expanded, err := logcat.ExpandGlobs([]string{pattern})
		if err != nil {
			return nil, nil, fmt.Errorf("expanding log sources: %w", err)
		}
		files = append(files, expanded...)
	}

	var sources []logcat.Source
	if useStdin {
		r, err := logcat.Decompress(cmd.InOrStdin())
		if err != nil {
			return nil, nil, fmt.Errorf("reading stdin: %w", err)
		}
		sources = append(sources, logcat.NewReaderSource("stdin", r, p, opts...))
		names = append(names, "stdin")
	}

	if merge {
		for _, f := range files {
			sources = append(sources, logcat.NewFileSource([]string{f}, p, opts...))
		}
	} else if len(files) > 0 {
		sources = append(sources, logcat.NewFileSource(files, p, opts...))
	}
	names = append(names, files...)

	if len(sources) == 1 {
		return sources[0], names, nil
	}
	return logcat.NewMergedSource(sources...), names, nil
}
