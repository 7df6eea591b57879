// Package commands implements the droidlog subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/droidlog/pkg/logcat"
	"github.com/ccollicutt/droidlog/pkg/output"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// commandContext returns the command's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

type statter interface {
	Stats() logcat.Stats
}

// drain reads every record from src, prints those that pass filter and
// returns the run summary. Lines with invalid timestamps are logged and skipped.
func drain(ctx context.Context, src logcat.Source, filter logcat.Filter, f output.Formatter, w io.Writer, summary *output.Summary) error {
	for {
		rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var le *logcat.LineError
			if errors.As(err, &le) {
				log.Warn().
					Str("source", le.Source).
					Int("line", le.LineNum).
					Err(le.Err).
					Msg("Skipping line with invalid timestamp")
				continue
			}
			if errors.Is(err, context.Canceled) {
				break
			}
			return err
		}

		if !filter.Match(rec) {
			continue
		}
		summary.Observe(rec)
		if err := f.Format(ctx, rec, w); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}

	if s, ok := src.(statter); ok {
		summary.Stats = s.Stats()
	}
	return nil
}
