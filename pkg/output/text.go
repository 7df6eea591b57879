package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/droidlog/pkg/logcat"
)

// TextFormatter prints records back in threadtime layout.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format writes one record per line.
func (f *TextFormatter) Format(_ context.Context, rec *logcat.Record, w io.Writer) error {
	if f.opts.Quiet {
		return nil
	}

	var err error
	if f.opts.Verbose {
		_, err = fmt.Fprintf(w, "%s:%d %s [%s]\n", rec.Source, rec.LineNum, rec, rec.Fingerprint()[:8])
	} else {
		_, err = fmt.Fprintln(w, rec)
	}
	return err
}

// Summary writes the run totals.
func (f *TextFormatter) Summary(_ context.Context, s *Summary, w io.Writer) error {
	if !f.opts.Quiet {
		fmt.Fprintln(w, "---")
	}
	fmt.Fprintf(w, "Summary: %d lines read, %d matched, %d shown, %d unmatched, %d invalid\n",
		s.Stats.LinesRead, s.Stats.Matched, s.Shown, s.Stats.Unmatched, s.Stats.Invalid)

	if f.opts.Verbose {
		var parts []string
		for _, lv := range logcat.Levels {
			if n := s.ByLevel[lv]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s=%d", lv, n))
			}
		}
		if len(parts) > 0 {
			fmt.Fprintf(w, "Levels: %s\n", strings.Join(parts, " "))
		}
		fmt.Fprintf(w, "Reference year: %d\n", s.Year)
		fmt.Fprintf(w, "Duration: %s\n", s.Duration.Round(1e6))
	}

	return nil
}
