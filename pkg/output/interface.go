package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/droidlog/pkg/logcat"
)

// Formatter renders parsed records in a specific format.
type Formatter interface {
	// Format renders one record to the given writer.
	Format(ctx context.Context, rec *logcat.Record, w io.Writer) error

	// Summary renders the end-of-run statistics.
	Summary(ctx context.Context, s *Summary, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds source locations and fingerprints.
	Verbose bool

	// Quiet suppresses records and prints only the summary.
	Quiet bool
}

// Names lists the available formats.
var Names = []string{"text", "json"}

// New returns the formatter called name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "", "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (must be text or json)", name)
	}
}
