package logcat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// Source provides an iterator over parsed records.
// Implementations are for sequential access only.
type Source interface {
	// Next returns the next record.
	// Returns io.EOF when no more lines are available.
	// Lines that are not in threadtime format are skipped.
	// A *LineError reports a line with an invalid timestamp; calling Next
	// again continues with the following line.
	Next(ctx context.Context) (*Record, error)

	// Close releases any resources held by the source.
	Close() error
}

// LineError locates a line that matched the threadtime shape but could not be parsed.
type LineError struct {
	Source  string
	LineNum int
	Line    string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.LineNum, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// IsLineError reports whether err is a recoverable per-line error.
func IsLineError(err error) bool {
	var le *LineError
	return errors.As(err, &le)
}

// Stats counts what a source has seen so far.
type Stats struct {
	// LinesRead is every line scanned, matched or not.
	LinesRead int `json:"lines_read"`

	// Matched is the number of records produced.
	Matched int `json:"matched"`

	// Unmatched is the number of lines not in threadtime format.
	Unmatched int `json:"unmatched"`

	// Invalid is the number of lines with an impossible timestamp.
	Invalid int `json:"invalid"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.LinesRead += o.LinesRead
	s.Matched += o.Matched
	s.Unmatched += o.Unmatched
	s.Invalid += o.Invalid
}

// SourceOption configures a reader or file source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	skipInvalid bool
	maxLine     int
}

// WithSkipInvalid makes the source count and skip lines with invalid
// timestamps instead of returning a *LineError.
func WithSkipInvalid(skip bool) SourceOption {
	return func(c *sourceConfig) {
		c.skipInvalid = skip
	}
}

// WithMaxLineSize sets the longest line the scanner accepts (default 1MB).
func WithMaxLineSize(n int) SourceOption {
	return func(c *sourceConfig) {
		if n > 0 {
			c.maxLine = n
		}
	}
}

func newSourceConfig(opts []SourceOption) sourceConfig {
	cfg := sourceConfig{maxLine: 1024 * 1024}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ReaderSource parses records from a single stream such as stdin or adb output.
type ReaderSource struct {
	name    string
	parser  *Parser
	cfg     sourceConfig
	scanner *bufio.Scanner
	closer  io.Closer
	lineNum int
	stats   Stats
}

// NewReaderSource creates a Source reading lines from r.
// name is recorded as the Source of every record.
// If r is an io.Closer it is closed by Close.
func NewReaderSource(name string, r io.Reader, p *Parser, opts ...SourceOption) *ReaderSource {
	if p == nil {
		p = defaultParser
	}
	cfg := newSourceConfig(opts)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), cfg.maxLine)

	s := &ReaderSource{
		name:    name,
		parser:  p,
		cfg:     cfg,
		scanner: scanner,
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next returns the next record.
func (s *ReaderSource) Next(ctx context.Context) (*Record, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", s.name, err)
			}
			return nil, io.EOF
		}

		s.lineNum++
		s.stats.LinesRead++
		line := s.scanner.Text()

		rec, err := s.parser.Parse(line)
		if err != nil {
			s.stats.Invalid++
			if s.cfg.skipInvalid {
				continue
			}
			return nil, &LineError{Source: s.name, LineNum: s.lineNum, Line: line, Err: err}
		}
		if rec == nil {
			s.stats.Unmatched++
			continue
		}

		s.stats.Matched++
		rec.Source = s.name
		rec.LineNum = s.lineNum
		return rec, nil
	}
}

// Stats returns the counts so far.
func (s *ReaderSource) Stats() Stats {
	return s.stats
}

// Close closes the underlying reader if it is closable.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}
