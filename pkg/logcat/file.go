package logcat

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource reads records from a list of files in order.
// Gzip and zstd compressed files are decompressed transparently.
type FileSource struct {
	files  []string
	parser *Parser
	opts   []SourceOption

	current   *ReaderSource
	fileIndex int
	stats     Stats
}

// NewFileSource creates a Source over the given files.
func NewFileSource(files []string, p *Parser, opts ...SourceOption) *FileSource {
	return &FileSource{
		files:     files,
		parser:    p,
		opts:      opts,
		fileIndex: -1,
	}
}

// Next returns the next record across all files.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Record, error) {
	for {
		if s.current == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		rec, err := s.current.Next(ctx)
		if err != io.EOF {
			return rec, err
		}

		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Stats returns the counts across every file read so far.
func (s *FileSource) Stats() Stats {
	total := s.stats
	if s.current != nil {
		total.Add(s.current.Stats())
	}
	return total
}

// Close releases the currently open file.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	r, err := Decompress(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.current = NewReaderSource(path, r, s.parser, s.opts...)
	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.current == nil {
		return nil
	}
	s.stats.Add(s.current.Stats())
	err := s.current.Close()
	s.current = nil
	return err
}
