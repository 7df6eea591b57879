// Package detector identifies which adb logcat output format a dump was
// captured with.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/droidlog/pkg/logcat"
)

// DetectionResult holds the result of analyzing a log dump.
type DetectionResult struct {
	Matches      []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines int           // Number of lines sampled
	MatchedLines int           // Number of lines matching the best format
	Note         string        // Advice when the best format is not parseable
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *LogFormat
	Confidence float64   // 0.0 to 1.0 (fraction of sampled lines matched)
	MatchCount int       // Number of lines that matched
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Timestamp of the sample, zero if the format has none
}

// Detector samples log lines and scores them against known logcat formats.
type Detector struct {
	formats    []*LogFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a log dump, which may be gzip or zstd compressed,
// and returns the detected formats.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	type formatStats struct {
		format     *LogFormat
		matchCount int
		sampleLine string
		parsedTime time.Time
	}

	stats := make(map[string]*formatStats)

	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if isBanner(line) {
			continue
		}
		result.SampledLines++

		for _, format := range d.formats {
			matches := format.Pattern.FindStringSubmatch(line)
			if matches == nil {
				continue
			}

			var parsed time.Time
			if format.HasTimestamp() {
				var ok bool
				parsed, ok = parseTimestamp(matches[1], format.Layout)
				if !ok {
					continue
				}
			}

			s := stats[format.Name]
			if s == nil {
				s = &formatStats{format: format, sampleLine: line, parsedTime: parsed}
				stats[format.Name] = s
			}
			s.matchCount++
		}
	}

	if result.SampledLines == 0 {
		return result
	}

	for _, s := range stats {
		result.Matches = append(result.Matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(result.SampledLines),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}

	// Sort by confidence descending, then by pattern length (more specific first)
	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Confidence != result.Matches[j].Confidence {
			return result.Matches[i].Confidence > result.Matches[j].Confidence
		}
		return len(result.Matches[i].Format.PatternStr) > len(result.Matches[j].Format.PatternStr)
	})

	if best := result.BestMatch(); best != nil {
		result.MatchedLines = best.MatchCount
		if !best.Format.Supported {
			result.Note = fmt.Sprintf("Lines look like logcat -v %s output. "+
				"droidlog parses threadtime only; recapture with: adb logcat -v threadtime", best.Format.Name)
		}
	}

	return result
}

// isBanner reports lines logcat writes between records, such as
// "--------- beginning of main", and blank lines.
func isBanner(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "--------- ")
}

func parseTimestamp(tsStr, layout string) (time.Time, bool) {
	if layout == layoutEpoch {
		secs, frac, _ := strings.Cut(tsStr, ".")
		s, err := strconv.ParseInt(secs, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		ms, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		// Sanity check: reasonable Unix timestamp range (1970-2100)
		if s > 4102444800 {
			return time.Time{}, false
		}
		return time.Unix(s, ms*int64(time.Millisecond)).UTC(), true
	}

	t, err := time.Parse(layout, tsStr)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// sampleFile reads up to sampleSize non-banner lines from a file.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	rc, err := logcat.Decompress(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer rc.Close()

	var lines []string
	scanner := bufio.NewScanner(rc)

	for scanner.Scan() && len(lines) < d.sampleSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if !isBanner(line) {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// Parseable reports whether the best match is a format droidlog can parse.
func (r *DetectionResult) Parseable() bool {
	best := r.BestMatch()
	return best != nil && best.Format.Supported
}
