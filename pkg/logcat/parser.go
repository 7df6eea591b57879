package logcat

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ThreadtimePattern matches one whole `logcat -v threadtime` line.
var ThreadtimePattern = regexp.MustCompile(`^(?P<date>\S+)\s+(?P<time>\S+)\s+(?P<pid>[0-9]+)\s+(?P<tid>[0-9]+)\s+` +
	`(?P<level>[VDIWEFS])\s+(?P<tag>[^:]*):\s+(?P<content>.*)$`)

// TimestampLayout parses "<year>-<date> <time>". Minutes and seconds may be
// one or two digits. The fraction itself is checked by fractionPattern.
const TimestampLayout = "2006-1-2 15:4:5.999999999"

// fractionPattern is the required end of the time token: a dot and 1 to 6 digits.
var fractionPattern = regexp.MustCompile(`\.[0-9]{1,6}$`)

// ErrInvalidTimestamp is wrapped by Parse when a line has the threadtime shape
// but its date or time is not a real calendar value.
var ErrInvalidTimestamp = errors.New("invalid logcat timestamp")

var (
	groupDate    = ThreadtimePattern.SubexpIndex("date")
	groupTime    = ThreadtimePattern.SubexpIndex("time")
	groupPID     = ThreadtimePattern.SubexpIndex("pid")
	groupTID     = ThreadtimePattern.SubexpIndex("tid")
	groupLevel   = ThreadtimePattern.SubexpIndex("level")
	groupTag     = ThreadtimePattern.SubexpIndex("tag")
	groupContent = ThreadtimePattern.SubexpIndex("content")
)

// Parser turns threadtime lines into records.
// The log format carries no year, so every Parser has a reference year:
// a fixed one, or the year read from its clock at each call.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	year  int
	clock func() time.Time
	loc   *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithYear pins the reference year. Values <= 0 are ignored.
func WithYear(year int) Option {
	return func(p *Parser) {
		if year > 0 {
			p.year = year
		}
	}
}

// WithClock sets the clock used to read the current year when no year is pinned.
func WithClock(clock func() time.Time) Option {
	return func(p *Parser) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithLocation sets the zone the device timestamps are interpreted in (default UTC).
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// NewParser creates a Parser. Without options it uses the current year and UTC.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		clock: time.Now,
		loc:   time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Year returns the reference year the next Parse call will use.
func (p *Parser) Year() int {
	if p.year > 0 {
		return p.year
	}
	return p.clock().Year()
}

// Parse parses a single line.
// It returns (nil, nil) when the line is not in threadtime format.
// A line that has the right shape but an impossible date or time returns
// an error wrapping ErrInvalidTimestamp.
func (p *Parser) Parse(line string) (*Record, error) {
	return parseLine(line, p.Year(), p.loc)
}

// ParseLine parses line against an explicit reference year, in UTC.
// It depends on nothing but its arguments.
func ParseLine(line string, year int) (*Record, error) {
	return parseLine(line, year, time.UTC)
}

var defaultParser = NewParser()

// Parse parses line with the current year as the reference year.
func Parse(line string) (*Record, error) {
	return defaultParser.Parse(line)
}

func parseLine(line string, year int, loc *time.Location) (*Record, error) {
	if s, ok := strings.CutSuffix(line, "\n"); ok {
		line = strings.TrimSuffix(s, "\r")
	}

	m := ThreadtimePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, nil
	}

	stamp := fmt.Sprintf("%04d-%s %s", year, m[groupDate], m[groupTime])
	if !fractionPattern.MatchString(m[groupTime]) {
		return nil, fmt.Errorf("%w %q: time needs 1 to 6 fractional digits", ErrInvalidTimestamp, stamp)
	}
	ts, err := time.ParseInLocation(TimestampLayout, stamp, loc)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTimestamp, stamp, err)
	}

	rec := newRecord(line)
	rec.PID = m[groupPID]
	rec.TID = m[groupTID]
	rec.Level = Level(m[groupLevel])
	rec.Tag = m[groupTag]
	rec.Content = m[groupContent]
	rec.Timestamp = ts
	return rec, nil
}
