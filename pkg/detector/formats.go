package detector

import "regexp"

// Format names match the argument to adb logcat -v.
const (
	FormatThreadtime     = "threadtime"
	FormatThreadtimeYear = "threadtime,year"
	FormatEpoch          = "threadtime,epoch"
	FormatTime           = "time"
	FormatLong           = "long"
	FormatBrief          = "brief"
	FormatProcess        = "process"
	FormatTag            = "tag"
)

// Layout values that are not Go time layouts.
const (
	layoutNone  = ""
	layoutEpoch = "EPOCH"
)

// LogFormat describes one logcat output format.
type LogFormat struct {
	Name       string         // logcat -v argument
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // First capture group, if any, is the timestamp
	Layout     string         // Go time layout for the timestamp, empty if none
	Example    string
	Supported  bool // True if droidlog parse can read it
}

// HasTimestamp reports whether lines in this format carry a timestamp.
func (f *LogFormat) HasTimestamp() bool {
	return f.Layout != layoutNone
}

// DefaultFormats returns the built-in logcat formats to detect.
// More specific patterns come first.
func DefaultFormats() []*LogFormat {
	formats := []*LogFormat{
		{
			Name:       FormatThreadtime,
			PatternStr: `^(\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})\s+\d+\s+\d+\s+[VDIWEFS]\s+[^:]*:\s`,
			Layout:     "01-02 15:04:05.000",
			Example:    "01-15 10:30:00.123  1234  5678 I ActivityManager: Start proc",
			Supported:  true,
		},
		{
			Name:       FormatThreadtimeYear,
			PatternStr: `^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})\s+\d+\s+\d+\s+[VDIWEFS]\s+[^:]*:\s`,
			Layout:     "2006-01-02 15:04:05.000",
			Example:    "2024-01-15 10:30:00.123  1234  5678 I ActivityManager: Start proc",
		},
		{
			Name:       FormatEpoch,
			PatternStr: `^(\d{9,11}\.\d{3})\s+\d+\s+\d+\s+[VDIWEFS]\s+[^:]*:\s`,
			Layout:     layoutEpoch,
			Example:    "1705314600.123  1234  5678 I ActivityManager: Start proc",
		},
		{
			Name:       FormatTime,
			PatternStr: `^(\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})\s+[VDIWEFS]/[^(]*\(\s*\d+\):`,
			Layout:     "01-02 15:04:05.000",
			Example:    "01-15 10:30:00.123 I/ActivityManager( 1234): Start proc",
		},
		{
			Name:       FormatLong,
			PatternStr: `^\[ (\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})\s+\d+:\s*\d+\s+[VDIWEFS]/.* \]$`,
			Layout:     "01-02 15:04:05.000",
			Example:    "[ 01-15 10:30:00.123  1234: 5678 I/ActivityManager ]",
		},
		{
			Name:       FormatBrief,
			PatternStr: `^[VDIWEFS]/[^(:]*\(\s*\d+\):`,
			Example:    "I/ActivityManager( 1234): Start proc",
		},
		{
			Name:       FormatProcess,
			PatternStr: `^[VDIWEFS]\(\s*\d+\) .*\(\S+\)$`,
			Example:    "I( 1234) Start proc  (ActivityManager)",
		},
		{
			Name:       FormatTag,
			PatternStr: `^[VDIWEFS]/[^(:]+: `,
			Example:    "I/ActivityManager: Start proc",
		},
	}

	for _, f := range formats {
		f.Pattern = regexp.MustCompile(f.PatternStr)
	}

	return formats
}
