// Package dateutil formats the date printed at the foot of exported reports.
//
// Formats use readable tokens (YYYY, YY, MMMM, MMM, MM, M, DD, D). Text in
// square brackets is copied as is, so "[Exported] D MMM" keeps the word
// "Exported" intact.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxFormatLength limits format strings read from config and flags.
const MaxFormatLength = 50

// DefaultFormat is used by a bare "auto".
const DefaultFormat = "YYYY-MM-DD"

// Presets are named formats accepted after "auto:".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// tokens are tried longest first.
var tokens = []struct {
	name   string
	format func(time.Time) string
}{
	{"YYYY", func(t time.Time) string { return strconv.Itoa(t.Year()) }},
	{"MMMM", func(t time.Time) string { return t.Month().String() }},
	{"MMM", func(t time.Time) string { return t.Month().String()[:3] }},
	{"YY", func(t time.Time) string { return fmt.Sprintf("%02d", t.Year()%100) }},
	{"MM", func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{"DD", func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) }},
	{"M", func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{"D", func(t time.Time) string { return strconv.Itoa(t.Day()) }},
}

// segment is either literal text or a token formatter.
type segment struct {
	literal string
	format  func(time.Time) string
}

// Layout is a parsed date format.
type Layout struct {
	segments []segment
}

// Parse compiles a format string.
// Returns ErrInvalidDateFormat if format is empty, too long or has an
// unclosed bracket.
func Parse(format string) (*Layout, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxFormatLength)
	}

	l := &Layout{}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.segments = append(l.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			lit.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(format[i:], tok.name) {
				flush()
				l.segments = append(l.segments, segment{format: tok.format})
				i += len(tok.name)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(format[i])
			i++
		}
	}
	flush()
	return l, nil
}

// Format renders t. Literal text is never reinterpreted, unlike a
// time.Format layout where "1" or "Jan" would be.
func (l *Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, s := range l.segments {
		if s.format != nil {
			b.WriteString(s.format(t))
			continue
		}
		b.WriteString(s.literal)
	}
	return b.String()
}

// Resolve expands "auto" values and passes any other value through:
//   - "auto" formats now with DefaultFormat
//   - "auto:long" uses a preset (case-insensitive)
//   - "auto:DD/MM/YYYY" uses a custom format
func Resolve(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	format := DefaultFormat
	if lower != "auto" {
		rest, ok := strings.CutPrefix(value, value[:4]+":")
		if !ok {
			return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		if rest == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		format = rest
		if preset, ok := Presets[strings.ToLower(rest)]; ok {
			format = preset
		}
	}

	layout, err := Parse(format)
	if err != nil {
		return "", err
	}
	return layout.Format(now), nil
}
