// Package dateutil resolves the page date setting. A value is a literal shown
// as-is, "auto[:FORMAT]" for the build date, or "mtime[:FORMAT]" for the
// modification time of each source file. FORMAT uses the tokens below or a
// preset name.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D
// Use brackets to escape literal text: [Date] preserves "Date" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10) // Pre-allocate with some buffer

	i := 0
	for i < len(format) {
		// Handle bracket-escaped literal text
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			// Copy content inside brackets literally
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2 // Skip past closing bracket
			continue
		}

		matched := false

		// Try to match tokens (longest first due to slice order)
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			// Preserve literal character
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Source tells where a resolved date comes from.
type Source int

const (
	SourceLiteral Source = iota // value shown verbatim
	SourceBuild                 // build start time
	SourceModTime               // source file modification time
)

// Keywords selecting a time source.
const (
	keywordBuild   = "auto"
	keywordModTime = "mtime"
)

// Spec is a parsed date setting. The zero value is an empty literal.
type Spec struct {
	Source  Source
	Literal string
	layout  string // Go time layout, unused for literals
}

// ParseSpec parses a date setting once so that invalid formats are reported
// before any document is built.
//   - "auto" -> build date in YYYY-MM-DD format
//   - "auto:FORMAT" -> build date in custom format (e.g., "auto:DD/MM/YYYY")
//   - "auto:preset" -> build date using named preset (iso, european, us, long)
//   - "mtime", "mtime:FORMAT", "mtime:preset" -> same with the file modification time
//   - any other value -> literal (passthrough)
func ParseSpec(value string) (Spec, error) {
	lower := strings.ToLower(value)

	for _, kw := range []struct {
		keyword string
		source  Source
	}{
		{keywordBuild, SourceBuild},
		{keywordModTime, SourceModTime},
	} {
		if !strings.HasPrefix(lower, kw.keyword) {
			continue
		}
		layout, err := parseLayout(value, kw.keyword)
		if err != nil {
			return Spec{}, err
		}
		return Spec{Source: kw.source, layout: layout}, nil
	}

	return Spec{Source: SourceLiteral, Literal: value}, nil
}

// parseLayout extracts the layout following keyword in value.
func parseLayout(value, keyword string) (string, error) {
	rest := value[len(keyword):]
	if rest == "" {
		return ParseDateFormat(DefaultDateFormat)
	}

	// Must be "keyword:something"
	if rest[0] != ':' {
		return "", fmt.Errorf("%w: invalid %s syntax %q, use %q or %q", ErrInvalidDateFormat, keyword, value, keyword, keyword+":FORMAT")
	}

	// Preserve original case for format tokens.
	format := rest[1:]
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty after %q", ErrInvalidDateFormat, keyword+":")
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	return ParseDateFormat(format)
}

// PerDocument reports whether the date differs between documents.
func (s Spec) PerDocument() bool {
	return s.Source == SourceModTime
}

// Resolve renders the date for one document.
func (s Spec) Resolve(buildTime, modTime time.Time) string {
	switch s.Source {
	case SourceBuild:
		return buildTime.Format(s.layout)
	case SourceModTime:
		return modTime.Format(s.layout)
	default:
		return s.Literal
	}
}

// ResolveDate resolves value against a single instant, used for both the
// build time and the modification time.
// The time parameter allows injecting a fixed time for testing.
func ResolveDate(value string, t time.Time) (string, error) {
	spec, err := ParseSpec(value)
	if err != nil {
		return "", err
	}
	return spec.Resolve(t, t), nil
}
