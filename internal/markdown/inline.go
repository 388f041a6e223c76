package markdown

import "strings"

// marker is an inline formatting delimiter recognized by the scanner.
type marker int

const (
	markerItalic marker = iota // *
	markerBold                 // **
	markerCode                 // `
)

// target returns the state a marker switches into.
func (m marker) target() Variant {
	switch m {
	case markerBold:
		return Bold
	case markerCode:
		return InlineCode
	default:
		return Italic
	}
}

// transition applies a marker to the scanner state. Markers never stack:
// a marker matching the active state closes it, any other marker replaces it.
func transition(state Variant, m marker) Variant {
	if state == m.target() {
		return Normal
	}
	return m.target()
}

// ScanSpans splits one line of paragraph text into formatting spans.
// An unterminated marker leaves the trailing text in the open state.
func ScanSpans(text string) []Span {
	var spans []Span
	var buf strings.Builder
	state := Normal

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		spans = append(spans, Span{Content: buf.String(), Variant: state})
		buf.Reset()
	}

	// Markers are ASCII. Invalid UTF-8 bytes pass through unchanged.
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '*':
			m := markerItalic
			if i+1 < len(text) && text[i+1] == '*' {
				m = markerBold
				i++
			}
			flush()
			state = transition(state, m)
		case '`':
			flush()
			state = transition(state, markerCode)
		default:
			buf.WriteByte(text[i])
		}
	}
	flush()

	return spans
}
