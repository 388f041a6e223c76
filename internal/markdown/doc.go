// Package markdown implements the native markdown engine: a line-oriented
// block parser, an inline span scanner and an HTML translator.
//
// The engine covers a deliberately small subset of markdown:
//   - headings ("#", "##", "###")
//   - bulleted ("-") and numbered ("1.") lists
//   - fenced code blocks
//   - horizontal rules ("---")
//   - one link or image per line
//   - paragraphs with bold, italic and inline code spans
//
// Parsing never fails. Malformed constructs degrade instead: an unterminated
// fence swallows the rest of the document, a malformed link line is dropped and
// an unterminated inline marker leaves its formatting open to the end of the
// line. Rendering does not escape content.
//
// Parse, ScanSpans and Render share no state and are safe to call
// concurrently.
package markdown
