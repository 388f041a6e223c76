package pipeline

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// SourcePreprocessor prepares raw source files for either engine.
// It only normalizes encoding-level differences and never changes the
// document structure, so fenced code keeps its blank lines.
type SourcePreprocessor struct{}

// PreprocessMarkdown normalizes line endings to "\n" and composes the text
// to Unicode NFC.
func (p *SourcePreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	return normalizeUnicode(content)
}

// normalizeLineEndings converts \r\n to \n. A lone \r is content, the same
// as in markdown.Parse.
func normalizeLineEndings(content string) string {
	return strings.ReplaceAll(content, "\r\n", "\n")
}

// normalizeUnicode composes decomposed sequences (e.g. "é" -> "é")
// so identical text produces identical output regardless of the editor.
func normalizeUnicode(content string) string {
	if norm.NFC.IsNormalString(content) {
		return content
	}
	return norm.NFC.String(content)
}
