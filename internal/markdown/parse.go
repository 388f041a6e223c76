package markdown

import (
	"strings"
	"unicode"
)

const fence = "```"

// Parser turns one document into block nodes in a single forward pass.
// A Parser is built per document and is not reused.
type Parser struct {
	lines []string
	pos   int
}

// NewParser creates a Parser over the lines of text.
func NewParser(text string) *Parser {
	return &Parser{lines: splitLines(text)}
}

// Parse is shorthand for NewParser(text).Parse().
func Parse(text string) []Node {
	return NewParser(text).Parse()
}

// Parse consumes the document and returns its nodes in source order.
// It never fails: blank lines are skipped, malformed links are dropped and
// anything unrecognized becomes a paragraph.
func (p *Parser) Parse() []Node {
	var nodes []Node

	for {
		line, ok := p.next()
		if !ok {
			break
		}
		trimmed := trimLeft(line)

		switch {
		case strings.HasPrefix(trimmed, "---"):
			nodes = append(nodes, HorizontalRule{})
		case strings.HasPrefix(trimmed, "###"):
			nodes = append(nodes, Heading{Level: 3, Content: strings.TrimSpace(trimmed[3:])})
		case strings.HasPrefix(trimmed, "##"):
			nodes = append(nodes, Heading{Level: 2, Content: strings.TrimSpace(trimmed[2:])})
		case strings.HasPrefix(trimmed, "#"):
			nodes = append(nodes, Heading{Level: 1, Content: strings.TrimSpace(trimmed[1:])})
		case strings.HasPrefix(trimmed, fence):
			nodes = append(nodes, p.parseCodeBlock(trimmed))
		case strings.HasPrefix(trimmed, "-"):
			nodes = append(nodes, p.parseBulletedList(trimmed))
		case isNumberedItem(trimmed):
			nodes = append(nodes, p.parseNumberedList(trimmed))
		case strings.HasPrefix(trimmed, "![") || strings.HasPrefix(trimmed, "["):
			if link, ok := parseLink(trimmed); ok {
				nodes = append(nodes, link)
			}
		case trimmed != "":
			nodes = append(nodes, Paragraph{Spans: ScanSpans(trimmed)})
		}
	}

	return nodes
}

// next consumes and returns the line under the cursor.
func (p *Parser) next() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	line := p.lines[p.pos]
	p.pos++
	return line, true
}

// peek returns the line under the cursor without consuming it.
func (p *Parser) peek() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	return p.lines[p.pos], true
}

// parseCodeBlock reads raw lines up to the closing fence, which is discarded.
// Reaching the end of input closes the block implicitly.
func (p *Parser) parseCodeBlock(opening string) CodeBlock {
	language := strings.TrimSpace(opening[len(fence):])

	var content strings.Builder
	for {
		line, ok := p.next()
		if !ok || strings.TrimSpace(line) == fence {
			break
		}
		content.WriteString(line)
		content.WriteByte('\n')
	}

	return CodeBlock{Language: language, Content: content.String()}
}

func (p *Parser) parseBulletedList(first string) List {
	items := []string{strings.TrimSpace(first[1:])}

	for {
		line, ok := p.peek()
		if !ok {
			break
		}
		trimmed := trimLeft(line)
		if !strings.HasPrefix(trimmed, "-") {
			break
		}
		p.pos++
		items = append(items, strings.TrimSpace(trimmed[1:]))
	}

	return List{Type: Bulleted, Items: items}
}

func (p *Parser) parseNumberedList(first string) List {
	items := []string{numberedItemText(first)}

	for {
		line, ok := p.peek()
		if !ok {
			break
		}
		trimmed := trimLeft(line)
		if !isNumberedItem(trimmed) {
			break
		}
		p.pos++
		items = append(items, numberedItemText(trimmed))
	}

	return List{Type: Numbered, Items: items}
}

// isNumberedItem reports whether a left-trimmed line starts with an ASCII
// digit and contains a dot anywhere.
func isNumberedItem(trimmed string) bool {
	return trimmed != "" &&
		trimmed[0] >= '0' && trimmed[0] <= '9' &&
		strings.Contains(trimmed, ".")
}

func numberedItemText(trimmed string) string {
	_, rest, _ := strings.Cut(trimmed, ".")
	return strings.TrimSpace(rest)
}

// parseLink parses "[alt](url)" or "![alt](url)". The "(" must follow the
// closing bracket immediately; text after ")" is ignored.
func parseLink(trimmed string) (Link, bool) {
	isImage := strings.HasPrefix(trimmed, "![")
	start := 1
	if isImage {
		start = 2
	}

	altEnd := strings.IndexByte(trimmed[start:], ']')
	if altEnd < 0 {
		return Link{}, false
	}
	alt := trimmed[start : start+altEnd]
	rest := trimmed[start+altEnd+1:]

	if !strings.HasPrefix(rest, "(") {
		return Link{}, false
	}
	urlEnd := strings.IndexByte(rest, ')')
	if urlEnd < 0 {
		return Link{}, false
	}

	return Link{Alt: alt, URL: rest[1:urlEnd], IsImage: isImage}, true
}

// splitLines splits text on "\n", dropping one trailing "\r" per line and the
// empty remainder after a final newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func trimLeft(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}
