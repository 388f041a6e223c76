package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrPageRender indicates the page template failed to execute.
var ErrPageRender = errors.New("page template rendering failed")

// Highlight.js stylesheets paired with the built-in themes.
const (
	HighlightFrappe  = "https://cdn.jsdelivr.net/npm/@catppuccin/highlightjs@1.0.1/css/catppuccin-frappe.css"
	HighlightDefault = "https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.11.1/styles/atom-one-dark.min.css"
)

// defaultLang is used when PageData.Lang is empty.
const defaultLang = "en"

// HighlightStylesheet returns the highlight.js stylesheet matching theme.
func HighlightStylesheet(theme string) string {
	if theme == "frappe" {
		return HighlightFrappe
	}
	return HighlightDefault
}

// PageData holds everything a page needs besides its body.
type PageData struct {
	Title       string
	Description string
	Date        string // already resolved, shown as-is
	Lang        string
	CSS         string // theme stylesheet, inlined
	Highlight   string // highlight.js stylesheet URL
	Latex       bool   // include MathJax
}

// PageAssembler wraps a body fragment into a complete HTML document.
type PageAssembler interface {
	Assemble(ctx context.Context, body string, data *PageData) (string, error)
}

// TemplatePage assembles pages from an html/template.
type TemplatePage struct {
	tmpl *template.Template
}

// pageView is the value the page template executes against.
type pageView struct {
	Title       string
	Description string
	Date        string
	Lang        string
	CSS         template.CSS
	Highlight   string
	Latex       bool
	Body        template.HTML
}

// NewTemplatePage creates a TemplatePage from template content.
// Returns error if the template cannot be parsed.
func NewTemplatePage(tmplContent string) (*TemplatePage, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &TemplatePage{tmpl: tmpl}, nil
}

// Assemble renders the page around body. The body is inserted verbatim;
// metadata is escaped by the template. A nil data renders an untitled page.
func (p *TemplatePage) Assemble(ctx context.Context, body string, data *PageData) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if data == nil {
		data = &PageData{}
	}

	view := pageView{
		Title:       data.Title,
		Description: data.Description,
		Date:        data.Date,
		Lang:        data.Lang,
		CSS:         template.CSS(sanitizeCSS(data.CSS)), // #nosec G203 -- sanitized above
		Highlight:   data.Highlight,
		Latex:       data.Latex,
		Body:        template.HTML(body), // #nosec G203 -- body HTML is trusted output of the engine
	}
	if view.Lang == "" {
		view.Lang = defaultLang
	}
	if view.Highlight == "" {
		view.Highlight = HighlightDefault
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// Compile-time interface check.
var _ PageAssembler = (*TemplatePage)(nil)
