package mdsite

// Notes:
// - Mock implementations replace pipeline stages to test error handling and
//   data flow without the real engines.
// - Internal test options (withPreprocessor, withHTMLConverter) inject them.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-mdsite/internal/markdown"
	"github.com/alnah/go-mdsite/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockHTMLConverter struct {
	output string
	err    error
}

func (m *mockHTMLConverter) ToHTML(ctx context.Context, content string) (*pipeline.Fragment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &pipeline.Fragment{HTML: m.output}, nil
}

type panicPreprocessor struct{}

func (p *panicPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	panic("boom")
}

type mockAssetLoader struct {
	styles    map[string]string
	templates map[string]string
}

func (m *mockAssetLoader) LoadStyle(name string) (string, error) {
	if css, ok := m.styles[name]; ok {
		return css, nil
	}
	return "", ErrStyleNotFound
}

func (m *mockAssetLoader) LoadTemplate(name string) (string, error) {
	if tmpl, ok := m.templates[name]; ok {
		return tmpl, nil
	}
	return "", ErrTemplateNotFound
}

// ---------------------------------------------------------------------------
// Test Options
// ---------------------------------------------------------------------------

func withPreprocessor(p pipeline.MarkdownPreprocessor) Option {
	return func(c *Converter) {
		c.preprocessor = p
	}
}

func withHTMLConverter(h pipeline.HTMLConverter) Option {
	return func(c *Converter) {
		c.htmlConverter = h
	}
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return conv
}

// ---------------------------------------------------------------------------
// TestConvert - Full pipeline
// ---------------------------------------------------------------------------

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        []Option
		input       Input
		contains    []string
		notContains []string
	}{
		{
			name:  "defaults",
			input: Input{Markdown: "# Hi", Title: "Home"},
			contains: []string{
				"<!DOCTYPE html>",
				`<html lang="en">`,
				"<title>Home</title>",
				`<div id="content"><h1 class="">Hi</h1></div>`,
				pipeline.HighlightDefault,
				"hljs.highlightAll()",
			},
			notContains: []string{"MathJax"},
		},
		{
			name:     "class on every tag",
			opts:     []Option{WithClass("post")},
			input:    Input{Markdown: "- a\n- b"},
			contains: []string{`<ul class="post"><li class="post">a</li><li class="post">b</li></ul>`},
		},
		{
			name:     "frappe theme uses frappe highlighting",
			opts:     []Option{WithTheme("frappe")},
			input:    Input{Markdown: "x"},
			contains: []string{pipeline.HighlightFrappe, "#303446"},
		},
		{
			name:     "latex adds mathjax",
			input:    Input{Markdown: "x", Latex: true},
			contains: []string{"MathJax-script"},
		},
		{
			name:     "lang",
			opts:     []Option{WithLang("fr")},
			input:    Input{Markdown: "x"},
			contains: []string{`<html lang="fr">`},
		},
		{
			name:        "metadata escaped, body verbatim",
			input:       Input{Markdown: "a <b>c</b>", Title: "<x>", Description: `"q"`},
			contains:    []string{"<title>&lt;x&gt;</title>", "&#34;q&#34;", `<p class="">a <b>c</b></p>`},
			notContains: []string{"<title><x>"},
		},
		{
			name:     "date meta",
			input:    Input{Markdown: "x", Date: "2024-03-15"},
			contains: []string{`<meta name="date" content="2024-03-15">`},
		},
		{
			name:     "links rewritten",
			opts:     []Option{WithRewriteLinks(true)},
			input:    Input{Markdown: "[next](b.md)"},
			contains: []string{`<a href="b.html" class="">next</a>`},
		},
		{
			name:     "goldmark engine",
			opts:     []Option{WithEngine(EngineGoldmark), WithClass("c")},
			input:    Input{Markdown: "# T\n\n| a |\n|---|\n| 1 |"},
			contains: []string{`<h1 id="t" class="c">T</h1>`, `<table class="c">`},
		},
		{
			name:     "line endings normalized before parsing",
			input:    Input{Markdown: "# A\r\n- b\r\n- c"},
			contains: []string{`<h1 class="">A</h1><ul class=""><li class="">b</li><li class="">c</li></ul>`},
		},
		{
			name:     "lone carriage return stays inside the line",
			input:    Input{Markdown: "a\rb"},
			contains: []string{"<p class=\"\">a\rb</p>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, tt.opts...)
			result, err := conv.Convert(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			html := string(result.HTML)
			for _, want := range tt.contains {
				if !strings.Contains(html, want) {
					t.Errorf("HTML missing %q in:\n%s", want, html)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(html, unwanted) {
					t.Errorf("HTML unexpectedly contains %q", unwanted)
				}
			}
		})
	}
}

func TestConvert_BodyOnly(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithClass("c"))
	result, err := conv.Convert(context.Background(), Input{Markdown: "**b**", BodyOnly: true, Title: "ignored"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := `<p class="c"><strong>b</strong></p>`
	if string(result.Body) != want {
		t.Errorf("Body = %q, want %q", result.Body, want)
	}
	if string(result.HTML) != want {
		t.Errorf("HTML = %q, want body only", result.HTML)
	}
	if len(result.Nodes) != 1 || result.Nodes[0].Kind() != markdown.KindParagraph {
		t.Errorf("Nodes = %#v, want one paragraph", result.Nodes)
	}
}

func TestConvert_EmptyDocument(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)
	result, err := conv.Convert(context.Background(), Input{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if len(result.Body) != 0 {
		t.Errorf("Body = %q, want empty", result.Body)
	}
	if !strings.Contains(string(result.HTML), `<div id="content"></div>`) {
		t.Errorf("HTML should hold an empty content div:\n%s", result.HTML)
	}
}

func TestConvert_HTMLConverterError(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withHTMLConverter(&mockHTMLConverter{err: errors.New("engine failed")}))
	_, err := conv.Convert(context.Background(), Input{Markdown: "x"})
	if !errors.Is(err, ErrHTMLConversion) {
		t.Fatalf("Convert() error = %v, want ErrHTMLConversion", err)
	}
	if !strings.Contains(err.Error(), "engine failed") {
		t.Errorf("error %q should keep the cause", err)
	}
}

func TestConvert_InjectedConverterOutput(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withHTMLConverter(&mockHTMLConverter{output: "<p>mock</p>"}))
	result, err := conv.Convert(context.Background(), Input{Markdown: "ignored"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(result.HTML), "<p>mock</p>") {
		t.Errorf("HTML should contain injected fragment:\n%s", result.HTML)
	}
	if result.Nodes != nil {
		t.Errorf("Nodes = %#v, want nil", result.Nodes)
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPreprocessor(&panicPreprocessor{}))
	result, err := conv.Convert(context.Background(), Input{Markdown: "x"})
	if err == nil {
		t.Fatal("expected error from panic, got nil")
	}
	if !strings.Contains(err.Error(), "internal error: boom") {
		t.Errorf("error = %q, want internal error", err)
	}
	if result != nil {
		t.Errorf("result = %#v, want nil", result)
	}
}

func TestConvert_ContextCancellation(t *testing.T) {
	t.Parallel()

	for _, engine := range []string{EngineNative, EngineGoldmark} {
		t.Run(engine, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, WithEngine(engine))
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := conv.Convert(ctx, Input{Markdown: "# x"})
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Convert() error = %v, want context.Canceled", err)
			}
		})
	}
}

func TestConvert_ConcurrentUse(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithClass("c"))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < cap(errs); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := conv.Convert(context.Background(), Input{Markdown: "*i*", BodyOnly: true})
			if err == nil && string(result.Body) != `<p class="c"><em>i</em></p>` {
				err = errors.New("unexpected body " + string(result.Body))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter - Construction and options
// ---------------------------------------------------------------------------

func TestNewConverter_Engine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		engine  string
		want    string
		wantErr error
	}{
		{engine: "", want: EngineNative},
		{engine: EngineNative, want: EngineNative},
		{engine: EngineGoldmark, want: EngineGoldmark},
		{engine: "pandoc", wantErr: ErrUnknownEngine},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			t.Parallel()

			conv, err := NewConverter(WithEngine(tt.engine))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			if conv.Engine() != tt.want {
				t.Errorf("Engine() = %q, want %q", conv.Engine(), tt.want)
			}
		})
	}
}

func TestNewConverter_Theme(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	validCSS := filepath.Join(dir, "site.css")
	if err := os.WriteFile(validCSS, []byte("body { color: #123456; }"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	invalidCSS := filepath.Join(dir, "broken.css")
	if err := os.WriteFile(invalidCSS, []byte("} body { color: red; }"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name     string
		theme    string
		wantErr  error
		contains string
	}{
		{name: "built-in default", theme: DefaultStyle},
		{name: "built-in frappe", theme: "frappe", contains: "#303446"},
		{name: "css file", theme: validCSS, contains: "#123456"},
		{name: "unknown name", theme: "nope", wantErr: ErrStyleNotFound},
		{name: "missing file", theme: filepath.Join(dir, "missing.css"), wantErr: ErrInvalidTheme},
		{name: "invalid css", theme: invalidCSS, wantErr: ErrInvalidTheme},
		{name: "url", theme: "https://example.com/site.css", wantErr: ErrInvalidTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv, err := NewConverter(WithTheme(tt.theme))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConverter(WithTheme(%q)) error = %v, want %v", tt.theme, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			if tt.contains != "" && !strings.Contains(conv.css, tt.contains) {
				t.Errorf("theme CSS missing %q", tt.contains)
			}
		})
	}
}

func TestWithAssetLoader(t *testing.T) {
	t.Parallel()

	loader := &mockAssetLoader{
		styles:    map[string]string{DefaultStyle: "p { margin: 0; }"},
		templates: map[string]string{PageTemplate: "{{.Title}}|{{.CSS}}|{{.Body}}"},
	}

	conv := newTestConverter(t, WithAssetLoader(loader), WithClass("x"))
	result, err := conv.Convert(context.Background(), Input{Markdown: "hi", Title: "T"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	want := `T|p { margin: 0; }|<p class="x">hi</p>`
	if string(result.HTML) != want {
		t.Errorf("HTML = %q, want %q", result.HTML, want)
	}
}

func TestWithAssetLoader_MissingTemplate(t *testing.T) {
	t.Parallel()

	loader := &mockAssetLoader{styles: map[string]string{DefaultStyle: ""}}
	_, err := NewConverter(WithAssetLoader(loader))
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("NewConverter() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestWithAssetLoader_InvalidTemplate(t *testing.T) {
	t.Parallel()

	loader := &mockAssetLoader{
		styles:    map[string]string{DefaultStyle: ""},
		templates: map[string]string{PageTemplate: "{{.Title"},
	}
	_, err := NewConverter(WithAssetLoader(loader))
	if !errors.Is(err, ErrPageAssembly) {
		t.Errorf("NewConverter() error = %v, want ErrPageAssembly", err)
	}
}

func TestWithAssetPath(t *testing.T) {
	t.Parallel()

	t.Run("invalid path", func(t *testing.T) {
		t.Parallel()

		_, err := NewConverter(WithAssetPath(filepath.Join(t.TempDir(), "missing")))
		if !errors.Is(err, ErrInvalidAssetPath) {
			t.Errorf("NewConverter() error = %v, want ErrInvalidAssetPath", err)
		}
	})

	t.Run("custom style with embedded template fallback", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "styles", "mine.css"), []byte("h1 { color: #abcdef; }"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		conv := newTestConverter(t, WithAssetPath(dir), WithTheme("mine"))
		result, err := conv.Convert(context.Background(), Input{Markdown: "# x"})
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if !strings.Contains(string(result.HTML), "#abcdef") {
			t.Error("HTML missing custom theme")
		}
		if !strings.Contains(string(result.HTML), `<div id="content">`) {
			t.Error("HTML missing embedded page template")
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseRender - Core re-exports
// ---------------------------------------------------------------------------

func TestParseRender(t *testing.T) {
	t.Parallel()

	nodes := Parse("## Sub\n---\n![cat](cat.png)")
	got := Render(nodes, "k")
	want := `<h2 class="k">Sub</h2><hr class="k" /><img src="cat.png" alt="cat" class="k" />`
	if got != want {
		t.Errorf("Render(Parse()) = %q, want %q", got, want)
	}
}
