package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-mdsite/internal/markdown"
)

// Engine names accepted by NewHTMLConverter.
const (
	EngineNative   = "native"
	EngineGoldmark = "goldmark"
)

// Sentinel errors for HTML conversion.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrUnknownEngine  = errors.New("unknown markdown engine")
)

// Fragment is the body HTML produced for one document.
type Fragment struct {
	HTML string

	// Nodes is the parsed document. Only the native engine fills it.
	Nodes []markdown.Node
}

// EngineOptions configures how a converter decorates its output.
type EngineOptions struct {
	// Class is added to every element of the fragment.
	Class string

	// RewriteLinks maps links to .md sources onto their .html pages.
	RewriteLinks bool
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (*Fragment, error)
}

// NewHTMLConverter returns the converter registered under engine.
// An empty engine selects the native one.
func NewHTMLConverter(engine string, opts EngineOptions) (HTMLConverter, error) {
	switch engine {
	case "", EngineNative:
		return NewNativeConverter(opts), nil
	case EngineGoldmark:
		return NewGoldmarkConverter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (use %s or %s)", ErrUnknownEngine, engine, EngineNative, EngineGoldmark)
	}
}

// NativeConverter converts the supported markdown subset with the built-in
// parser and translator. The class is emitted on every tag, even when empty.
type NativeConverter struct {
	opts EngineOptions
}

// NewNativeConverter creates a NativeConverter.
func NewNativeConverter(opts EngineOptions) *NativeConverter {
	return &NativeConverter{opts: opts}
}

// ToHTML parses content and renders it with the configured class.
func (c *NativeConverter) ToHTML(ctx context.Context, content string) (*Fragment, error) {
	return runWithContext(ctx, func() (*Fragment, error) {
		nodes := markdown.Parse(content)
		if c.opts.RewriteLinks {
			nodes = RewriteLinkNodes(nodes)
		}
		return &Fragment{
			HTML:  markdown.Render(nodes, c.opts.Class),
			Nodes: nodes,
		}, nil
	})
}

// GoldmarkConverter converts CommonMark with GFM extensions using goldmark.
type GoldmarkConverter struct {
	md   goldmark.Markdown
	opts EngineOptions
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter(opts EngineOptions) *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &GoldmarkConverter{md: md, opts: opts}
}

// ToHTML converts content to an HTML fragment, then applies the class and
// link rewriting when configured.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (*Fragment, error) {
	return runWithContext(ctx, func() (*Fragment, error) {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}

		out := buf.String()
		if c.opts.Class != "" || c.opts.RewriteLinks {
			decorated, err := decorateFragment(out, c.opts)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
			}
			out = decorated
		}
		return &Fragment{HTML: out}, nil
	})
}

// runWithContext runs convert in its own goroutine so a cancelled context
// returns promptly even though neither engine takes a context.
func runWithContext(ctx context.Context, convert func() (*Fragment, error)) (*Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		fragment *Fragment
		err      error
	}

	done := make(chan result, 1)

	go func() {
		f, err := convert()
		done <- result{fragment: f, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.fragment, r.err
	}
}

// Compile-time interface checks.
var (
	_ HTMLConverter = (*NativeConverter)(nil)
	_ HTMLConverter = (*GoldmarkConverter)(nil)
)
