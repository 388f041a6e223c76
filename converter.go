package mdsite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mdsite/internal/assets"
	"github.com/alnah/go-mdsite/internal/fileutil"
	"github.com/alnah/go-mdsite/internal/markdown"
	"github.com/alnah/go-mdsite/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.SourcePreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.NativeConverter)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.PageAssembler        = (*pipeline.TemplatePage)(nil)
	_ assets.AssetLoader            = (AssetLoader)(nil)
)

// Converter orchestrates the markdown-to-page pipeline.
// It holds no per-document state and is safe for concurrent use.
type Converter struct {
	cfg               converterConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	preprocessor      pipeline.MarkdownPreprocessor
	htmlConverter     pipeline.HTMLConverter
	page              pipeline.PageAssembler
	css               string
	highlight         string
}

// NewConverter creates a Converter. Without options it uses the native
// engine, an empty class and the default theme.
// Returns error if the engine is unknown or assets cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.SourcePreprocessor{},
	}

	for _, opt := range opts {
		opt(c)
	}

	// Handle WithAssetPath: resolve to internal loader
	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, convertAssetError(err)
		}
		c.assetLoader = resolver
	}

	// WithAssetLoader wins over WithAssetPath. The public interface has the
	// same method set as the internal one.
	if c.publicAssetLoader != nil {
		c.assetLoader = c.publicAssetLoader
	}

	// Create the engine if not injected (e.g., by tests)
	if c.htmlConverter == nil {
		htmlConverter, err := pipeline.NewHTMLConverter(c.cfg.engine, pipeline.EngineOptions{
			Class:        c.cfg.class,
			RewriteLinks: c.cfg.rewriteLinks,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, c.cfg.engine)
		}
		c.htmlConverter = htmlConverter
	}

	if err := c.resolveTheme(); err != nil {
		return nil, err
	}

	if c.page == nil {
		tmpl, err := c.assetLoader.LoadTemplate(assets.PageTemplateName)
		if err != nil {
			return nil, fmt.Errorf("loading page template: %w", convertAssetError(err))
		}
		page, err := pipeline.NewTemplatePage(tmpl)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPageAssembly, err)
		}
		c.page = page
	}

	return c, nil
}

// Convert runs the pipeline on one document.
// The context is used for cancellation.
// If input.BodyOnly is true, page assembly is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	source := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fragment, err := c.htmlConverter.ToHTML(ctx, source)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	res := &ConvertResult{
		Body:  []byte(fragment.HTML),
		Nodes: fragment.Nodes,
	}
	if input.BodyOnly {
		res.HTML = res.Body
		return res, nil
	}

	page, err := c.page.Assemble(ctx, fragment.HTML, &pipeline.PageData{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Lang:        c.cfg.lang,
		CSS:         c.css,
		Highlight:   c.highlight,
		Latex:       input.Latex,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrPageAssembly, err)
	}

	res.HTML = []byte(page)
	return res, nil
}

// Engine returns the configured engine name.
func (c *Converter) Engine() string {
	if c.cfg.engine == "" {
		return EngineNative
	}
	return c.cfg.engine
}

// resolveTheme loads the page stylesheet and picks the matching highlight
// stylesheet. A theme is a style name or a path to a .css file.
func (c *Converter) resolveTheme() error {
	theme := c.cfg.theme
	if theme == "" {
		theme = assets.DefaultStyleName
	}

	switch {
	case fileutil.IsURL(theme):
		return fmt.Errorf("%w: remote stylesheets are not supported: %s", ErrInvalidTheme, theme)

	case fileutil.IsFilePath(theme) || strings.HasSuffix(strings.ToLower(theme), ".css"):
		content, err := os.ReadFile(theme) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: loading theme file %q: %v", ErrInvalidTheme, theme, err)
		}
		if err := assets.ValidateCSS(string(content)); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidTheme, theme, err)
		}
		c.css = string(content)

	default:
		css, err := c.assetLoader.LoadStyle(theme)
		if err != nil {
			return fmt.Errorf("loading theme %q: %w", theme, convertAssetError(err))
		}
		c.css = css
	}

	c.highlight = pipeline.HighlightStylesheet(theme)
	return nil
}

// Parse splits a markdown document into nodes with the native parser.
func Parse(text string) []markdown.Node {
	return markdown.Parse(text)
}

// Render translates nodes into an HTML fragment, attaching class to every tag.
func Render(nodes []markdown.Node, class string) string {
	return markdown.Render(nodes, class)
}
