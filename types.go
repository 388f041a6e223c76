package mdsite

import (
	"github.com/alnah/go-mdsite/internal/markdown"
	"github.com/alnah/go-mdsite/internal/pipeline"
)

// Engines accepted by WithEngine.
const (
	EngineNative   = pipeline.EngineNative
	EngineGoldmark = pipeline.EngineGoldmark
)

// Input contains the document and its page metadata.
// Only Markdown is used when BodyOnly is set.
type Input struct {
	Markdown    string // Source document
	Title       string // <title>, escaped
	Description string // meta description, escaped
	Date        string // already resolved (see ResolveDate), empty = no date meta
	Latex       bool   // include MathJax
	BodyOnly    bool   // skip page assembly, HTML equals Body
}

// ConvertResult holds the output of one conversion.
type ConvertResult struct {
	Body  []byte          // translated fragment
	HTML  []byte          // complete page (Body when BodyOnly)
	Nodes []markdown.Node // parsed document, nil for the goldmark engine
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds options resolved at construction.
type converterConfig struct {
	engine       string
	class        string
	theme        string
	lang         string
	assetPath    string
	rewriteLinks bool
}

// WithEngine selects the markdown engine: EngineNative (default) or EngineGoldmark.
func WithEngine(engine string) Option {
	return func(c *Converter) {
		c.cfg.engine = engine
	}
}

// WithClass sets the class attached to every emitted tag.
func WithClass(class string) Option {
	return func(c *Converter) {
		c.cfg.class = class
	}
}

// WithTheme sets the page stylesheet: a built-in or custom style name,
// or a path to a .css file.
func WithTheme(theme string) Option {
	return func(c *Converter) {
		c.cfg.theme = theme
	}
}

// WithLang sets the lang attribute of generated pages.
func WithLang(lang string) Option {
	return func(c *Converter) {
		c.cfg.lang = lang
	}
}

// WithRewriteLinks points links to .md sources at the generated .html pages.
func WithRewriteLinks(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.rewriteLinks = enabled
	}
}

// WithAssetPath loads styles and the page template from basePath first,
// falling back to the embedded assets.
func WithAssetPath(basePath string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = basePath
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = loader
	}
}
