// Package mdsite converts Markdown documents to themed HTML pages.
//
// # Quick Start
//
//	conv, err := mdsite.NewConverter(mdsite.WithClass("post"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, mdsite.Input{
//	    Markdown: "# Hello\n\nWorld",
//	    Title:    "Hello",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.html", result.HTML, 0644)
//
// The result contains the complete page (result.HTML), the translated
// fragment (result.Body) and, for the native engine, the parsed nodes
// (result.Nodes). Use Input.BodyOnly to skip page assembly.
//
// # Conversion Pipeline
//
//  1. Source preprocessing (line endings, Unicode NFC)
//  2. Markdown to HTML, by one of two engines:
//     - native: a line-oriented block parser and a non-nesting inline
//       scanner; every tag carries the configured class verbatim
//     - goldmark: CommonMark + GFM with chroma highlighting; the class is
//       added to every element afterwards
//  3. Page assembly from an html/template (title, description, date, theme
//     CSS, highlight.js, optional MathJax)
//
// The native parser and translator are also exposed directly through Parse
// and Render. Content is not escaped: documents are trusted input.
//
// # Configuration
//
//	conv, err := mdsite.NewConverter(
//	    mdsite.WithEngine(mdsite.EngineGoldmark),
//	    mdsite.WithTheme("frappe"),
//	    mdsite.WithRewriteLinks(true),
//	    mdsite.WithAssetPath("/path/to/custom/assets"),
//	)
//
// # Parallel Processing
//
// A Converter holds no per-document state. Share one across goroutines and
// size the worker count with ResolvePoolSize.
//
// # Custom Assets
//
// Override built-in themes and the page template using AssetLoader:
//
//	loader, err := mdsite.NewAssetLoader("/path/to/assets")
//	conv, err := mdsite.NewConverter(mdsite.WithAssetLoader(loader))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── page.html
package mdsite
