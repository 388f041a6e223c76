// Package assets provides the theme stylesheets and the page template used
// to build site pages.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in themes (default, frappe) and the page
// template.
//
// FilesystemLoader reads user assets with path traversal protection and
// symlink resolution. Stylesheets must parse as CSS before they are accepted.
//
// AssetResolver tries the custom loader first and falls back to the embedded
// one only when the asset is not found, so a site can override a single theme
// or the page template and keep the rest.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── page.html
package assets
