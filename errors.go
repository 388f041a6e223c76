package mdsite

import "errors"

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPageAssembly   = errors.New("page assembly failed")
	ErrUnknownEngine  = errors.New("unknown engine")

	// Theme errors.
	ErrInvalidTheme = errors.New("invalid theme")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
