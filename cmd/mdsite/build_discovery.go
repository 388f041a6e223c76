package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdsite/internal/fileutil"
	"github.com/alnah/go-mdsite/internal/hints"
)

// Sentinel errors for target discovery.
var (
	ErrContentDir         = errors.New("content directory not found")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrOutputCollision    = errors.New("output path collision")
)

// pageExtension is given to every output file.
const pageExtension = "html"

// target is one markdown file to build.
type target struct {
	InputPath  string // as found on disk
	Key        string // slash-separated path relative to the content dir
	OutputPath string
}

// isMarkdown reports whether path has a .md or .markdown extension.
func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// discoverTargets finds markdown files under contentDir in lexical order.
// Hidden directories and outputDir are skipped. Two sources mapping to the
// same output file are an error.
func discoverTargets(contentDir, outputDir string) ([]target, error) {
	if !fileutil.DirExists(contentDir) {
		return nil, fmt.Errorf("%w: %s%s", ErrContentDir, contentDir, hints.ForContentDir(contentDir))
	}

	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		absOutput = ""
	}

	var targets []target
	owners := make(map[string]string)
	err = filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path == contentDir {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && abs == absOutput {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !isMarkdown(path) {
			return nil
		}

		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		out, err := resolveOutputPath(rel, outputDir)
		if err != nil {
			return err
		}
		if prev, ok := owners[out]; ok {
			return fmt.Errorf("%w: %s and %s both write %s%s",
				ErrOutputCollision, prev, path, out, hints.ForOutputCollision())
		}
		owners[out] = path
		targets = append(targets, target{
			InputPath:  path,
			Key:        filepath.ToSlash(rel),
			OutputPath: out,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return targets, nil
}

// resolveOutputPath maps a path relative to the content dir to
// <outputDir>/<relative dir>/<stem>.html.
func resolveOutputPath(rel, outputDir string) (string, error) {
	name, err := fileutil.ReplaceExtension(rel, pageExtension)
	if err != nil {
		return "", err
	}
	return filepath.Join(outputDir, name), nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n, limit int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > limit {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, limit)
	}
	return nil
}
