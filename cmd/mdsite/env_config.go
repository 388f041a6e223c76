package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alnah/go-mdsite/internal/config"
)

// envPrefix starts every variable read by the CLI.
const envPrefix = "MDSITE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without editing the config file.
type envConfig struct {
	ConfigPath string // MDSITE_CONFIG: config file name or path
	ContentDir string // MDSITE_CONTENT_DIR: source directory
	OutputDir  string // MDSITE_OUTPUT_DIR: output directory
	Theme      string // MDSITE_THEME: style name or .css path
	Class      string // MDSITE_CLASS: class applied to every tag
	Engine     string // MDSITE_ENGINE: native or goldmark
	Date       string // MDSITE_DATE: literal, auto[:FORMAT], mtime[:FORMAT]
	Lang       string // MDSITE_LANG: <html lang>
	AssetPath  string // MDSITE_ASSET_PATH: asset override directory
	Workers    int    // MDSITE_WORKERS: parallel workers
}

// knownEnvVars lists valid MDSITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDSITE_CONFIG":      true,
	"MDSITE_CONTENT_DIR": true,
	"MDSITE_OUTPUT_DIR":  true,
	"MDSITE_THEME":       true,
	"MDSITE_CLASS":       true,
	"MDSITE_ENGINE":      true,
	"MDSITE_DATE":        true,
	"MDSITE_LANG":        true,
	"MDSITE_ASSET_PATH":  true,
	"MDSITE_WORKERS":     true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDSITE_CONFIG"),
		ContentDir: os.Getenv("MDSITE_CONTENT_DIR"),
		OutputDir:  os.Getenv("MDSITE_OUTPUT_DIR"),
		Theme:      os.Getenv("MDSITE_THEME"),
		Class:      os.Getenv("MDSITE_CLASS"),
		Engine:     os.Getenv("MDSITE_ENGINE"),
		Date:       os.Getenv("MDSITE_DATE"),
		Lang:       os.Getenv("MDSITE_LANG"),
		AssetPath:  os.Getenv("MDSITE_ASSET_PATH"),
	}

	// Invalid or non-positive values are ignored
	if workers := os.Getenv("MDSITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized MDSITE_* variable,
// in sorted order.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config values with the variables that are set.
// Order: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	overrides := []struct {
		value string
		dst   *string
	}{
		{env.ContentDir, &cfg.Content.Dir},
		{env.OutputDir, &cfg.Output.Dir},
		{env.Theme, &cfg.Theme},
		{env.Class, &cfg.Class},
		{env.Engine, &cfg.Engine},
		{env.Date, &cfg.Date},
		{env.Lang, &cfg.Lang},
		{env.AssetPath, &cfg.Assets.BasePath},
	}
	for _, o := range overrides {
		if o.value != "" {
			*o.dst = o.value
		}
	}

	if env.Workers > 0 {
		cfg.Build.Workers = env.Workers
	}
}
