package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/alnah/go-mdsite/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidEngine   = errors.New("invalid engine")
	ErrInvalidWorkers  = errors.New("invalid worker count")
)

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
	MaxClassLength       = 100
	MaxThemeLength       = 4096 // name or path
	MaxDateLength        = 50   // "auto:DD MMMM YYYY" or a literal date
	MaxLangLength        = 35   // BCP 47 tags are short in practice
	MaxPathLength        = 4096
)

// MaxWorkers bounds build.workers.
const MaxWorkers = 64

// Engines accepted by the engine setting.
const (
	EngineNative   = "native"
	EngineGoldmark = "goldmark"
)

// appName is the directory under the user config dir searched for configs.
const appName = "mdsite"

// Config holds the settings of one site.
type Config struct {
	Title       string        `toml:"title" yaml:"title"`
	Description string        `toml:"description" yaml:"description"`
	Theme       string        `toml:"theme" yaml:"theme"`   // style name or path to a .css file
	Class       string        `toml:"class" yaml:"class"`   // applied to every tag
	Engine      string        `toml:"engine" yaml:"engine"` // native | goldmark
	Date        string        `toml:"date" yaml:"date"`     // "", literal, auto, auto:FORMAT
	Lang        string        `toml:"lang" yaml:"lang"`
	Content     ContentConfig `toml:"content" yaml:"content"`
	Output      OutputConfig  `toml:"output" yaml:"output"`
	Assets      AssetsConfig  `toml:"assets" yaml:"assets"`
	Build       BuildConfig   `toml:"build" yaml:"build"`
}

// ContentConfig defines where sources live and how they are read.
type ContentConfig struct {
	Dir          string `toml:"dir" yaml:"dir"`
	LatexEnabled bool   `toml:"latex_enabled" yaml:"latex_enabled"`
	RewriteLinks bool   `toml:"rewrite_links" yaml:"rewrite_links"` // foo.md -> foo.html
}

// OutputConfig defines where pages are written.
type OutputConfig struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `toml:"base_path" yaml:"base_path"` // empty = embedded assets only
}

// BuildConfig defines build parallelism.
type BuildConfig struct {
	Workers int `toml:"workers" yaml:"workers"` // 0 = auto
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Theme:   "default",
		Engine:  EngineNative,
		Lang:    "en",
		Content: ContentConfig{Dir: "content"},
		Output:  OutputConfig{Dir: "dist"},
	}
}

// Validate checks field lengths, the engine name and worker bounds.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title", c.Title, MaxTitleLength},
		{"description", c.Description, MaxDescriptionLength},
		{"theme", c.Theme, MaxThemeLength},
		{"class", c.Class, MaxClassLength},
		{"date", c.Date, MaxDateLength},
		{"lang", c.Lang, MaxLangLength},
		{"content.dir", c.Content.Dir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"assets.base_path", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	switch c.Engine {
	case "", EngineNative, EngineGoldmark:
	default:
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidEngine, c.Engine, EngineNative, EngineGoldmark)
	}

	if c.Build.Workers < 0 || c.Build.Workers > MaxWorkers {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidWorkers, c.Build.Workers, MaxWorkers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Fingerprint hashes every setting that changes page output. Two configs
// with the same fingerprint render identical pages from identical sources.
// Directories and worker counts are excluded.
func (c *Config) Fingerprint() string {
	h := sha256.New()
	for _, v := range []string{
		c.Title, c.Description, c.Theme, c.Class, c.Engine, c.Date, c.Lang,
		fmt.Sprint(c.Content.LatexEnabled), fmt.Sprint(c.Content.RewriteLinks),
		c.Assets.BasePath,
	} {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LoadConfig loads configuration from a file path or config name.
// A value with a path separator or a known extension is a file path.
// Otherwise it is a config name searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := decodeFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decodeFile reads configPath with the decoder matching its extension.
// Settings absent from the file keep their DefaultConfig value.
func decodeFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("%w: %s: unknown keys %s", ErrConfigParse, configPath, strings.Join(keys, ", "))
		}
	}

	return cfg, nil
}

// configExtensions lists the recognized extensions in search order.
var configExtensions = []string{".toml", ".yaml", ".yml"}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	if strings.ContainsAny(s, "/\\") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	for _, known := range configExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// SearchPaths lists the files tried for a config name, in search order:
// the current directory first, then {UserConfigDir}/mdsite/, each with
// .toml, .yaml and .yml.
func SearchPaths(name string) []string {
	paths := make([]string, 0, len(configExtensions)*2)
	for _, ext := range configExtensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range configExtensions {
			paths = append(paths, filepath.Join(userConfigDir, appName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
