package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Theme != "default" {
		t.Errorf("Theme = %q, want %q", cfg.Theme, "default")
	}
	if cfg.Engine != EngineNative {
		t.Errorf("Engine = %q, want %q", cfg.Engine, EngineNative)
	}
	if cfg.Lang != "en" {
		t.Errorf("Lang = %q, want %q", cfg.Lang, "en")
	}
	if cfg.Content.Dir != "content" {
		t.Errorf("Content.Dir = %q, want %q", cfg.Content.Dir, "content")
	}
	if cfg.Output.Dir != "dist" {
		t.Errorf("Output.Dir = %q, want %q", cfg.Output.Dir, "dist")
	}
	if cfg.Class != "" || cfg.Content.LatexEnabled || cfg.Content.RewriteLinks {
		t.Errorf("unexpected non-zero optional fields: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrFieldTooLong) {
				t.Fatalf("error = %v, want ErrFieldTooLong", err)
			}
			if !strings.Contains(err.Error(), "test.field") {
				t.Errorf("error %q should name the field", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"goldmark engine", func(c *Config) { c.Engine = EngineGoldmark }, nil},
		{"empty engine", func(c *Config) { c.Engine = "" }, nil},
		{"unknown engine", func(c *Config) { c.Engine = "pandoc" }, ErrInvalidEngine},
		{"max workers", func(c *Config) { c.Build.Workers = MaxWorkers }, nil},
		{"negative workers", func(c *Config) { c.Build.Workers = -1 }, ErrInvalidWorkers},
		{"too many workers", func(c *Config) { c.Build.Workers = MaxWorkers + 1 }, ErrInvalidWorkers},
		{"title too long", func(c *Config) { c.Title = strings.Repeat("t", MaxTitleLength+1) }, ErrFieldTooLong},
		{"class too long", func(c *Config) { c.Class = strings.Repeat("c", MaxClassLength+1) }, ErrFieldTooLong},
		{"output dir too long", func(c *Config) { c.Output.Dir = strings.Repeat("d", MaxPathLength+1) }, ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Fingerprint(t *testing.T) {
	t.Parallel()

	base := DefaultConfig().Fingerprint()

	if got := DefaultConfig().Fingerprint(); got != base {
		t.Errorf("Fingerprint() not stable: %q != %q", got, base)
	}
	if len(base) != 64 {
		t.Errorf("len(Fingerprint()) = %d, want 64", len(base))
	}

	changes := map[string]func(*Config){
		"class":         func(c *Config) { c.Class = "x" },
		"theme":         func(c *Config) { c.Theme = "frappe" },
		"latex":         func(c *Config) { c.Content.LatexEnabled = true },
		"rewrite links": func(c *Config) { c.Content.RewriteLinks = true },
		"engine":        func(c *Config) { c.Engine = EngineGoldmark },
	}
	for name, mutate := range changes {
		cfg := DefaultConfig()
		mutate(cfg)
		if cfg.Fingerprint() == base {
			t.Errorf("changing %s did not change the fingerprint", name)
		}
	}

	ignored := map[string]func(*Config){
		"workers":     func(c *Config) { c.Build.Workers = 4 },
		"content dir": func(c *Config) { c.Content.Dir = "docs" },
		"output dir":  func(c *Config) { c.Output.Dir = "public" },
	}
	for name, mutate := range ignored {
		cfg := DefaultConfig()
		mutate(cfg)
		if cfg.Fingerprint() != base {
			t.Errorf("changing %s changed the fingerprint", name)
		}
	}
}

func TestLoadConfig_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		content string
	}{
		{
			file: "site.toml",
			content: `title = "Notes"
theme = "frappe"
class = "note"

[content]
dir = "docs"
latex_enabled = true

[build]
workers = 4
`,
		},
		{
			file: "site.yaml",
			content: `title: Notes
theme: frappe
class: note
content:
  dir: docs
  latex_enabled: true
build:
  workers: 4
`,
		},
		{
			file: "site.yml",
			content: `title: Notes
theme: frappe
class: note
content:
  dir: docs
  latex_enabled: true
build:
  workers: 4
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, t.TempDir(), tt.file, tt.content)
			cfg, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig(%q) error = %v", path, err)
			}
			if cfg.Title != "Notes" || cfg.Theme != "frappe" || cfg.Class != "note" {
				t.Errorf("top-level fields = %q/%q/%q", cfg.Title, cfg.Theme, cfg.Class)
			}
			if cfg.Content.Dir != "docs" || !cfg.Content.LatexEnabled {
				t.Errorf("Content = %+v", cfg.Content)
			}
			if cfg.Build.Workers != 4 {
				t.Errorf("Build.Workers = %d, want 4", cfg.Build.Workers)
			}
			// Absent settings keep their defaults.
			if cfg.Engine != EngineNative || cfg.Output.Dir != "dist" || cfg.Lang != "en" {
				t.Errorf("defaults lost: engine=%q output=%q lang=%q", cfg.Engine, cfg.Output.Dir, cfg.Lang)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"empty name", "", ErrEmptyConfigName},
		{"missing file", filepath.Join(dir, "missing.toml"), ErrConfigNotFound},
		{"toml syntax error", writeConfig(t, dir, "bad.toml", "title = \n"), ErrConfigParse},
		{"toml unknown key", writeConfig(t, dir, "unknown.toml", "title = \"a\"\nstyle = \"x\"\n"), ErrConfigParse},
		{"toml unknown nested key", writeConfig(t, dir, "nested.toml", "[content]\nfolder = \"x\"\n"), ErrConfigParse},
		{"yaml unknown key", writeConfig(t, dir, "unknown.yaml", "title: a\nstyle: x\n"), ErrConfigParse},
		{"invalid engine", writeConfig(t, dir, "engine.toml", "engine = \"pandoc\"\n"), ErrInvalidEngine},
		{"invalid workers", writeConfig(t, dir, "workers.yaml", "build:\n  workers: 100\n"), ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadConfig(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
			if cfg != nil {
				t.Errorf("LoadConfig(%q) config = %+v, want nil", tt.path, cfg)
			}
		})
	}
}

func TestLoadConfig_UnknownKeysNamed(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "site.toml", "zeta = 1\nalpha = 2\n")
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "alpha, zeta") {
		t.Errorf("error %q should list sorted unknown keys", err)
	}
}

func TestLoadConfig_EmptyFileGivesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), "empty.toml", "  \n\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Fingerprint() != DefaultConfig().Fingerprint() {
		t.Errorf("empty file config = %+v, want defaults", cfg)
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"config", false},
		{"site", false},
		{"config.toml", true},
		{"config.TOML", true},
		{"config.yaml", true},
		{"config.yml", true},
		{"config.json", false},
		{"./config", true},
		{"dir/config", true},
		{`dir\config`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := isFilePath(tt.input); got != tt.want {
				t.Errorf("isFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Changes the working directory, so it cannot run in parallel.
func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("toml preferred over yaml", func(t *testing.T) {
		writeConfig(t, dir, "mdsite-test-a.toml", "title = \"from toml\"\n")
		writeConfig(t, dir, "mdsite-test-a.yaml", "title: from yaml\n")

		cfg, err := LoadConfig("mdsite-test-a")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Title != "from toml" {
			t.Errorf("Title = %q, want %q", cfg.Title, "from toml")
		}
	})

	t.Run("yml found", func(t *testing.T) {
		writeConfig(t, dir, "mdsite-test-b.yml", "title: from yml\n")

		cfg, err := LoadConfig("mdsite-test-b")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Title != "from yml" {
			t.Errorf("Title = %q, want %q", cfg.Title, "from yml")
		}
	})

	t.Run("not found lists tried paths", func(t *testing.T) {
		_, err := LoadConfig("mdsite-test-missing")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "mdsite-test-missing.toml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("site")
	if len(paths) < 3 {
		t.Fatalf("SearchPaths() = %v, want at least the local candidates", paths)
	}
	want := []string{"site.toml", "site.yaml", "site.yml"}
	for i, w := range want {
		if paths[i] != w {
			t.Errorf("SearchPaths()[%d] = %q, want %q", i, paths[i], w)
		}
	}
	for _, p := range paths[len(want):] {
		if !strings.Contains(filepath.ToSlash(p), "/mdsite/") {
			t.Errorf("user path %q should live under an mdsite directory", p)
		}
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := writeConfig(t, dir, "f.toml", "")

	if !fileExists(file) {
		t.Errorf("fileExists(%q) = false, want true", file)
	}
	if fileExists(dir) {
		t.Errorf("fileExists(%q) = true for a directory", dir)
	}
	if fileExists(filepath.Join(dir, "nope")) {
		t.Error("fileExists() = true for a missing path")
	}
}
