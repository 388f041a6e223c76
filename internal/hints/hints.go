// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/fileutil"
)

// ContentDirCandidates are directory names commonly holding site sources.
var ContentDirCandidates = []string{"content", "docs", "pages", "posts"}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/config.toml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/mdsite/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForContentDir returns hints for a missing content directory.
// Existing directories from ContentDirCandidates in the working directory are
// suggested, except dir itself.
func ForContentDir(dir string) string {
	var hints []string

	for _, candidate := range ContentDirCandidates {
		if candidate != filepath.Clean(dir) && fileutil.DirExists(candidate) {
			hints = append(hints, "found ./"+candidate+", try: mdsite build "+candidate)
			break
		}
	}
	hints = append(hints, "set content.dir in config or pass the directory as an argument")

	return formatHints(hints)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForOutputCollision returns hints for two sources sharing one output page.
func ForOutputCollision() string {
	return format("rename or remove one of the sources")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + ", or a path to a .css file")
}

// ForEngine returns hints for unknown engine errors.
func ForEngine(engines []string) string {
	if len(engines) == 0 {
		return ""
	}
	return format("engines: " + strings.Join(engines, ", "))
}

// ForDateFormat returns hints for invalid date values.
func ForDateFormat() string {
	presets := make([]string, 0, len(dateutil.DatePresets))
	for name := range dateutil.DatePresets {
		presets = append(presets, name)
	}
	sort.Strings(presets)
	return format("use auto, auto:FORMAT (YYYY, MM, DD, MMMM) or auto:" + strings.Join(presets, "|"))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
