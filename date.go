package mdsite

import (
	"time"

	"github.com/alnah/go-mdsite/internal/dateutil"
)

// ResolveDate handles "auto", "auto:FORMAT" and "mtime" syntax for date values.
// - "auto" → t in YYYY-MM-DD format
// - "auto:FORMAT" → t in custom format (e.g., "auto:DD/MM/YYYY")
// - "auto:preset" → t using named preset (iso, european, us, long)
// - "mtime[:FORMAT]" → same as auto; callers pass the file modification time as t
// - any other value → returned unchanged (passthrough)
//
// The time parameter allows injecting a fixed time for testing.
func ResolveDate(value string, t time.Time) (string, error) {
	return dateutil.ResolveDate(value, t)
}
