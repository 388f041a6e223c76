// Package buildcache records which pages are up to date so that a rebuild
// only converts changed sources.
//
// The manifest lives in the output directory and is msgpack encoded. It is
// bound to a config fingerprint: a manifest written under different settings,
// or by a different schema version, is discarded as a whole.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/alnah/go-mdsite/internal/fileutil"
)

// FileName is the manifest file name inside the output directory.
const FileName = ".mdsite-cache"

// schemaVersion must be incremented when manifest changes shape.
const schemaVersion uint16 = 1

// ErrCorrupt indicates the manifest exists but cannot be decoded.
var ErrCorrupt = errors.New("build cache corrupt")

// Entry is what the manifest knows about one source file.
type Entry struct {
	Digest string `msgpack:"digest"`
	Output string `msgpack:"output"`
}

type manifest struct {
	Schema      uint16           `msgpack:"schema"`
	Fingerprint string           `msgpack:"fingerprint"`
	Entries     map[string]Entry `msgpack:"entries"`
}

// Cache is the in-memory manifest. Thread-safe for concurrent access.
type Cache struct {
	mu          sync.RWMutex
	path        string
	fingerprint string
	entries     map[string]Entry
	dirty       bool
}

// Open loads the manifest from outputDir. A missing manifest, or one written
// under another fingerprint or schema, yields an empty cache. A manifest that
// cannot be decoded yields an empty cache and an error wrapping ErrCorrupt;
// the returned cache is usable either way.
func Open(outputDir, fingerprint string) (*Cache, error) {
	c := &Cache{
		path:        filepath.Join(outputDir, FileName),
		fingerprint: fingerprint,
		entries:     make(map[string]Entry),
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("reading build cache: %w", err)
	}

	var m manifest
	if err := msgpack.Unmarshal(data, &m); err != nil {
		c.dirty = true
		return c, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if m.Schema != schemaVersion || m.Fingerprint != fingerprint {
		c.dirty = true
		return c, nil
	}
	if m.Entries != nil {
		c.entries = m.Entries
	}
	return c, nil
}

// Digest returns the hex sha256 of content and any extra parts that
// influence the page, such as a per-document date.
func Digest(content []byte, extra ...string) string {
	h := sha256.New()
	h.Write(content)
	for _, e := range extra {
		h.Write([]byte{0})
		h.Write([]byte(e))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Fresh reports whether input was last built from digest into output and
// output still exists.
func (c *Cache) Fresh(input, digest, output string) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	e, ok := c.entries[input]
	c.mu.RUnlock()

	return ok && e.Digest == digest && e.Output == output && fileutil.FileExists(output)
}

// Record marks input as built from digest into output.
func (c *Cache) Record(input, digest, output string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[input]; ok && e.Digest == digest && e.Output == output {
		return
	}
	c.entries[input] = Entry{Digest: digest, Output: output}
	c.dirty = true
}

// Forget drops input, so that the next build converts it again.
func (c *Cache) Forget(input string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[input]; ok {
		delete(c.entries, input)
		c.dirty = true
	}
}

// Prune drops entries whose input is not in keep and returns how many
// were dropped.
func (c *Cache) Prune(keep []string) int {
	if c == nil {
		return 0
	}
	set := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		set[k] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for input := range c.entries {
		if _, ok := set[input]; !ok {
			delete(c.entries, input)
			dropped++
		}
	}
	if dropped > 0 {
		c.dirty = true
	}
	return dropped
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Save writes the manifest atomically when it changed since Open.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	data, err := msgpack.Marshal(&manifest{
		Schema:      schemaVersion,
		Fingerprint: c.fingerprint,
		Entries:     c.entries,
	})
	if err != nil {
		return fmt.Errorf("encoding build cache: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing build cache: %w", err)
	}
	c.dirty = false
	return nil
}

// Path returns the manifest location.
func (c *Cache) Path() string {
	return c.path
}
