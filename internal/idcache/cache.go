package idcache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"catalogid/internal/invariants"
	"catalogid/internal/logging"
)

// Kind names one persisted id cache.
type Kind string

const (
	KindOffering  Kind = "offering_id"
	KindCourse    Kind = "course_id"
	KindProfessor Kind = "professor_id"
	KindFlag      Kind = "flag_id"
)

// Kinds lists every cache kind the pipeline maintains.
var Kinds = []Kind{KindOffering, KindCourse, KindProfessor, KindFlag}

// Strict reports whether reassignment of a key in this kind is fatal.
// Course ids are lenient because cross-listing changes legitimately move
// offerings between courses.
func (k Kind) Strict() bool {
	return k != KindCourse
}

// ParseKind resolves a user-supplied kind name.
func ParseKind(value string) (Kind, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimSuffix(value, ".json")
	for _, k := range Kinds {
		if string(k) == value || strings.TrimSuffix(string(k), "_id") == value {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown cache kind %q", value)
}

// Path returns the file backing a cache kind inside dir.
func Path(dir string, kind Kind) string {
	return filepath.Join(dir, string(kind)+".json")
}

// Entry is one persisted mapping.
type Entry struct {
	Key string `json:"key"`
	ID  int    `json:"id"`
}

// Cache is the in-memory view of one cache kind for the duration of a run.
type Cache struct {
	kind    Kind
	path    string
	entries map[string]int
	max     int
}

// New returns an empty cache not backed by any file.
func New(kind Kind) *Cache {
	return &Cache{kind: kind, entries: make(map[string]int)}
}

// Load reads the cache file for kind from dir. A missing or empty file
// yields an empty cache.
func Load(dir string, kind Kind) (*Cache, error) {
	path := Path(dir, kind)
	entries, err := readFile(path)
	if err != nil {
		return nil, invariants.Wrap(invariants.ErrInvalidInput, "idcache", "load", string(kind), err)
	}
	c := &Cache{kind: kind, path: path, entries: entries}
	for _, id := range entries {
		if id > c.max {
			c.max = id
		}
	}
	return c, nil
}

// FromMap builds a cache over an existing mapping.
func FromMap(kind Kind, entries map[string]int) *Cache {
	c := New(kind)
	for k, v := range entries {
		c.entries[k] = v
		if v > c.max {
			c.max = v
		}
	}
	return c
}

// Kind returns the cache kind.
func (c *Cache) Kind() Kind { return c.kind }

// Path returns the backing file, empty for in-memory caches.
func (c *Cache) Path() string { return c.path }

// Len returns the number of cached keys.
func (c *Cache) Len() int { return len(c.entries) }

// Max returns the largest cached id, zero when empty.
func (c *Cache) Max() int { return c.max }

// Lookup returns the cached id for key.
func (c *Cache) Lookup(key string) (int, bool) {
	id, ok := c.entries[key]
	return id, ok
}

// Entries returns every mapping ordered by id, then key.
func (c *Cache) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for k, v := range c.entries {
		out = append(out, Entry{Key: k, ID: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Assign gives every row an id. Rows whose key is cached reuse the cached id;
// unseen keys receive sequential ids above the largest cached value, and
// rows sharing an unseen key share the minted id.
func Assign[T any](rows []T, keyFn func(T) string, c *Cache) []int {
	ids := make([]int, len(rows))
	next := c.max + 1
	minted := make(map[string]int)
	for i, row := range rows {
		key := keyFn(row)
		if id, ok := c.entries[key]; ok {
			ids[i] = id
			continue
		}
		if id, ok := minted[key]; ok {
			ids[i] = id
			continue
		}
		minted[key] = next
		ids[i] = next
		next++
	}
	return ids
}

// Merge persists pairs into this cache's file under the kind's discipline
// and refreshes the in-memory view.
func (c *Cache) Merge(pairs map[string]int, logger *slog.Logger) (invariants.Diagnostics, error) {
	if c.path == "" {
		diags, err := mergeInto(c.entries, pairs, c.kind, c.kind.Strict(), logger)
		if err != nil {
			return diags, err
		}
		c.recomputeMax()
		return diags, nil
	}
	diags, err := Merge(c.path, c.kind, pairs, c.kind.Strict(), logger)
	if err != nil {
		return diags, err
	}
	entries, err := readFile(c.path)
	if err != nil {
		return diags, invariants.Wrap(invariants.ErrInvalidInput, "idcache", "reload", string(c.kind), err)
	}
	c.entries = entries
	c.recomputeMax()
	return diags, nil
}

func (c *Cache) checkStrict(pairs map[string]int) error {
	_, err := mergeInto(copyEntries(c.entries), pairs, c.kind, true, nil)
	return err
}

func copyEntries(entries map[string]int) map[string]int {
	out := make(map[string]int, len(entries))
	for k, v := range entries {
		out[k] = v
	}
	return out
}

func (c *Cache) recomputeMax() {
	c.max = 0
	for _, id := range c.entries {
		if id > c.max {
			c.max = id
		}
	}
}

// Merge reads the cache file at path, folds in pairs, and rewrites it
// atomically. Under strict, an existing key mapped to a different id is an
// ErrCacheConflict and nothing is written. Otherwise the new id wins and a
// diagnostic is returned for each overwritten key.
func Merge(path string, kind Kind, pairs map[string]int, strict bool, logger *slog.Logger) (invariants.Diagnostics, error) {
	existing, err := readFile(path)
	if err != nil {
		return nil, invariants.Wrap(invariants.ErrInvalidInput, "idcache", "merge", string(kind), err)
	}
	diags, err := mergeInto(existing, pairs, kind, strict, logger)
	if err != nil {
		return nil, err
	}
	if err := writeFile(path, existing); err != nil {
		return diags, fmt.Errorf("persist %s cache: %w", kind, err)
	}
	logging.NewComponentLogger(logger, "idcache").Debug("merged id cache",
		logging.String("kind", string(kind)),
		logging.Int("entry_count", len(existing)),
		logging.Int("new_pairs", len(pairs)),
		logging.String("path", path))
	return diags, nil
}

func mergeInto(existing, pairs map[string]int, kind Kind, strict bool, logger *slog.Logger) (invariants.Diagnostics, error) {
	logger = logging.NewComponentLogger(logger, "idcache")
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conflicts []string
	for _, k := range keys {
		if old, ok := existing[k]; ok && old != pairs[k] {
			conflicts = append(conflicts, fmt.Sprintf("%s: %d -> %d", k, old, pairs[k]))
		}
	}
	if strict && len(conflicts) > 0 {
		return nil, invariants.Wrap(invariants.ErrCacheConflict, "idcache", "merge",
			fmt.Sprintf("%s keys reassigned: %s", kind, strings.Join(conflicts, "; ")), nil)
	}

	var diags invariants.Diagnostics
	for _, k := range keys {
		newID := pairs[k]
		if old, ok := existing[k]; ok && old != newID {
			diags.Add(invariants.Diagnostic{
				Stage:   "idcache",
				Event:   "cache_overwrite",
				Message: fmt.Sprintf("%s key moved from %d to %d", kind, old, newID),
				Keys:    []string{k},
				IDs:     []int{old, newID},
			})
			logging.WarnWithContext(logger, "id cache key reassigned",
				"idcache_overwrite",
				logging.String("kind", string(kind)),
				logging.String("key", k),
				logging.Int("old_id", old),
				logging.Int("new_id", newID),
				logging.String(logging.FieldErrorHint, "expected when cross-listings change between snapshots"),
				logging.String(logging.FieldImpact, "external references to the old id now point elsewhere"))
		}
		existing[k] = newID
	}
	return diags, nil
}

func readFile(path string) (map[string]int, error) {
	entries := make(map[string]int)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse cache file %s: %w", path, err)
	}
	return entries, nil
}

// writeFile writes the cache atomically via a temp file. encoding/json sorts
// map keys so the output is deterministic.
func writeFile(path string, entries map[string]int) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
