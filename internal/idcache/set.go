package idcache

import (
	"log/slog"

	"catalogid/internal/invariants"
)

// Set bundles one loaded cache per kind.
type Set struct {
	dir    string
	caches map[Kind]*Cache
}

// LoadSet loads every kind from dir.
func LoadSet(dir string) (*Set, error) {
	s := &Set{dir: dir, caches: make(map[Kind]*Cache, len(Kinds))}
	for _, k := range Kinds {
		c, err := Load(dir, k)
		if err != nil {
			return nil, err
		}
		s.caches[k] = c
	}
	return s, nil
}

// NewMemorySet returns a set of empty in-memory caches.
func NewMemorySet() *Set {
	s := &Set{caches: make(map[Kind]*Cache, len(Kinds))}
	for _, k := range Kinds {
		s.caches[k] = New(k)
	}
	return s
}

// Dir returns the directory the set was loaded from.
func (s *Set) Dir() string { return s.dir }

// Get returns the cache for kind.
func (s *Set) Get(kind Kind) *Cache {
	c, ok := s.caches[kind]
	if !ok {
		c = New(kind)
		s.caches[kind] = c
	}
	return c
}

// MergeAll persists pending pairs per kind. Strict kinds are merged first so
// a conflict aborts before any lenient cache is rewritten.
func (s *Set) MergeAll(pending map[Kind]map[string]int, logger *slog.Logger) (invariants.Diagnostics, error) {
	var diags invariants.Diagnostics
	order := make([]Kind, 0, len(Kinds))
	for _, k := range Kinds {
		if k.Strict() {
			order = append(order, k)
		}
	}
	for _, k := range Kinds {
		if !k.Strict() {
			order = append(order, k)
		}
	}
	for _, k := range order {
		if !k.Strict() {
			continue
		}
		if err := s.Get(k).checkStrict(pending[k]); err != nil {
			return nil, err
		}
	}
	for _, k := range order {
		pairs := pending[k]
		if len(pairs) == 0 {
			continue
		}
		d, err := s.Get(k).Merge(pairs, logger)
		if err != nil {
			return diags, err
		}
		diags.Extend(d)
	}
	return diags, nil
}
