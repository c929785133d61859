package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"catalogid/internal/logging"
)

// Catalog loads user-authored override specs layered over the defaults.
type Catalog struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	loaded  time.Time
	entries []Spec
}

// NewCatalog constructs a catalog backed by the provided JSON file. An empty
// path yields a catalog serving only the defaults.
func NewCatalog(path string, logger *slog.Logger) *Catalog {
	return &Catalog{
		path:   strings.TrimSpace(path),
		logger: logging.NewComponentLogger(logger, "overrides"),
	}
}

// Specs returns the defaults followed by every spec from the file, each
// normalized through normalize and validated.
func (c *Catalog) Specs(normalize func(string) string) ([]Spec, error) {
	if normalize == nil {
		normalize = NormalizeCode
	}
	if c != nil {
		if err := c.ensureLoaded(); err != nil {
			return nil, err
		}
	}

	specs := Defaults()
	if c != nil {
		c.mu.RLock()
		for _, s := range c.entries {
			specs = append(specs, cloneSpec(s))
		}
		c.mu.RUnlock()
	}

	for i := range specs {
		specs[i].Normalize(normalize)
		if err := specs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return specs, nil
}

func (c *Catalog) ensureLoaded() error {
	if c.path == "" {
		return nil
	}
	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	c.mu.RLock()
	alreadyLoaded := !c.loaded.IsZero() && c.loaded.Equal(info.ModTime())
	c.mu.RUnlock()
	if alreadyLoaded {
		return nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}
	entries, err := parseSpecs(data)
	if err != nil {
		return fmt.Errorf("parse overrides %s: %w", c.path, err)
	}

	c.mu.Lock()
	c.entries = entries
	c.loaded = info.ModTime()
	c.mu.Unlock()
	c.logger.Info("loaded override split specs", logging.String("path", c.path), logging.Int("count", len(entries)))
	return nil
}

func parseSpecs(data []byte) ([]Spec, error) {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	var entries []Spec
	// Accept either array or object with overrides field.
	if data[0] == '{' {
		var wrapper struct {
			Overrides []Spec `json:"overrides"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, err
		}
		entries = wrapper.Overrides
	} else {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func cloneSpec(s Spec) Spec {
	out := Spec{Name: s.Name, Groups: make([][]Marker, len(s.Groups))}
	for i, g := range s.Groups {
		out.Groups[i] = append([]Marker(nil), g...)
	}
	return out
}
