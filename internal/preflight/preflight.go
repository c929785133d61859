package preflight

import (
	"fmt"
	"os"
	"strings"

	"catalogid/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all preflight checks for the given config. Writable
// directories are created when absent.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckReadableDirectory("Input directory", cfg.Paths.InputDir)}
	for _, dir := range []struct{ name, path string }{
		{"Cache directory", cfg.Paths.CacheDir},
		{"Output directory", cfg.Paths.OutputDir},
	} {
		if err := os.MkdirAll(dir.path, 0o755); err != nil {
			results = append(results, Result{Name: dir.name, Detail: fmt.Sprintf("%s (error: create: %v)", dir.path, err)})
			continue
		}
		results = append(results, CheckDirectoryAccess(dir.name, dir.path))
	}
	if cfg.Identity.OverridesPath != "" {
		results = append(results, CheckOptionalFile("Overrides file", cfg.Identity.OverridesPath))
	}
	return results
}

// Failed returns a combined error for every failing result, or nil.
func Failed(results []Result) error {
	var msgs []string
	for _, r := range results {
		if !r.Passed {
			msgs = append(msgs, r.Name+": "+r.Detail)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(msgs, "; "))
}
