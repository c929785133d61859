package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"catalogid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The input directory exists; cache and output directories are left for the
// run to create.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "parsed_courses")
	cfgVal.Paths.CacheDir = filepath.Join(base, "id_cache")
	cfgVal.Paths.OutputDir = filepath.Join(base, "importer_dumps")
	cfgVal.Paths.LogDir = ""
	cfgVal.Identity.OverridesPath = filepath.Join(base, "overrides.json")

	if err := os.MkdirAll(cfgVal.Paths.InputDir, 0o755); err != nil {
		t.Fatalf("mkdir input dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOverrides writes the given JSON as the overrides file.
func WithOverrides(data string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.WriteFile(b.cfg.Identity.OverridesPath, []byte(data), 0o644); err != nil {
			b.t.Fatalf("write overrides: %v", err)
		}
	}
}

// WithFormats sets the output formats on the test config.
func WithFormats(formats ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Formats = formats
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
