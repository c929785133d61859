package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"catalogid/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".local", "share", "catalogid", "id_cache")
	if cfg.Paths.CacheDir != wantCache {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, wantCache)
	}
	if cfg.Identity.MaxTitleDistance != 0.25 || cfg.Identity.MaxDescriptionDistance != 0.25 {
		t.Fatalf("unexpected distance thresholds: %+v", cfg.Identity)
	}
	if cfg.Identity.SummerTermSuffix != "2" {
		t.Fatalf("unexpected summer suffix: %q", cfg.Identity.SummerTermSuffix)
	}
	if got := cfg.Identity.DepartmentRenames["WGST"]; got != "WGSS" {
		t.Fatalf("expected WGST rename, got %q", got)
	}
	if !cfg.WantsFormat("csv") || !cfg.WantsFormat("sqlite") {
		t.Fatalf("expected both output formats enabled, got %v", cfg.Output.Formats)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "catalogid.toml")
	content := `
[paths]
input_dir = "~/snapshots"
cache_dir = "/tmp/catalogid-cache"

[identity]
max_title_distance = 0.1
generic_titles = ["Senior  Essay", "senior essay", "Tutorial"]

[identity.department_renames]
hsar = "hist"

[output]
formats = ["CSV"]

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.InputDir != filepath.Join(tempHome, "snapshots") {
		t.Fatalf("unexpected input dir: %q", cfg.Paths.InputDir)
	}
	if cfg.Paths.CacheDir != "/tmp/catalogid-cache" {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.Identity.MaxTitleDistance != 0.1 {
		t.Fatalf("unexpected title distance: %v", cfg.Identity.MaxTitleDistance)
	}
	if cfg.Identity.MaxDescriptionDistance != 0.25 {
		t.Fatalf("expected description distance default, got %v", cfg.Identity.MaxDescriptionDistance)
	}
	counts := make(map[string]int)
	for _, title := range cfg.Identity.GenericTitles {
		counts[title]++
	}
	if counts["senior essay"] != 1 || counts["tutorial"] != 1 {
		t.Fatalf("expected deduplicated lowercase generic titles, got %v", cfg.Identity.GenericTitles)
	}
	if cfg.Identity.DepartmentRenames["HSAR"] != "HIST" {
		t.Fatalf("expected uppercase renames, got %v", cfg.Identity.DepartmentRenames)
	}
	if cfg.WantsFormat("sqlite") || !cfg.WantsFormat("csv") {
		t.Fatalf("unexpected formats: %v", cfg.Output.Formats)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "catalogid.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nstaging_dir = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "title distance above one",
			mutate: func(c *config.Config) { c.Identity.MaxTitleDistance = 1.5 },
			want:   "max_title_distance",
		},
		{
			name:   "negative description distance",
			mutate: func(c *config.Config) { c.Identity.MaxDescriptionDistance = -0.1 },
			want:   "max_description_distance",
		},
		{
			name:   "negative min length",
			mutate: func(c *config.Config) { c.Identity.MinTitleMatchLen = -1 },
			want:   "min_title_match_len",
		},
		{
			name:   "chained rename",
			mutate: func(c *config.Config) { c.Identity.DepartmentRenames = map[string]string{"A": "B", "B": "C"} },
			want:   "department_renames",
		},
		{
			name:   "unknown format",
			mutate: func(c *config.Config) { c.Output.Formats = []string{"parquet"} },
			want:   "output.formats",
		},
		{
			name:   "unknown log level",
			mutate: func(c *config.Config) { c.Logging.Level = "trace" },
			want:   "logging.level",
		},
		{
			name:   "missing input dir",
			mutate: func(c *config.Config) { c.Paths.InputDir = " " },
			want:   "input_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSampleConfigRoundTripsThroughLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded map[string]any
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	for _, section := range []string{"paths", "identity", "output", "logging"} {
		if _, ok := decoded[section]; !ok {
			t.Fatalf("sample missing [%s] section", section)
		}
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(sample): %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	def := config.Default()
	if len(cfg.Identity.GenericTitles) != len(def.Identity.GenericTitles) {
		t.Fatalf("sample generic titles drifted from defaults: %v", cfg.Identity.GenericTitles)
	}
}

func TestEnsureDirectoriesCreatesOutputs(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.LogDir = ""
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.CacheDir, cfg.Paths.OutputDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}
