package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeIdentity(); err != nil {
		return err
	}
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeIdentity() error {
	var err error
	c.Identity.OverridesPath = strings.TrimSpace(c.Identity.OverridesPath)
	if c.Identity.OverridesPath, err = expandPath(c.Identity.OverridesPath); err != nil {
		return fmt.Errorf("identity.overrides_path: %w", err)
	}
	c.Identity.SummerTermSuffix = strings.TrimSpace(c.Identity.SummerTermSuffix)
	if c.Identity.SummerTermSuffix == "" {
		c.Identity.SummerTermSuffix = defaultSummerTermSuffix
	}

	seen := make(map[string]struct{}, len(c.Identity.GenericTitles))
	titles := make([]string, 0, len(c.Identity.GenericTitles))
	for _, title := range c.Identity.GenericTitles {
		title = strings.ToLower(strings.Join(strings.Fields(title), " "))
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}
	c.Identity.GenericTitles = titles

	renames := make(map[string]string, len(c.Identity.DepartmentRenames))
	for from, to := range c.Identity.DepartmentRenames {
		renames[strings.ToUpper(strings.TrimSpace(from))] = strings.ToUpper(strings.TrimSpace(to))
	}
	c.Identity.DepartmentRenames = renames
	return nil
}

func (c *Config) normalizeOutput() {
	formats := make([]string, 0, len(c.Output.Formats))
	seen := make(map[string]struct{}, len(c.Output.Formats))
	for _, f := range c.Output.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		formats = append(formats, f)
	}
	c.Output.Formats = formats
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
