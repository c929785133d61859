package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateIdentity(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateIdentity() error {
	id := c.Identity
	if id.MaxTitleDistance < 0 || id.MaxTitleDistance > 1 {
		return errors.New("identity.max_title_distance must be between 0 and 1")
	}
	if id.MaxDescriptionDistance < 0 || id.MaxDescriptionDistance > 1 {
		return errors.New("identity.max_description_distance must be between 0 and 1")
	}
	if id.MinTitleMatchLen < 0 {
		return errors.New("identity.min_title_match_len must be non-negative")
	}
	if id.MinDescriptionMatchLen < 0 {
		return errors.New("identity.min_description_match_len must be non-negative")
	}
	for from, to := range id.DepartmentRenames {
		if from == "" || to == "" {
			return fmt.Errorf("identity.department_renames: empty prefix in %q -> %q", from, to)
		}
		if strings.ContainsRune(from, ' ') || strings.ContainsRune(to, ' ') {
			return fmt.Errorf("identity.department_renames: prefixes cannot contain spaces (%q -> %q)", from, to)
		}
		if next, chained := id.DepartmentRenames[to]; chained && next != to {
			return fmt.Errorf("identity.department_renames: %q renames to %q which is itself renamed to %q", from, to, next)
		}
	}
	return nil
}

func (c *Config) validateOutput() error {
	for _, f := range c.Output.Formats {
		switch f {
		case "csv", "sqlite":
		default:
			return fmt.Errorf("output.formats: unsupported format %q (expected csv or sqlite)", f)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
