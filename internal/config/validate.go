package config

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBuild(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBuild() error {
	if c.Build.AssetWorkers < 1 {
		return errors.New("build.asset_workers must be at least 1")
	}
	images := c.Build.Images
	if images == "" {
		return errors.New("build.images must be set")
	}
	if path.IsAbs(images) || strings.HasPrefix(path.Clean(images), "..") {
		return fmt.Errorf("build.images must be a relative directory inside the output directory, got %q", images)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (want debug, info, warn, or error)", c.Logging.Level)
	}
}
