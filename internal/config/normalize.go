package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBuild(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeBuild() error {
	var err error
	if c.Build.Output, err = expandPath(strings.TrimSpace(c.Build.Output)); err != nil {
		return fmt.Errorf("build.output: %w", err)
	}
	if c.Build.Template, err = expandPath(strings.TrimSpace(c.Build.Template)); err != nil {
		return fmt.Errorf("build.template: %w", err)
	}
	c.Build.Images = filepath.ToSlash(strings.Trim(strings.TrimSpace(c.Build.Images), "/"))
	if c.Build.Images == "" {
		c.Build.Images = defaultImagesDir
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
