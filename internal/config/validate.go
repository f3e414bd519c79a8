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
	if err := c.validatePlaylist(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateNotify(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.RomsDir == "" {
		return errors.New("paths.roms_dir must be set")
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validatePlaylist() error {
	switch c.Playlist.LineEnding {
	case "lf", "crlf":
	default:
		return fmt.Errorf("playlist.line_ending must be lf or crlf, got %q", c.Playlist.LineEnding)
	}
	if strings.ContainsAny(c.Playlist.Extension, `/\`) || c.Playlist.Extension == "." {
		return fmt.Errorf("playlist.extension %q is not a file extension", c.Playlist.Extension)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Mode {
	case CatalogModePatch, CatalogModeSkip, CatalogModePlaylist:
	default:
		return fmt.Errorf("catalog.mode must be patch, skip or playlist, got %q", c.Catalog.Mode)
	}
	if strings.ContainsAny(c.Catalog.FileName, `/\`) {
		return fmt.Errorf("catalog.file_name %q must be a bare file name", c.Catalog.FileName)
	}
	return nil
}

func (c *Config) validateNotify() error {
	if c.Notify.RequestTimeout < 0 {
		return fmt.Errorf("notify.request_timeout must be positive, got %d", c.Notify.RequestTimeout)
	}
	topic := c.Notify.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notify.ntfy_topic must be a full http(s) URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
