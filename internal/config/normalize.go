package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizePlaylist()
	c.normalizeCatalog()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeNotify()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("DISCSET_ROMS_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.RomsDir = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("DISCSET_NTFY_TOPIC"); ok && strings.TrimSpace(value) != "" {
		c.Notify.NtfyTopic = value
	}
	if value, ok := os.LookupEnv("DISCSET_DRY_RUN"); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			c.Run.DryRun = parsed
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RomsDir) == "" {
		c.Paths.RomsDir = defaultRomsDir
	}
	if c.Paths.RomsDir, err = expandPath(c.Paths.RomsDir); err != nil {
		return fmt.Errorf("paths.roms_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	c.Scan.Platforms = trimList(c.Scan.Platforms)
	exts := make([]string, 0, len(c.Scan.IgnoreExtensions))
	for _, ext := range trimList(c.Scan.IgnoreExtensions) {
		exts = append(exts, normalizeExt(ext))
	}
	c.Scan.IgnoreExtensions = exts
}

func (c *Config) normalizePlaylist() {
	c.Playlist.LineEnding = strings.ToLower(strings.TrimSpace(c.Playlist.LineEnding))
	if c.Playlist.LineEnding == "" {
		c.Playlist.LineEnding = defaultLineEnding
	}
	if strings.TrimSpace(c.Playlist.Extension) == "" {
		c.Playlist.Extension = defaultPlaylistExt
	}
	c.Playlist.Extension = normalizeExt(c.Playlist.Extension)
}

func (c *Config) normalizeCatalog() {
	c.Catalog.Platforms = trimList(c.Catalog.Platforms)
	c.Catalog.Mode = strings.ToLower(strings.TrimSpace(c.Catalog.Mode))
	if c.Catalog.Mode == "" {
		c.Catalog.Mode = defaultCatalogMode
	}
	c.Catalog.FileName = strings.TrimSpace(c.Catalog.FileName)
	if c.Catalog.FileName == "" {
		c.Catalog.FileName = defaultCatalogFile
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.StateDir, defaultHistoryFile)
		return nil
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotify() {
	c.Notify.NtfyTopic = strings.TrimSpace(c.Notify.NtfyTopic)
	if c.Notify.RequestTimeout == 0 {
		c.Notify.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
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
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
