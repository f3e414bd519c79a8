package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the ROM tree and the state directory.
type Paths struct {
	RomsDir  string `toml:"roms_dir"`
	StateDir string `toml:"state_dir"`
}

// Scan controls which platform directories and files are enumerated.
type Scan struct {
	// Platforms limits the run to these directory names under RomsDir.
	// Empty means every directory.
	Platforms        []string `toml:"platforms"`
	IgnoreExtensions []string `toml:"ignore_extensions"`
}

// Playlist contains settings for the M3U writer.
type Playlist struct {
	LineEnding string `toml:"line_ending"`
	Extension  string `toml:"extension"`
}

// Catalog contains settings for platforms that keep a gamelist instead of
// playlists.
type Catalog struct {
	Platforms []string `toml:"platforms"`
	Mode      string   `toml:"mode"`
	FileName  string   `toml:"file_name"`
}

// Catalog modes.
const (
	CatalogModePatch    = "patch"
	CatalogModeSkip     = "skip"
	CatalogModePlaylist = "playlist"
)

// History contains settings for the run ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Notify contains settings for ntfy run notifications.
type Notify struct {
	// NtfyTopic is the full topic URL; empty disables notifications.
	NtfyTopic string `toml:"ntfy_topic"`
	// RequestTimeout is in seconds.
	RequestTimeout int `toml:"request_timeout"`
	// OnlyOnChanges skips notifications for runs that wrote nothing.
	OnlyOnChanges bool `toml:"only_on_changes"`
}

// Run contains defaults for a run that flags may override.
type Run struct {
	DryRun bool `toml:"dry_run"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File additionally writes logs under <state_dir>/logs.
	File bool `toml:"file"`
}

// Config encapsulates all configuration values for discset.
//
// Configuration sections:
//   - Paths: ROM tree and state directory
//   - Scan: platform selection and ignored extensions
//   - Playlist: M3U line endings and extension
//   - Catalog: gamelist platforms and patch policy
//   - History: SQLite ledger of runs
//   - Notify: ntfy notifications after a run
//   - Run: dry-run default
//   - Logging: log format, level, and file output
type Config struct {
	Paths    Paths    `toml:"paths"`
	Scan     Scan     `toml:"scan"`
	Playlist Playlist `toml:"playlist"`
	Catalog  Catalog  `toml:"catalog"`
	History  History  `toml:"history"`
	Notify   Notify   `toml:"notify"`
	Run      Run      `toml:"run"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("discset.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and, when file logging is
// on, its log directory. The ROM tree is never created.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir}
	if c.Logging.File {
		dirs = append(dirs, c.LogDir())
	}
	if c.History.Enabled {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogDir is where file logs are written.
func (c *Config) LogDir() string {
	return filepath.Join(c.Paths.StateDir, "logs")
}

// LockPath is the single-instance lock for mutating runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "discset.lock")
}

// IsCatalogPlatform reports whether platform keeps a catalog. Matching is
// case-insensitive.
func (c *Config) IsCatalogPlatform(platform string) bool {
	return slices.ContainsFunc(c.Catalog.Platforms, func(p string) bool {
		return strings.EqualFold(p, platform)
	})
}

// Ignored reports whether files with ext are skipped during enumeration.
func (c *Config) Ignored(ext string) bool {
	return slices.Contains(c.Scan.IgnoreExtensions, strings.ToLower(ext))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
