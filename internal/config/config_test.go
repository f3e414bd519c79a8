package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"discset/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

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

	if cfg.Paths.RomsDir != filepath.Join(tempHome, "roms") {
		t.Fatalf("unexpected roms dir: %q", cfg.Paths.RomsDir)
	}
	wantState := filepath.Join(tempHome, ".local", "share", "discset")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.History.Path != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.LockPath() != filepath.Join(wantState, "discset.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if cfg.Catalog.Mode != config.CatalogModePatch {
		t.Fatalf("unexpected catalog mode: %q", cfg.Catalog.Mode)
	}
	if cfg.Catalog.FileName != "gamelist.xml" {
		t.Fatalf("unexpected catalog file: %q", cfg.Catalog.FileName)
	}
	if cfg.Playlist.LineEnding != "lf" || cfg.Playlist.Extension != ".m3u" {
		t.Fatalf("unexpected playlist defaults: %+v", cfg.Playlist)
	}
	if cfg.Run.DryRun {
		t.Fatal("expected dry run off by default")
	}
	if !cfg.Ignored(".M3U") {
		t.Fatal("expected playlists to be ignored during scans")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
roms_dir = "~/games"
state_dir = "/tmp/discset-state"

[scan]
platforms = [" amiga ", "", "psx"]
ignore_extensions = ["TXT", ".Xml"]

[playlist]
line_ending = "CRLF"
extension = "m3u8"

[catalog]
platforms = ["Amiga"]
mode = "Skip"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.RomsDir != filepath.Join(tempHome, "games") {
		t.Fatalf("unexpected roms dir: %q", cfg.Paths.RomsDir)
	}
	if strings.Join(cfg.Scan.Platforms, ",") != "amiga,psx" {
		t.Fatalf("unexpected platforms: %v", cfg.Scan.Platforms)
	}
	if strings.Join(cfg.Scan.IgnoreExtensions, ",") != ".txt,.xml" {
		t.Fatalf("unexpected ignore list: %v", cfg.Scan.IgnoreExtensions)
	}
	if cfg.Playlist.LineEnding != "crlf" || cfg.Playlist.Extension != ".m3u8" {
		t.Fatalf("unexpected playlist config: %+v", cfg.Playlist)
	}
	if !cfg.IsCatalogPlatform("amiga") || cfg.IsCatalogPlatform("psx") {
		t.Fatal("catalog platform matching should be case-insensitive")
	}
	if cfg.Catalog.Mode != config.CatalogModeSkip {
		t.Fatalf("unexpected catalog mode: %q", cfg.Catalog.Mode)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[catalog]\nplatfroms = [\"amiga\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	romsDir := t.TempDir()
	t.Setenv("DISCSET_ROMS_DIR", romsDir)
	t.Setenv("DISCSET_DRY_RUN", "true")
	t.Setenv("DISCSET_NTFY_TOPIC", " https://ntfy.example/roms ")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nroms_dir = \"/elsewhere\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.RomsDir != romsDir {
		t.Fatalf("expected roms dir from env, got %q", cfg.Paths.RomsDir)
	}
	if !cfg.Run.DryRun {
		t.Fatal("expected dry run from env")
	}
	if cfg.Notify.NtfyTopic != "https://ntfy.example/roms" {
		t.Fatalf("expected trimmed ntfy topic from env, got %q", cfg.Notify.NtfyTopic)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Catalog.FileName != "gamelist.xml" {
		t.Fatalf("unexpected sample catalog file: %q", cfg.Catalog.FileName)
	}

	t.Setenv("HOME", t.TempDir())
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"line ending", func(c *config.Config) { c.Playlist.LineEnding = "cr" }},
		{"catalog mode", func(c *config.Config) { c.Catalog.Mode = "hide" }},
		{"catalog file path", func(c *config.Config) { c.Catalog.FileName = "sub/gamelist.xml" }},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }},
		{"roms dir", func(c *config.Config) { c.Paths.RomsDir = "" }},
		{"ntfy topic", func(c *config.Config) { c.Notify.NtfyTopic = "ntfy.sh/roms" }},
		{"notify timeout", func(c *config.Config) { c.Notify.RequestTimeout = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
