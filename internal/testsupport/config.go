package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"discset/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The ROM root exists and is empty.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RomsDir = filepath.Join(base, "roms")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.History.Path = filepath.Join(cfgVal.Paths.StateDir, "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(builder.cfg.Paths.RomsDir, 0o755); err != nil {
		t.Fatalf("create roms dir: %v", err)
	}
	return builder.cfg
}

// WithCatalogPlatforms marks platforms as catalog platforms.
func WithCatalogPlatforms(platforms ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Platforms = platforms
	}
}

// WithCatalogMode sets the catalog policy.
func WithCatalogMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Mode = mode
	}
}

// WithHistoryDisabled turns the run ledger off.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the temp directory that backs the config's paths.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.RomsDir)
}
