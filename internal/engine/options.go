package engine

import (
	"discset/internal/config"
	"discset/internal/scan"
)

// Options configures a run.
type Options struct {
	RunID   string
	RomsDir string
	DryRun  bool

	Scan scan.Options

	LineEnding string

	CatalogPlatforms []string
	CatalogMode      string
	CatalogFile      string
}

// OptionsFromConfig maps configuration onto run options.
func OptionsFromConfig(cfg *config.Config, dryRun bool) Options {
	return Options{
		RomsDir: cfg.Paths.RomsDir,
		DryRun:  dryRun,
		Scan: scan.Options{
			Platforms:         cfg.Scan.Platforms,
			IgnoreExtensions:  cfg.Scan.IgnoreExtensions,
			PlaylistExtension: cfg.Playlist.Extension,
		},
		LineEnding:       cfg.Playlist.LineEnding,
		CatalogPlatforms: cfg.Catalog.Platforms,
		CatalogMode:      cfg.Catalog.Mode,
		CatalogFile:      cfg.Catalog.FileName,
	}
}

// policy is how a platform's sets are emitted.
type policy int

const (
	policyPlaylist policy = iota
	policyCatalog
	policySkip
)

func (o Options) policyFor(platform string) policy {
	catalogPlatform := false
	for _, p := range o.CatalogPlatforms {
		if equalFold(p, platform) {
			catalogPlatform = true
			break
		}
	}
	if !catalogPlatform {
		return policyPlaylist
	}
	switch o.CatalogMode {
	case config.CatalogModeSkip:
		return policySkip
	case config.CatalogModePlaylist:
		return policyPlaylist
	default:
		return policyCatalog
	}
}
