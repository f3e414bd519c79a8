package config

const (
	defaultConfigPath     = "~/.config/discset/config.toml"
	defaultRomsDir        = "~/roms"
	defaultStateDir       = "~/.local/share/discset"
	defaultLineEnding     = "lf"
	defaultPlaylistExt    = ".m3u"
	defaultCatalogMode    = CatalogModePatch
	defaultCatalogFile    = "gamelist.xml"
	defaultHistoryEnabled = true
	defaultHistoryFile    = "history.db"
	defaultNotifyTimeout  = 10
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultIgnoreExtensions() []string {
	return []string{".m3u", ".xml", ".txt", ".bak", ".png", ".jpg", ".nfo", ".db"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RomsDir:  defaultRomsDir,
			StateDir: defaultStateDir,
		},
		Scan: Scan{
			IgnoreExtensions: defaultIgnoreExtensions(),
		},
		Playlist: Playlist{
			LineEnding: defaultLineEnding,
			Extension:  defaultPlaylistExt,
		},
		Catalog: Catalog{
			Mode:     defaultCatalogMode,
			FileName: defaultCatalogFile,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Notify: Notify{
			RequestTimeout: defaultNotifyTimeout,
			OnlyOnChanges:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
