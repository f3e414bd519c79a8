// Package scan enumerates the platform directories of a ROM tree and the
// files inside them in a deterministic order.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Options controls enumeration.
type Options struct {
	// Platforms restricts the run to these directory names (case-insensitive).
	Platforms []string
	// IgnoreExtensions are lowercase extensions with a leading dot.
	IgnoreExtensions []string
	// PlaylistExtension marks files collected as existing playlists.
	PlaylistExtension string
}

// File is one enumerated file.
type File struct {
	Dir  string
	Name string
}

// Path joins Dir and Name.
func (f File) Path() string {
	return filepath.Join(f.Dir, f.Name)
}

// Platform is one directory directly under the ROM root.
type Platform struct {
	Name string
	Root string
	// Files are candidate inputs, sorted by path.
	Files []File
	// Playlists are existing playlist files, sorted by path.
	Playlists []string
}

// Platforms lists platform directory names under root, sorted. Hidden
// directories are skipped.
func Platforms(root string, only []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read roms dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if len(only) > 0 && !slices.ContainsFunc(only, func(p string) bool { return strings.EqualFold(p, entry.Name()) }) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Walk enumerates every platform under root.
func Walk(root string, opts Options) ([]Platform, error) {
	names, err := Platforms(root, opts.Platforms)
	if err != nil {
		return nil, err
	}
	platforms := make([]Platform, 0, len(names))
	for _, name := range names {
		p, err := WalkPlatform(filepath.Join(root, name), opts)
		if err != nil {
			return nil, err
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}

// WalkPlatform enumerates one platform directory recursively.
func WalkPlatform(root string, opts Options) (Platform, error) {
	p := Platform{Name: filepath.Base(root), Root: root}
	playlistExt := strings.ToLower(opts.PlaylistExtension)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if playlistExt != "" && ext == playlistExt {
			p.Playlists = append(p.Playlists, path)
			return nil
		}
		if slices.Contains(opts.IgnoreExtensions, ext) {
			return nil
		}
		p.Files = append(p.Files, File{Dir: filepath.Dir(path), Name: d.Name()})
		return nil
	})
	if err != nil {
		return p, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Slice(p.Files, func(i, j int) bool { return p.Files[i].Path() < p.Files[j].Path() })
	sort.Strings(p.Playlists)
	return p, nil
}
