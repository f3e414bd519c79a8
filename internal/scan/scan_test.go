package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"discset/internal/scan"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkCollectsFilesAndPlaylists(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "amiga", "Game (Disk 2).adf"))
	touch(t, filepath.Join(root, "amiga", "Game (Disk 1).adf"))
	touch(t, filepath.Join(root, "amiga", "gamelist.xml"))
	touch(t, filepath.Join(root, "amiga", "sub", "Other (Disk 1).adf"))
	touch(t, filepath.Join(root, "amiga", ".cache", "junk (Disk 1).adf"))
	touch(t, filepath.Join(root, "psx", "Game.M3U"))
	touch(t, filepath.Join(root, ".hidden", "x.bin"))

	platforms, err := scan.Walk(root, scan.Options{
		IgnoreExtensions:  []string{".xml"},
		PlaylistExtension: ".m3u",
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(platforms) != 2 || platforms[0].Name != "amiga" || platforms[1].Name != "psx" {
		t.Fatalf("unexpected platforms: %+v", platforms)
	}
	amiga := platforms[0]
	want := []string{
		filepath.Join(root, "amiga", "Game (Disk 1).adf"),
		filepath.Join(root, "amiga", "Game (Disk 2).adf"),
		filepath.Join(root, "amiga", "sub", "Other (Disk 1).adf"),
	}
	if len(amiga.Files) != len(want) {
		t.Fatalf("unexpected files: %+v", amiga.Files)
	}
	for i, f := range amiga.Files {
		if f.Path() != want[i] {
			t.Fatalf("file %d = %q, want %q", i, f.Path(), want[i])
		}
	}
	if len(platforms[1].Playlists) != 1 || len(platforms[1].Files) != 0 {
		t.Fatalf("expected playlist collected separately: %+v", platforms[1])
	}
}

func TestPlatformsFilter(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"amiga", "psx", "c64"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	names, err := scan.Platforms(root, []string{"PSX", "amiga"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "amiga" || names[1] != "psx" {
		t.Fatalf("unexpected platforms %v", names)
	}
}

func TestPlatformsMissingRoot(t *testing.T) {
	if _, err := scan.Platforms(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}
