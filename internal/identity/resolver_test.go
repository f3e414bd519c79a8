package identity_test

import (
	"path/filepath"
	"testing"

	"discset/internal/identity"
)

func playlistKey(dir string) identity.KeyFunc {
	return func(name string) string {
		return filepath.Join(dir, name+".m3u")
	}
}

func TestResolveSuffixesCollidingNames(t *testing.T) {
	r := identity.NewResolver()
	key := playlistKey("/roms/psx")

	first := r.Resolve("Name", "a\nb", key)
	if first.Key != "/roms/psx/Name.m3u" || first.Suffixed {
		t.Fatalf("unexpected first claim: %+v", first)
	}
	second := r.Resolve("Name", "c\nd", key)
	if second.Key != "/roms/psx/Name[alt].m3u" || second.Name != "Name[alt]" || !second.Suffixed {
		t.Fatalf("unexpected second claim: %+v", second)
	}
	third := r.Resolve("Name", "e\nf", key)
	if third.Key != "/roms/psx/Name[alt2].m3u" {
		t.Fatalf("unexpected third claim: %+v", third)
	}
}

func TestResolveSuppressesRepeatedSignature(t *testing.T) {
	r := identity.NewResolver()
	key := playlistKey("/roms/psx")

	first := r.Resolve("Game", "x\ny", key)
	dup := r.Resolve("Game [a]", "x\ny", key)
	if !dup.Duplicate || dup.DuplicateOf != first.Key {
		t.Fatalf("expected duplicate of %q, got %+v", first.Key, dup)
	}
	next := r.Resolve("Game [a]", "z\ny", key)
	if next.Suffixed || next.Key != "/roms/psx/Game [a].m3u" {
		t.Fatalf("name should still be free after duplicate: %+v", next)
	}
}

func TestResolveSkipsTakenSuffix(t *testing.T) {
	r := identity.NewResolver()
	key := playlistKey("/roms")

	r.Resolve("Name[alt]", "1", key)
	r.Resolve("Name", "2", key)
	got := r.Resolve("Name", "3", key)
	// "Name[alt]" was claimed directly, so the first retry moves on.
	if got.Name != "Name[alt2]" {
		t.Fatalf("expected Name[alt2], got %+v", got)
	}
}

func TestCatalogKeyDistinguishesTotals(t *testing.T) {
	r := identity.NewResolver()
	a := r.Resolve("Game", "1", identity.CatalogKey("amiga", "Game", "", "", 2))
	b := r.Resolve("Game", "2", identity.CatalogKey("amiga", "Game", "", "", 3))
	if a.Suffixed || b.Suffixed {
		t.Fatalf("distinct totals should not collide: %+v %+v", a, b)
	}
}

func TestUsedTracksMembers(t *testing.T) {
	r := identity.NewResolver()
	r.MarkUsed("/roms/a.adf", "/roms/b.adf")
	if !r.Used("/roms/a.adf") || r.Used("/roms/c.adf") {
		t.Fatal("unexpected used-file tracking")
	}
}
