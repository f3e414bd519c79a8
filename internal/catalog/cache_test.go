package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"discset/internal/catalog"
)

func TestCacheLoadsOncePerRoot(t *testing.T) {
	root := writeCatalog(t, gamelist)
	c := catalog.NewCache("gamelist.xml")
	a, err := c.Get(root)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Get(root)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("expected the cached state")
	}
}

func TestFlushAllWritesChangedStates(t *testing.T) {
	changedRoot := writeCatalog(t, gamelist)
	untouchedRoot := writeCatalog(t, gamelist)
	c := catalog.NewCache("gamelist.xml")

	s, _ := c.Get(changedRoot)
	if _, err := s.Hide("./Game (Disk 2).adf"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Get(untouchedRoot); err != nil {
		t.Fatal(err)
	}

	results, err := c.FlushAll(false)
	if err != nil {
		t.Fatalf("FlushAll: %v", err)
	}
	written := 0
	for _, r := range results {
		if r.Written {
			written++
			if r.Root != changedRoot {
				t.Fatalf("unexpected write to %s", r.Root)
			}
		}
	}
	if written != 1 {
		t.Fatalf("expected one write, got %d", written)
	}
	if _, err := os.Stat(filepath.Join(untouchedRoot, "gamelist.xml.bak")); !os.IsNotExist(err) {
		t.Fatal("untouched catalog must not be backed up")
	}
}
