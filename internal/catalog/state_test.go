package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discset/internal/catalog"
)

const gamelist = `<?xml version="1.0"?>
<gameList>
	<game id="1">
		<path>./Game (Disk 1).adf</path>
		<name>Game &amp; Watch</name>
		<rating>0.8</rating>
	</game>
	<game id="2">
		<path>./Game (Disk 2).adf</path>
		<name>Game Disk 2</name>
	</game>
	<!-- kept verbatim -->
	<game>
		<path>./Other.adf</path>
		<hidden>false</hidden>
	</game>
</gameList>
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "gamelist.xml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func load(t *testing.T, root string) *catalog.State {
	t.Helper()
	s, err := catalog.Load(root, "gamelist.xml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestHideInsertsAfterNameAndUnhideRestores(t *testing.T) {
	root := writeCatalog(t, gamelist)
	s := load(t, root)
	before := len(s.Lines)

	changed, err := s.Hide("./Game (Disk 2).adf")
	if err != nil || !changed {
		t.Fatalf("Hide: changed=%v err=%v", changed, err)
	}
	if len(s.Lines) != before+1 {
		t.Fatalf("expected one inserted line, got %d -> %d", before, len(s.Lines))
	}
	want := []string{
		"\t\t<path>./Game (Disk 2).adf</path>",
		"\t\t<name>Game Disk 2</name>",
		"\t\t<hidden>true</hidden>",
	}
	for i, line := range want {
		if s.Lines[8+i] != line {
			t.Fatalf("line %d = %q, want %q", 8+i, s.Lines[8+i], line)
		}
	}

	changed, err = s.Unhide("./Game (Disk 2).adf")
	if err != nil || !changed {
		t.Fatalf("Unhide: changed=%v err=%v", changed, err)
	}
	if string(s.Bytes()) != gamelist {
		t.Fatalf("round trip changed content:\n%s", s.Bytes())
	}
}

func TestHideIsIdempotent(t *testing.T) {
	s := load(t, writeCatalog(t, gamelist))
	if _, err := s.Hide("./Game (Disk 2).adf"); err != nil {
		t.Fatal(err)
	}
	changed, err := s.Hide("./game (disk 2).ADF")
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatal("second hide should not change anything")
	}
}

func TestHideRewritesFalseValue(t *testing.T) {
	s := load(t, writeCatalog(t, gamelist))
	if _, err := s.Hide("./Other.adf"); err != nil {
		t.Fatal(err)
	}
	hidden, err := s.Hidden("./Other.adf")
	if err != nil || !hidden {
		t.Fatalf("expected hidden, got %v %v", hidden, err)
	}
	if got := strings.Count(string(s.Bytes()), "<hidden>"); got != 1 {
		t.Fatalf("expected a single hidden field, got %d", got)
	}
}

func TestUnhideLeavesNonTrueValue(t *testing.T) {
	s := load(t, writeCatalog(t, gamelist))
	changed, err := s.Unhide("./Other.adf")
	if err != nil || changed {
		t.Fatalf("Unhide: changed=%v err=%v", changed, err)
	}
}

func TestMissingRecord(t *testing.T) {
	s := load(t, writeCatalog(t, gamelist))
	if _, err := s.Hide("./Nope.adf"); !errors.Is(err, catalog.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}

func TestMissingCatalogFile(t *testing.T) {
	s := load(t, t.TempDir())
	if s.Exists {
		t.Fatal("expected missing catalog")
	}
	if _, err := s.Hide("./Game.adf"); !errors.Is(err, catalog.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}

func TestCanonicalizeNamesUsesDiskOne(t *testing.T) {
	s := load(t, writeCatalog(t, gamelist))
	changed, missing := s.CanonicalizeNames([]string{"./Game (Disk 1).adf", "./Game (Disk 2).adf", "./Gone.adf"}, "Fallback")
	if changed != 1 {
		t.Fatalf("expected one record renamed, got %d", changed)
	}
	if len(missing) != 1 || missing[0] != "./Gone.adf" {
		t.Fatalf("unexpected missing %v", missing)
	}
	name, ok, err := s.Name("./Game (Disk 2).adf")
	if err != nil || !ok || name != "Game & Watch" {
		t.Fatalf("unexpected name %q ok=%v err=%v", name, ok, err)
	}
	if !strings.Contains(string(s.Bytes()), "<name>Game &amp; Watch</name>\n\t</game>") {
		t.Fatalf("name not escaped in place:\n%s", s.Bytes())
	}
}

func TestCanonicalizeNamesFallback(t *testing.T) {
	content := "<gameList>\n<game>\n<path>./A (Disk 1).adf</path>\n</game>\n<game>\n<path>./A (Disk 2).adf</path>\n<hidden>true</hidden>\n</game>\n</gameList>\n"
	s := load(t, writeCatalog(t, content))
	changed, _ := s.CanonicalizeNames([]string{"./A (Disk 1).adf", "./A (Disk 2).adf"}, "A")
	if changed != 2 {
		t.Fatalf("expected both records named, got %d", changed)
	}
	want := "<game>\n<path>./A (Disk 2).adf</path>\n<name>A</name>\n<hidden>true</hidden>\n</game>"
	if !strings.Contains(string(s.Bytes()), want) {
		t.Fatalf("expected name before hidden:\n%s", s.Bytes())
	}
}

func TestPreservesCRLFAndBOM(t *testing.T) {
	content := "\ufeff<gameList>\r\n  <game>\r\n    <path>./A.adf</path>\r\n  </game>\r\n</gameList>\r\n"
	s := load(t, writeCatalog(t, content))
	if _, err := s.Hide("./A.adf"); err != nil {
		t.Fatal(err)
	}
	want := "\ufeff<gameList>\r\n  <game>\r\n    <path>./A.adf</path>\r\n    <hidden>true</hidden>\r\n  </game>\r\n</gameList>\r\n"
	if got := string(s.Bytes()); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFlushBacksUpOncePerRun(t *testing.T) {
	root := writeCatalog(t, gamelist)
	path := filepath.Join(root, "gamelist.xml")
	if err := os.WriteFile(path+".bak", []byte("older"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := load(t, root)
	if written, err := s.Flush(false); err != nil || written {
		t.Fatalf("unchanged flush: written=%v err=%v", written, err)
	}
	if _, err := s.Hide("./Game (Disk 2).adf"); err != nil {
		t.Fatal(err)
	}
	if written, err := s.Flush(true); err != nil || written {
		t.Fatalf("dry-run flush: written=%v err=%v", written, err)
	}
	if written, err := s.Flush(false); err != nil || !written {
		t.Fatalf("flush: written=%v err=%v", written, err)
	}
	if s.Backup != path+".bak(1)" {
		t.Fatalf("unexpected backup %q", s.Backup)
	}
	backup, err := os.ReadFile(s.Backup)
	if err != nil || string(backup) != gamelist {
		t.Fatalf("backup content mismatch: %v", err)
	}

	if _, err := s.Unhide("./Game (Disk 2).adf"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Flush(false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".bak(2)"); !os.IsNotExist(err) {
		t.Fatal("second flush in the same run must reuse the backup")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != gamelist {
		t.Fatalf("catalog not restored: %v", err)
	}
}

func TestRelPath(t *testing.T) {
	s := &catalog.State{Root: "/roms/amiga"}
	if got := s.RelPath("/roms/amiga/sub/Game.adf"); got != "./sub/Game.adf" {
		t.Fatalf("RelPath = %q", got)
	}
}
