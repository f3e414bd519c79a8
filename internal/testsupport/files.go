package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Roms creates one small file per name under dir and returns their paths.
// Names may contain forward slashes for subdirectories.
func Roms(t testing.TB, dir string, names ...string) []string {
	t.Helper()

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, filepath.FromSlash(name))
		WriteFile(t, paths[i], 16)
	}
	return paths
}

// Record describes one gamelist entry for Gamelist.
type Record struct {
	Path   string
	Name   string
	Hidden bool
}

// Gamelist writes an EmulationStation gamelist with tab indentation to
// dir/gamelist.xml and returns its path.
func Gamelist(t testing.TB, dir string, records ...Record) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n<gameList>\n")
	for _, r := range records {
		b.WriteString("\t<game>\n")
		b.WriteString("\t\t<path>" + r.Path + "</path>\n")
		if r.Name != "" {
			b.WriteString("\t\t<name>" + r.Name + "</name>\n")
		}
		if r.Hidden {
			b.WriteString("\t\t<hidden>true</hidden>\n")
		}
		b.WriteString("\t</game>\n")
	}
	b.WriteString("</gameList>\n")

	path := filepath.Join(dir, "gamelist.xml")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write gamelist: %v", err)
	}
	return path
}

// ReadString returns the file content or fails the test.
func ReadString(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
