package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"discset/internal/fileutil"
)

// RecordWindow bounds how far from a <path> line the editor looks for the
// record's other fields and boundaries.
const RecordWindow = 64

var (
	// ErrBackup is returned by Flush when the pre-write backup could not be
	// created and verified. The catalog is left untouched.
	ErrBackup = errors.New("catalog backup failed")
	// ErrNoRecord means no record carries the requested path.
	ErrNoRecord = errors.New("record not found in catalog")
)

// State is one platform's catalog loaded for a run.
type State struct {
	Root   string
	Path   string
	Lines  []string
	Exists bool
	// Changed is set by the first in-memory mutation.
	Changed bool
	// Backup is the backup path once one has been written this run.
	Backup string

	layout layout
}

// Load reads the catalog at root/fileName. A missing file yields an empty
// State with Exists false and no error.
func Load(root, fileName string) (*State, error) {
	s := &State{Root: root, Path: filepath.Join(root, fileName), layout: layout{eol: "\n", trailingEOL: true}}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read catalog: %w", err)
	}
	s.Exists = true
	s.Lines, s.layout = splitLines(data)
	return s, nil
}

// Bytes renders the current lines with the original encoding details.
func (s *State) Bytes() []byte {
	return renderLines(s.Lines, s.layout)
}

// RelPath converts an absolute file path under the platform root to the
// catalog form: forward slashes with a "./" prefix.
func (s *State) RelPath(path string) string {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return "./" + filepath.ToSlash(rel)
}

// record is the located extent of one game entry. start and end are
// inclusive and clamped to the search window when no boundary was found.
type record struct {
	path  int
	start int
	end   int
}

// find compares paths case-insensitively and across Unicode normalization
// forms, since scrapers may store either spelling of a decomposed name.
func (s *State) find(rel string) (record, bool) {
	rel = norm.NFC.String(rel)
	for i, line := range s.Lines {
		_, value, ok := fieldValue(rePath, line)
		if !ok || !strings.EqualFold(norm.NFC.String(value), rel) {
			continue
		}
		return s.bounds(i), true
	}
	return record{}, false
}

func (s *State) bounds(pathLine int) record {
	r := record{path: pathLine, start: pathLine, end: pathLine}
	for i := pathLine - 1; i >= 0 && pathLine-i <= RecordWindow; i-- {
		if reClose.MatchString(s.Lines[i]) {
			break
		}
		r.start = i
		if reOpen.MatchString(s.Lines[i]) {
			break
		}
	}
	for i := pathLine + 1; i < len(s.Lines) && i-pathLine <= RecordWindow; i++ {
		if reOpen.MatchString(s.Lines[i]) {
			break
		}
		r.end = i
		if reClose.MatchString(s.Lines[i]) {
			break
		}
	}
	return r
}

func (s *State) fieldLine(r record, re *regexp.Regexp) int {
	for i := r.start; i <= r.end; i++ {
		if re.MatchString(s.Lines[i]) {
			return i
		}
	}
	return -1
}

// Has reports whether a record with the given catalog path exists.
func (s *State) Has(rel string) bool {
	_, ok := s.find(rel)
	return ok
}

// Hidden reports whether the record is currently hidden.
func (s *State) Hidden(rel string) (bool, error) {
	r, ok := s.find(rel)
	if !ok {
		return false, ErrNoRecord
	}
	if i := s.fieldLine(r, reHidden); i >= 0 {
		_, value, _ := fieldValue(reHidden, s.Lines[i])
		return isTrue(value), nil
	}
	return false, nil
}

// Name returns the record's unescaped name value, if any.
func (s *State) Name(rel string) (string, bool, error) {
	r, ok := s.find(rel)
	if !ok {
		return "", false, ErrNoRecord
	}
	i := s.fieldLine(r, reName)
	if i < 0 {
		return "", false, nil
	}
	_, value, _ := fieldValue(reName, s.Lines[i])
	return value, true, nil
}

// Hide marks the record hidden, inserting a hidden field after the path
// field when none exists. It reports whether any line changed.
func (s *State) Hide(rel string) (bool, error) {
	r, ok := s.find(rel)
	if !ok {
		return false, ErrNoRecord
	}
	changed := false
	if i := s.fieldLine(r, reHidden); i >= 0 {
		indent, value, _ := fieldValue(reHidden, s.Lines[i])
		if !isTrue(value) {
			s.Lines[i] = indent + "<hidden>true</hidden>"
			changed = true
		}
	} else {
		indent, _, _ := fieldValue(rePath, s.Lines[r.path])
		s.insert(r.path+1, indent+"<hidden>true</hidden>")
		r.end++
		changed = true
	}
	if s.fixOrder(r) {
		changed = true
	}
	if changed {
		s.Changed = true
	}
	return changed, nil
}

// Unhide removes a hidden field whose value is true. Other values are left
// as they are.
func (s *State) Unhide(rel string) (bool, error) {
	r, ok := s.find(rel)
	if !ok {
		return false, ErrNoRecord
	}
	i := s.fieldLine(r, reHidden)
	if i < 0 {
		return false, nil
	}
	_, value, _ := fieldValue(reHidden, s.Lines[i])
	if !isTrue(value) {
		return s.markIf(s.fixOrder(r)), nil
	}
	s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
	s.Changed = true
	return true, nil
}

// SetName sets the record's name field to name, replacing a differing value
// or inserting a field after the path field.
func (s *State) SetName(rel, name string) (bool, error) {
	r, ok := s.find(rel)
	if !ok {
		return false, ErrNoRecord
	}
	if i := s.fieldLine(r, reName); i >= 0 {
		indent, value, _ := fieldValue(reName, s.Lines[i])
		if value == name {
			return s.markIf(s.fixOrder(r)), nil
		}
		s.Lines[i] = indent + "<name>" + xmlEscaper.Replace(name) + "</name>"
	} else {
		indent, _, _ := fieldValue(rePath, s.Lines[r.path])
		s.insert(r.path+1, indent+"<name>"+xmlEscaper.Replace(name)+"</name>")
		r.end++
	}
	s.fixOrder(r)
	s.Changed = true
	return true, nil
}

// CanonicalizeNames propagates one display name across a set's records. The
// first record's non-blank name wins; fallback is used when it has none.
// Missing records are skipped and returned.
func (s *State) CanonicalizeNames(rels []string, fallback string) (changed int, missing []string) {
	if len(rels) == 0 {
		return 0, nil
	}
	canonical := fallback
	if name, ok, err := s.Name(rels[0]); err == nil && ok && strings.TrimSpace(name) != "" {
		canonical = name
	}
	if strings.TrimSpace(canonical) == "" {
		return 0, nil
	}
	for _, rel := range rels {
		did, err := s.SetName(rel, canonical)
		if err != nil {
			missing = append(missing, rel)
			continue
		}
		if did {
			changed++
		}
	}
	return changed, missing
}

// fixOrder swaps the name and hidden lines when hidden comes first.
func (s *State) fixOrder(r record) bool {
	name := s.fieldLine(r, reName)
	hidden := s.fieldLine(r, reHidden)
	if name < 0 || hidden < 0 || name < hidden {
		return false
	}
	s.Lines[name], s.Lines[hidden] = s.Lines[hidden], s.Lines[name]
	return true
}

func (s *State) markIf(changed bool) bool {
	if changed {
		s.Changed = true
	}
	return changed
}

func (s *State) insert(at int, line string) {
	s.Lines = append(s.Lines, "")
	copy(s.Lines[at+1:], s.Lines[at:])
	s.Lines[at] = line
}

// Flush writes the lines back when they changed, creating the run's backup
// first. Dry runs and unchanged states are no-ops.
func (s *State) Flush(dryRun bool) (bool, error) {
	if !s.Changed || dryRun || !s.Exists {
		return false, nil
	}
	if s.Backup == "" {
		backup, err := backupName(s.Path)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrBackup, err)
		}
		if err := fileutil.CopyFileVerified(s.Path, backup); err != nil {
			return false, fmt.Errorf("%w: %v", ErrBackup, err)
		}
		s.Backup = backup
	}
	if err := fileutil.WriteFileAtomic(s.Path, s.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("write catalog: %w", err)
	}
	s.Changed = false
	return true, nil
}

// backupName returns the first free name of "<path>.bak", "<path>.bak(1)",
// "<path>.bak(2)", ...
func backupName(path string) (string, error) {
	base := path + ".bak"
	for n := 0; ; n++ {
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s(%d)", base, n)
		}
		exists, err := fileutil.Exists(name)
		if err != nil {
			return "", err
		}
		if !exists {
			return name, nil
		}
	}
}
