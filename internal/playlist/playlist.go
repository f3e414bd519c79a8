package playlist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"discset/internal/fileutil"
)

// Line ending names accepted by Options.LineEnding.
const (
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Result classifies what Write did or, in dry-run, would have done.
type Result string

const (
	Created     Result = "created"
	Overwritten Result = "overwritten"
	Unchanged   Result = "unchanged"
)

// Options controls Write.
type Options struct {
	LineEnding string
	DryRun     bool
}

// Outcome reports the result of one Write call.
type Outcome struct {
	Path   string
	Result Result
	DryRun bool
}

// Written reports whether the file was (or would be) written.
func (o Outcome) Written() bool {
	return o.Result != Unchanged
}

// Lines right-trims names and drops blank entries, keeping order.
func Lines(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimRight(n, " \t\r\n")
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Content renders names as playlist bytes.
func Content(names []string, lineEnding string) []byte {
	return []byte(strings.Join(Lines(names), separator(lineEnding)))
}

func separator(lineEnding string) string {
	if strings.EqualFold(lineEnding, LineEndingCRLF) {
		return "\r\n"
	}
	return "\n"
}

// Write writes names to path unless an existing file already holds the same
// lines. Dry-run performs the comparison but never writes.
func Write(path string, names []string, opts Options) (Outcome, error) {
	out := Outcome{Path: path, DryRun: opts.DryRun}
	lines := Lines(names)

	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if equalLines(normalize(existing), lines) {
			out.Result = Unchanged
			return out, nil
		}
		out.Result = Overwritten
	case errors.Is(err, fs.ErrNotExist):
		out.Result = Created
	default:
		return out, fmt.Errorf("read existing playlist: %w", err)
	}

	if opts.DryRun {
		return out, nil
	}
	data := []byte(strings.Join(lines, separator(opts.LineEnding)))
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return out, fmt.Errorf("write playlist: %w", err)
	}
	return out, nil
}

// normalize strips a leading byte order mark and splits on any line ending.
// Blank lines are kept.
func normalize(data []byte) []string {
	data = bytes.TrimPrefix(data, bom)
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CountEntries returns the number of non-blank, non-comment lines of a
// list-style playlist.
func CountEntries(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, string(bom))
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read playlist: %w", err)
	}
	return count, nil
}
