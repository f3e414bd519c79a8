package naming

import (
	"path/filepath"
	"strings"
)

// BangTag is the preference marker: a release flagged as the verified good dump.
const BangTag = "!"

// Candidate is one file that carries a multi-disk designator. It is created
// once by Parse and never mutated.
type Candidate struct {
	FileName string
	Dir      string
	Ext      string

	// Prefix is the normalized title stem before the designator.
	Prefix string
	// BaseTags are the non-alt bracket tags after the designator, in order,
	// without brackets. TagsKey is their bracketed concatenation.
	BaseTags []string
	TagsKey  string
	// Alt is the optional alt marker ("a", "b2", ...); empty means none.
	Alt string

	// Disk is the 1-based disk position; 0 when the token was not recognized.
	Disk int
	// Side is 0 when the name carries no side.
	Side int
	// Total is the declared "of N" count; 0 when absent.
	Total int
	// Hint is a short parenthetical directly after the designator.
	Hint string
}

// Path returns the absolute (or root-relative) location of the file.
func (c Candidate) Path() string {
	return filepath.Join(c.Dir, c.FileName)
}

// TitleKey identifies every candidate of one title in one directory,
// regardless of tags.
func (c Candidate) TitleKey() string {
	return c.Dir + "\x00" + c.Prefix
}

// HasTag reports whether tag is one of the candidate's base tags.
func (c Candidate) HasTag(tag string) bool {
	for _, t := range c.BaseTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Usable reports whether the candidate can fill a disk position.
func (c Candidate) Usable() bool {
	return c.Disk > 0
}

// NonBangKey is TagsKey with the preference marker removed.
func NonBangKey(tagsKey string) string {
	return strings.ReplaceAll(tagsKey, bracket(BangTag), "")
}

// HasBang reports whether a tags key carries the preference marker.
func HasBang(tagsKey string) bool {
	return strings.Contains(tagsKey, bracket(BangTag))
}

func bracket(tag string) string {
	return "[" + tag + "]"
}

func tagsKey(tags []string) string {
	var b strings.Builder
	for _, t := range tags {
		b.WriteString(bracket(t))
	}
	return b.String()
}
