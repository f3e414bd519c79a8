package textutil

import (
	"strings"
	"unicode"
)

// CollapseSpaces replaces every run of whitespace with a single space and
// trims both ends.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TrimDangling strips trailing separators, punctuation, and unbalanced
// opening brackets left behind once a designator has been cut out of a
// title. Balanced "(...)" and "[...]" groups at the end are kept; empty
// "()" and "[]" pairs are removed wherever they occur.
func TrimDangling(s string) string {
	s = strings.ReplaceAll(s, "()", "")
	s = strings.ReplaceAll(s, "[]", "")
	for {
		trimmed := strings.TrimRightFunc(s, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune("-_.,;:([", r)
		})
		trimmed = trimUnbalancedClose(trimmed)
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func trimUnbalancedClose(s string) string {
	for _, pair := range [][2]byte{{'(', ')'}, {'[', ']'}} {
		if !strings.HasSuffix(s, string(pair[1])) {
			continue
		}
		if strings.Count(s, string(pair[1])) > strings.Count(s, string(pair[0])) {
			return s[:len(s)-1]
		}
	}
	return s
}
