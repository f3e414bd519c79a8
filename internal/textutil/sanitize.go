package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName makes a set name usable as a playlist file name on the
// filesystems ROM trees commonly live on (ext4, exFAT, FAT32). Path
// separators, colons and asterisks become "-"; quotes, "?", "<", ">" and "|"
// are dropped, as are control characters. Trailing dots and spaces are
// trimmed because FAT refuses them.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*':
			b.WriteByte('-')
		case r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(strings.TrimSpace(b.String()), ". ")
}
