package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"discset/internal/textutil"
)

// maxHintLen bounds the parenthetical accepted as a name hint.
const maxHintLen = 32

// rule is one designator pattern. Every pattern exposes the named groups
// prefix, side and rest; disk and total are optional.
type rule struct {
	name    string
	pattern *regexp.Regexp
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{
		name: "disk",
		pattern: regexp.MustCompile(`(?i)^(?P<prefix>.*?)[\s_.\-]*[(\[]?\s*\b(?:disk|disc)\s*[-_#.]?\s*` +
			`(?P<disk>\d{1,3}|[ivx]{1,5}|[a-z])(?:\s*of\s*(?P<total>\d{1,3})\b|\b)\s*[)\]]?` +
			`(?:[\s_,\-]*[(\[]?\s*\bside\s*[-_]?\s*(?P<side>[a-z]|\d)\b\s*[)\]]?)?` +
			`(?P<rest>.*)$`),
	},
	{
		name: "side",
		pattern: regexp.MustCompile(`(?i)^(?P<prefix>.*?)[\s_.\-]*[(\[]?\s*\bside\s*[-_]?\s*` +
			`(?P<side>[a-z]|\d)\b\s*[)\]]?(?P<rest>.*)$`),
	},
}

var (
	reHint       = regexp.MustCompile(`^\s*\(([^()\[\]]+)\)`)
	reBracketTag = regexp.MustCompile(`\[([^\[\]]*)\]`)
	reAltTag     = regexp.MustCompile(`(?i)^[ab][0-9]*$`)
	reNoiseTag   = regexp.MustCompile(`(?i)^\s*(?:disk|disc|side)\b`)
)

// Parse turns a file name into a Candidate. ok is false when the name
// carries no disk or side designator.
func Parse(fileName, dir string) (Candidate, bool) {
	// FileName keeps the bytes found on disk. Matching runs on the NFC form so
	// composed and decomposed spellings of one title group together.
	ext := filepath.Ext(fileName)
	base := norm.NFC.String(strings.TrimSuffix(fileName, ext))

	// Underscores are word characters to the regexp engine, so matching runs
	// on a probe where they read as spaces. Offsets stay aligned with base.
	probe := strings.ReplaceAll(base, "_", " ")

	for _, r := range rules {
		loc := r.pattern.FindStringSubmatchIndex(probe)
		if loc == nil {
			continue
		}
		groups := namedGroups(r.pattern, base, loc)

		c := Candidate{
			FileName: fileName,
			Dir:      dir,
			Ext:      ext,
			Prefix:   cleanPrefix(groups["prefix"]),
			Side:     sideValue(groups["side"]),
		}
		if r.name == "side" {
			c.Disk = 1
		} else {
			c.Disk = diskValue(groups["disk"])
			c.Total = totalValue(groups["total"])
		}

		rest := groups["rest"]
		c.Hint = hintFrom(rest)
		c.BaseTags, c.Alt = splitTags(rest, ext)
		c.TagsKey = tagsKey(c.BaseTags)
		return c, true
	}
	return Candidate{}, false
}

func namedGroups(re *regexp.Regexp, s string, loc []int) map[string]string {
	names := re.SubexpNames()
	out := make(map[string]string, len(names))
	for i, name := range names {
		if name == "" || 2*i+1 >= len(loc) || loc[2*i] < 0 {
			continue
		}
		out[name] = s[loc[2*i]:loc[2*i+1]]
	}
	return out
}

func cleanPrefix(prefix string) string {
	return textutil.CollapseSpaces(textutil.TrimDangling(prefix))
}

// hintFrom returns the short parenthetical that opens rest, if any.
func hintFrom(rest string) string {
	m := reHint.FindStringSubmatch(rest)
	if m == nil {
		return ""
	}
	hint := strings.TrimSpace(m[1])
	if hint == "" || len(hint) > maxHintLen || reNoiseTag.MatchString(hint) {
		return ""
	}
	return hint
}

// splitTags extracts bracket tags from rest. The first alt-shaped tag becomes
// the alt marker; tags restating a designator or equal to the extension are
// dropped as noise.
func splitTags(rest, ext string) ([]string, string) {
	extName := strings.TrimPrefix(ext, ".")
	var base []string
	alt := ""
	for _, m := range reBracketTag.FindAllStringSubmatch(rest, -1) {
		tag := strings.TrimSpace(m[1])
		if tag == "" || reNoiseTag.MatchString(tag) {
			continue
		}
		if extName != "" && strings.EqualFold(tag, extName) {
			continue
		}
		if alt == "" && reAltTag.MatchString(tag) {
			alt = strings.ToLower(tag)
			continue
		}
		base = append(base, tag)
	}
	return base, alt
}
