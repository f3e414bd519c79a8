package naming

import (
	"strings"

	"discset/internal/textutil"
)

// SetName derives the shared name of a selected set from its members. It
// returns "" when nothing usable remains after cleanup, which disqualifies
// the set.
func SetName(members []Candidate) string {
	if len(members) == 0 {
		return ""
	}
	first := members[0]

	name := first.Prefix
	if hint := commonHint(members); hint != "" {
		name += " (" + hint + ")"
	}

	var suffix strings.Builder
	for _, tag := range commonTags(members) {
		suffix.WriteString(bracket(tag))
	}
	if alt := commonAlt(members); alt != "" {
		suffix.WriteString(bracket(alt))
	}
	if suffix.Len() > 0 {
		name += " " + suffix.String()
	}

	name = textutil.CollapseSpaces(textutil.TrimDangling(textutil.CollapseSpaces(name)))
	return textutil.SanitizeFileName(name)
}

func commonHint(members []Candidate) string {
	hint := members[0].Hint
	if hint == "" {
		return ""
	}
	for _, m := range members[1:] {
		if m.Hint != hint {
			return ""
		}
	}
	return hint
}

// commonTags keeps the first member's tag order and drops any tag missing
// from another member.
func commonTags(members []Candidate) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, tag := range members[0].BaseTags {
		if _, dup := seen[tag]; dup {
			continue
		}
		shared := true
		for _, m := range members[1:] {
			if !m.HasTag(tag) {
				shared = false
				break
			}
		}
		if shared {
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

func commonAlt(members []Candidate) string {
	alt := members[0].Alt
	if alt == "" {
		return ""
	}
	for _, m := range members[1:] {
		if m.Alt != alt {
			return ""
		}
	}
	return alt
}
