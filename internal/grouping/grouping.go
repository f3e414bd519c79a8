package grouping

import (
	"sort"
	"strings"

	"discset/internal/naming"
)

// Key identifies a strict group: same directory, same title prefix, same
// ordered base tags.
type Key struct {
	Dir     string
	Prefix  string
	TagsKey string
}

// TitleKey matches naming.Candidate.TitleKey for members of the group.
func (k Key) TitleKey() string {
	return k.Dir + "\x00" + k.Prefix
}

// NonBangKey is the group's tag key without the preference marker.
func (k Key) NonBangKey() string {
	return naming.NonBangKey(k.TagsKey)
}

// Group is one strict group. Members are ordered by disk, side, file name.
type Group struct {
	Key     Key
	Members []naming.Candidate
}

// AltVariants returns "" (no alt) first, then every alt observed in the
// group in sorted order.
func (g *Group) AltVariants() []string {
	seen := map[string]struct{}{"": {}}
	out := []string{""}
	var alts []string
	for _, m := range g.Members {
		if _, ok := seen[m.Alt]; ok {
			continue
		}
		seen[m.Alt] = struct{}{}
		alts = append(alts, m.Alt)
	}
	sort.Strings(alts)
	return append(out, alts...)
}

// Index holds the strict groups of one run plus the title-level lookups.
type Index struct {
	Groups []*Group

	titles  map[string][]naming.Candidate
	bang    map[string]bool
	bangAlt map[string]bool
}

// Build groups candidates. Output order is deterministic: groups sorted by
// key, members and title pools sorted by disk, side and file name.
func Build(cands []naming.Candidate) *Index {
	idx := &Index{
		titles:  make(map[string][]naming.Candidate),
		bang:    make(map[string]bool),
		bangAlt: make(map[string]bool),
	}

	byKey := make(map[Key]*Group)
	for _, c := range cands {
		key := Key{Dir: c.Dir, Prefix: c.Prefix, TagsKey: c.TagsKey}
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key}
			byKey[key] = g
			idx.Groups = append(idx.Groups, g)
		}
		g.Members = append(g.Members, c)

		title := c.TitleKey()
		idx.titles[title] = append(idx.titles[title], c)

		if naming.HasBang(c.TagsKey) {
			nonBang := naming.NonBangKey(c.TagsKey)
			idx.bang[flagKey(title, nonBang)] = true
			idx.bangAlt[flagKey(title, nonBang, c.Alt)] = true
		}
	}

	for _, g := range idx.Groups {
		SortCandidates(g.Members)
	}
	for _, pool := range idx.titles {
		SortCandidates(pool)
	}
	sort.Slice(idx.Groups, func(i, j int) bool {
		a, b := idx.Groups[i].Key, idx.Groups[j].Key
		if a.Dir != b.Dir {
			return a.Dir < b.Dir
		}
		if a.Prefix != b.Prefix {
			return a.Prefix < b.Prefix
		}
		return a.TagsKey < b.TagsKey
	})
	return idx
}

// Title returns every candidate sharing titleKey, tags ignored.
func (idx *Index) Title(titleKey string) []naming.Candidate {
	return idx.titles[titleKey]
}

// Relaxed returns the title-compatible candidates whose tags differ from
// nonBang at most by the preference marker.
func (idx *Index) Relaxed(titleKey, nonBang string) []naming.Candidate {
	var out []naming.Candidate
	for _, c := range idx.titles[titleKey] {
		if naming.NonBangKey(c.TagsKey) == nonBang {
			out = append(out, c)
		}
	}
	return out
}

// HasBang reports whether any candidate of the title with the given
// marker-free tags carries the preference marker.
func (idx *Index) HasBang(titleKey, nonBang string) bool {
	return idx.bang[flagKey(titleKey, nonBang)]
}

// HasBangAlt is HasBang restricted to one alt variant.
func (idx *Index) HasBangAlt(titleKey, nonBang, alt string) bool {
	return idx.bangAlt[flagKey(titleKey, nonBang, alt)]
}

// SortCandidates orders candidates by disk, side, then file name.
func SortCandidates(cands []naming.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Disk != b.Disk {
			return a.Disk < b.Disk
		}
		if a.Side != b.Side {
			return a.Side < b.Side
		}
		return a.FileName < b.FileName
	})
}

func flagKey(parts ...string) string {
	return strings.Join(parts, "\x01")
}
