package selection

import (
	"sort"
	"strings"

	"discset/internal/grouping"
	"discset/internal/naming"
)

// Step names the fallback step that filled a disk position.
type Step string

const (
	StepExact     Step = "exact"
	StepSingleAlt Step = "single-alt"
	StepRelaxed   Step = "relaxed"
	StepAltChain  Step = "alt-chain"
)

// Slot records how one disk position was filled.
type Slot struct {
	Disk int
	Step Step
}

// Set is one candidate multi-disk set for a (group, alt, root total)
// combination. Members are ordered by disk then side.
type Set struct {
	Group     *grouping.Group
	Alt       string
	RootTotal int
	Members   []naming.Candidate
	Slots     []Slot
	// Missing lists declared positions that stayed empty.
	Missing    []int
	Incomplete bool
	// Suppressed marks a set without the preference marker whose preferred
	// sibling with the same alt exists.
	Suppressed bool
}

// Signature returns the ordered member paths joined by newlines.
func (s Set) Signature() string {
	paths := make([]string, len(s.Members))
	for i, m := range s.Members {
		paths[i] = m.Path()
	}
	return strings.Join(paths, "\n")
}

// Primary returns the disk-1 (lowest side) member.
func (s Set) Primary() naming.Candidate {
	return s.Members[0]
}

// Select returns every qualifying set of g. Incomplete and suppressed sets
// are included and flagged so callers can report them.
func Select(idx *grouping.Index, g *grouping.Group) []Set {
	title := g.Key.TitleKey()
	nonBang := g.Key.NonBangKey()
	pool := idx.Title(title)
	relaxed := idx.Relaxed(title, nonBang)

	var out []Set
	for _, alt := range g.AltVariants() {
		for _, total := range rootTotals(pool) {
			s := Set{Group: g, Alt: alt, RootTotal: total}
			for _, disk := range targets(pool, total) {
				picked, step := fillPosition(g.Members, relaxed, disk, alt, total)
				if len(picked) == 0 {
					if total > 0 {
						s.Missing = append(s.Missing, disk)
					}
					continue
				}
				s.Members = append(s.Members, picked...)
				s.Slots = append(s.Slots, Slot{Disk: disk, Step: step})
			}
			if len(s.Members) < 2 {
				continue
			}
			s.Incomplete = len(s.Missing) > 0
			// Checked after assembly so the single-alt fallback has already run.
			s.Suppressed = !naming.HasBang(g.Key.TagsKey) && idx.HasBangAlt(title, nonBang, alt)
			out = append(out, s)
		}
	}
	return out
}

// rootTotals lists the distinct totals declared by disk-1 candidates of the
// title, ascending; a single 0 when none is declared.
func rootTotals(pool []naming.Candidate) []int {
	seen := make(map[int]struct{})
	var totals []int
	for _, c := range pool {
		if c.Disk != 1 || c.Total == 0 {
			continue
		}
		if _, ok := seen[c.Total]; ok {
			continue
		}
		seen[c.Total] = struct{}{}
		totals = append(totals, c.Total)
	}
	if len(totals) == 0 {
		return []int{0}
	}
	sort.Ints(totals)
	return totals
}

// targets is 1..total when a total is declared, otherwise the distinct disk
// positions observed for the title.
func targets(pool []naming.Candidate, total int) []int {
	if total > 0 {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}
	seen := make(map[int]struct{})
	var out []int
	for _, c := range pool {
		if !c.Usable() {
			continue
		}
		if _, ok := seen[c.Disk]; ok {
			continue
		}
		seen[c.Disk] = struct{}{}
		out = append(out, c.Disk)
	}
	sort.Ints(out)
	return out
}

func fillPosition(group, relaxed []naming.Candidate, disk int, alt string, total int) ([]naming.Candidate, Step) {
	if picked := pick(group, disk, total, exactAlt(alt)); len(picked) > 0 {
		return picked, StepExact
	}
	if alt == "" {
		if alts := matching(group, disk, total, anyAlt); len(alts) == 1 {
			return alts, StepSingleAlt
		}
	}
	if picked := pick(relaxed, disk, total, exactAlt(alt)); len(picked) > 0 {
		return picked, StepRelaxed
	}
	for _, fallback := range altChain(alt) {
		if picked := pick(group, disk, total, exactAlt(fallback)); len(picked) > 0 {
			return picked, StepAltChain
		}
		if picked := pick(relaxed, disk, total, exactAlt(fallback)); len(picked) > 0 {
			return picked, StepAltChain
		}
	}
	return nil, ""
}

type altFilter func(string) bool

func exactAlt(want string) altFilter {
	return func(alt string) bool { return alt == want }
}

func anyAlt(alt string) bool {
	return alt != ""
}

func totalOK(c naming.Candidate, total int) bool {
	return total == 0 || c.Total == 0 || c.Total == total
}

func matching(pool []naming.Candidate, disk, total int, alt altFilter) []naming.Candidate {
	var out []naming.Candidate
	for _, c := range pool {
		if c.Disk == disk && alt(c.Alt) && totalOK(c, total) {
			out = append(out, c)
		}
	}
	return out
}

// pick keeps the first candidate per side; pools are already ordered by
// disk, side and file name, so ties resolve by ascending side.
func pick(pool []naming.Candidate, disk, total int, alt altFilter) []naming.Candidate {
	var out []naming.Candidate
	lastSide := -1
	for _, c := range matching(pool, disk, total, alt) {
		if c.Side == lastSide {
			continue
		}
		lastSide = c.Side
		out = append(out, c)
	}
	return out
}

// altChain lists the progressively more generic forms of alt, ending at no
// alt: "a2" -> "a", "". The requested alt itself is not repeated.
func altChain(alt string) []string {
	if alt == "" {
		return nil
	}
	letter := alt[:1]
	if letter != alt {
		return []string{letter, ""}
	}
	return []string{""}
}
