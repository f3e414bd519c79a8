package grouping_test

import (
	"testing"

	"discset/internal/grouping"
	"discset/internal/naming"
)

func parseAll(t *testing.T, dir string, names ...string) []naming.Candidate {
	t.Helper()
	out := make([]naming.Candidate, 0, len(names))
	for _, n := range names {
		c, ok := naming.Parse(n, dir)
		if !ok {
			t.Fatalf("Parse(%q) failed", n)
		}
		out = append(out, c)
	}
	return out
}

func TestBuildStrictGroups(t *testing.T) {
	cands := parseAll(t, "/roms/amiga",
		"Game (Disk 2)[!].adf",
		"Game (Disk 1)[!].adf",
		"Game (Disk 1).adf",
		"Game (Disk 2)[a].adf",
		"Other (Disk 1).adf",
	)
	cands = append(cands, parseAll(t, "/roms/amiga/sub", "Game (Disk 1).adf")...)

	idx := grouping.Build(cands)
	if len(idx.Groups) != 4 {
		t.Fatalf("expected 4 strict groups, got %d", len(idx.Groups))
	}

	first := idx.Groups[0]
	if first.Key.Prefix != "Game" || first.Key.TagsKey != "" {
		t.Fatalf("unexpected first group key: %+v", first.Key)
	}
	if len(first.Members) != 2 {
		t.Fatalf("expected untagged group to hold disk 1 and alt disk 2, got %d", len(first.Members))
	}

	bang := idx.Groups[1]
	if bang.Key.TagsKey != "[!]" {
		t.Fatalf("expected bang group second, got %+v", bang.Key)
	}
	if bang.Members[0].Disk != 1 || bang.Members[1].Disk != 2 {
		t.Fatalf("members not sorted by disk: %+v", bang.Members)
	}

	if got := first.AltVariants(); len(got) != 2 || got[0] != "" || got[1] != "a" {
		t.Fatalf("unexpected alt variants: %q", got)
	}
}

func TestTitleIndexIgnoresTags(t *testing.T) {
	cands := parseAll(t, "/roms/amiga",
		"Game (Disk 1)[!].adf",
		"Game (Disk 2).adf",
		"Game (Disk 3)[cr X].adf",
	)
	idx := grouping.Build(cands)

	title := cands[0].TitleKey()
	if got := len(idx.Title(title)); got != 3 {
		t.Fatalf("expected 3 title candidates, got %d", got)
	}
	relaxed := idx.Relaxed(title, "")
	if len(relaxed) != 2 {
		t.Fatalf("expected bang and plain candidates to be relaxed-compatible, got %d", len(relaxed))
	}
}

func TestBangFlags(t *testing.T) {
	cands := parseAll(t, "/roms/amiga",
		"Game (Disk 1)[!].adf",
		"Game (Disk 2)[a][!].adf",
		"Game (Disk 1).adf",
	)
	idx := grouping.Build(cands)
	title := cands[0].TitleKey()

	if !idx.HasBang(title, "") {
		t.Fatal("expected bang flag for title")
	}
	if !idx.HasBangAlt(title, "", "") || !idx.HasBangAlt(title, "", "a") {
		t.Fatal("expected bang flags for both alt variants")
	}
	if idx.HasBangAlt(title, "", "b") {
		t.Fatal("unexpected bang flag for unseen alt")
	}
	if idx.HasBang(title, "[cr X]") {
		t.Fatal("unexpected bang flag for different tags")
	}
}
