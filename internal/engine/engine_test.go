package engine_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discset/internal/config"
	"discset/internal/engine"
	"discset/internal/logging"
	"discset/internal/testsupport"
)

func run(t *testing.T, cfg *config.Config, dryRun bool) *engine.Report {
	t.Helper()
	report, err := engine.New(engine.OptionsFromConfig(cfg, dryRun), logging.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return report
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRunWritesPlaylistAndIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	psx := filepath.Join(cfg.Paths.RomsDir, "psx")
	testsupport.Roms(t, psx, "Game (Disk 2 of 2).cue", "Game (Disk 1 of 2).cue")

	first := run(t, cfg, false)
	if first.Count(engine.KindPlaylistCreated) != 1 {
		t.Fatalf("expected one playlist created, got %+v", first.Outcomes)
	}
	got := testsupport.ReadString(t, filepath.Join(psx, "Game.m3u"))
	if got != "Game (Disk 1 of 2).cue\nGame (Disk 2 of 2).cue" {
		t.Fatalf("unexpected playlist %q", got)
	}

	second := run(t, cfg, false)
	if second.Writes() != 0 {
		t.Fatalf("second run wrote %d times", second.Writes())
	}
	if second.Count(engine.KindPlaylistUnchanged) != 1 {
		t.Fatalf("expected unchanged playlist, got %+v", second.Outcomes)
	}
	if len(second.Unmanaged) != 0 {
		t.Fatalf("own playlist reported unmanaged: %+v", second.Unmanaged)
	}
	if first.RunID == "" || first.RunID == second.RunID {
		t.Fatalf("expected distinct run ids, got %q and %q", first.RunID, second.RunID)
	}
}

func TestRunKeepsDecomposedFileNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	psx := filepath.Join(cfg.Paths.RomsDir, "psx")
	testsupport.Roms(t, psx, "Poke\u0301mon (Disk 1 of 2).cue", "Pok\u00e9mon (Disk 2 of 2).cue")

	report := run(t, cfg, false)
	if report.Count(engine.KindPlaylistCreated) != 1 {
		t.Fatalf("expected one playlist created, got %+v", report.Outcomes)
	}
	got := testsupport.ReadString(t, filepath.Join(psx, "Pok\u00e9mon.m3u"))
	entries := strings.Split(got, "\n")
	want := []string{"Poke\u0301mon (Disk 1 of 2).cue", "Pok\u00e9mon (Disk 2 of 2).cue"}
	if len(entries) != len(want) {
		t.Fatalf("unexpected playlist %q", got)
	}
	for i, entry := range entries {
		if entry != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, entry, want[i])
		}
		if !exists(filepath.Join(psx, entry)) {
			t.Fatalf("entry %q does not name a file on disk", entry)
		}
	}
	if len(report.Orphans) != 0 {
		t.Fatalf("selected files reported as orphans: %+v", report.Orphans)
	}
}

func TestRunSkipsIncompleteAndSingleDiskSets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	psx := filepath.Join(cfg.Paths.RomsDir, "psx")
	testsupport.Roms(t, psx,
		"Epic (Disk 1 of 3).cue",
		"Epic (Disk 2 of 3).cue",
		"Lonely (Disk 1).cue",
		"Plain Game.cue",
	)

	report := run(t, cfg, false)
	if report.Count(engine.KindIncomplete) != 1 {
		t.Fatalf("expected one incomplete set, got %+v", report.Outcomes)
	}
	for _, name := range []string{"Epic.m3u", "Lonely.m3u"} {
		if exists(filepath.Join(psx, name)) {
			t.Fatalf("%s must not be written", name)
		}
	}
	if report.Candidates != 3 {
		t.Fatalf("expected 3 candidates, got %d", report.Candidates)
	}
	if len(report.Orphans) != 1 || filepath.Base(report.Orphans[0].Path) != "Lonely (Disk 1).cue" {
		t.Fatalf("unexpected orphans %+v", report.Orphans)
	}
}

func TestRunSuffixesCollidingNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	psx := filepath.Join(cfg.Paths.RomsDir, "psx")
	testsupport.Roms(t, psx,
		"Game- Part (Disk 1).cue", "Game- Part (Disk 2).cue",
		"Game: Part (Disk 1).cue", "Game: Part (Disk 2).cue",
	)

	report := run(t, cfg, false)
	if report.Count(engine.KindPlaylistCreated) != 2 {
		t.Fatalf("expected two playlists, got %+v", report.Outcomes)
	}
	if got := testsupport.ReadString(t, filepath.Join(psx, "Game- Part.m3u")); !strings.HasPrefix(got, "Game- Part (Disk 1)") {
		t.Fatalf("unexpected first playlist %q", got)
	}
	if got := testsupport.ReadString(t, filepath.Join(psx, "Game- Part[alt].m3u")); !strings.HasPrefix(got, "Game: Part (Disk 1)") {
		t.Fatalf("unexpected suffixed playlist %q", got)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogPlatforms("amiga"))
	psx := filepath.Join(cfg.Paths.RomsDir, "psx")
	amiga := filepath.Join(cfg.Paths.RomsDir, "amiga")
	testsupport.Roms(t, psx, "Game (Disk 1).cue", "Game (Disk 2).cue")
	testsupport.Roms(t, amiga, "Game (Disk 1).adf", "Game (Disk 2).adf")
	catalogPath := testsupport.Gamelist(t, amiga,
		testsupport.Record{Path: "./Game (Disk 1).adf"},
		testsupport.Record{Path: "./Game (Disk 2).adf"},
	)
	before := testsupport.ReadString(t, catalogPath)

	report := run(t, cfg, true)
	if !report.DryRun {
		t.Fatal("report should be flagged dry-run")
	}
	if report.Count(engine.KindPlaylistCreated) != 1 || report.Count(engine.KindCatalogPatched) != 1 {
		t.Fatalf("dry run should report planned work: %+v", report.Outcomes)
	}
	if exists(filepath.Join(psx, "Game.m3u")) {
		t.Fatal("dry run wrote a playlist")
	}
	if testsupport.ReadString(t, catalogPath) != before {
		t.Fatal("dry run changed the catalog")
	}
	if exists(catalogPath + ".bak") {
		t.Fatal("dry run created a backup")
	}
	if len(report.Flushes) != 1 || report.Flushes[0].Written {
		t.Fatalf("expected one unwritten flush entry, got %+v", report.Flushes)
	}
}

func TestRunCancelledBeforeFlush(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogPlatforms("amiga"))
	amiga := filepath.Join(cfg.Paths.RomsDir, "amiga")
	testsupport.Roms(t, amiga, "Game (Disk 1).adf", "Game (Disk 2).adf")
	catalogPath := testsupport.Gamelist(t, amiga,
		testsupport.Record{Path: "./Game (Disk 1).adf"},
		testsupport.Record{Path: "./Game (Disk 2).adf"},
	)
	before := testsupport.ReadString(t, catalogPath)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := engine.New(engine.OptionsFromConfig(cfg, false), nil).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if !report.Aborted {
		t.Fatal("report should be flagged aborted")
	}
	if testsupport.ReadString(t, catalogPath) != before {
		t.Fatal("aborted run flushed the catalog")
	}
}

func TestRunReportsUnmanagedPlaylists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	psx := filepath.Join(cfg.Paths.RomsDir, "psx")
	testsupport.Roms(t, psx, "Game (Disk 1).cue", "Game (Disk 2).cue")
	if err := os.WriteFile(filepath.Join(psx, "Old.m3u"), []byte("a.cue\nb.cue\nc.cue\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := run(t, cfg, false)
	if len(report.Unmanaged) != 1 {
		t.Fatalf("expected one unmanaged playlist, got %+v", report.Unmanaged)
	}
	if u := report.Unmanaged[0]; filepath.Base(u.Path) != "Old.m3u" || u.Entries != 3 {
		t.Fatalf("unexpected unmanaged entry %+v", u)
	}
}

func TestReportEncode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.Roms(t, filepath.Join(cfg.Paths.RomsDir, "psx"), "Game (Disk 1).cue", "Game (Disk 2).cue")
	report := run(t, cfg, true)

	for _, format := range []string{"json", "yaml"} {
		var buf bytes.Buffer
		if err := report.Encode(&buf, format); err != nil {
			t.Fatalf("Encode(%s): %v", format, err)
		}
		if !strings.Contains(buf.String(), report.RunID) || !strings.Contains(buf.String(), "playlist_created") {
			t.Fatalf("%s report missing fields:\n%s", format, buf.String())
		}
	}
	if err := report.Encode(&bytes.Buffer{}, "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
