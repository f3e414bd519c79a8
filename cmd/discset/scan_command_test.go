package main

import (
	"path/filepath"
	"testing"

	"discset/internal/naming"
	"discset/internal/testsupport"
)

func TestScanListsCandidatesWithSets(t *testing.T) {
	env := setupCLITestEnv(t)
	psx := filepath.Join(env.cfg.Paths.RomsDir, "psx")
	testsupport.Roms(t, psx,
		"Game (Disk 1 of 2).cue",
		"Game (Disk 2 of 2).cue",
		"Lonely (Disk 1 of 3).cue",
		"Lonely (Disk 2 of 3).cue",
		"Readme.txt",
	)

	out, _, err := runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "Game (Disk 1 of 2).cue")
	requireContains(t, out, "1/2")
	requireContains(t, out, "Lonely (incomplete)")
}

func TestScanEmptyTree(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "No disk candidates found")
}

func TestDiskLabel(t *testing.T) {
	tests := []struct {
		name string
		cand naming.Candidate
		want string
	}{
		{"unknown", naming.Candidate{}, "?"},
		{"plain", naming.Candidate{Disk: 2}, "2"},
		{"side", naming.Candidate{Disk: 1, Side: 2}, "1B"},
		{"total", naming.Candidate{Disk: 3, Total: 4}, "3/4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := diskLabel(tt.cand); got != tt.want {
				t.Fatalf("diskLabel = %q, want %q", got, tt.want)
			}
		})
	}
}
