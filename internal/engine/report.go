package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind classifies one outcome.
type Kind string

const (
	KindPlaylistCreated     Kind = "playlist_created"
	KindPlaylistOverwritten Kind = "playlist_overwritten"
	KindPlaylistUnchanged   Kind = "playlist_unchanged"
	KindCatalogPatched      Kind = "catalog_patched"
	KindCatalogUnchanged    Kind = "catalog_unchanged"
	KindCatalogMissing      Kind = "catalog_missing"
	KindIncomplete          Kind = "incomplete"
	KindSuppressed          Kind = "suppressed"
	KindDuplicate           Kind = "duplicate"
	KindUnnamed             Kind = "unnamed"
	KindPlatformSkipped     Kind = "platform_skipped"
	KindFailed              Kind = "failed"
)

// Outcome records one decision of the run.
type Outcome struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Platform string   `json:"platform" yaml:"platform"`
	Set      string   `json:"set,omitempty" yaml:"set,omitempty"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
	Alt      string   `json:"alt,omitempty" yaml:"alt,omitempty"`
	Members  []string `json:"members,omitempty" yaml:"members,omitempty"`
	// MissingDisks lists declared disk positions without a file.
	MissingDisks []int `json:"missing_disks,omitempty" yaml:"missing_disks,omitempty"`
	// MissingRecords lists member paths absent from the catalog.
	MissingRecords []string `json:"missing_records,omitempty" yaml:"missing_records,omitempty"`
	Suffixed       bool     `json:"suffixed,omitempty" yaml:"suffixed,omitempty"`
	DuplicateOf    string   `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
	Detail         string   `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Reconciliation summarizes the final pass over one catalog platform.
type Reconciliation struct {
	Platform string `json:"platform" yaml:"platform"`
	Catalog  string `json:"catalog" yaml:"catalog"`
	Targets  int    `json:"targets" yaml:"targets"`
	Hidden   int    `json:"hidden" yaml:"hidden"`
	Unhidden int    `json:"unhidden" yaml:"unhidden"`
	Missing  int    `json:"missing" yaml:"missing"`
}

// Flush is the result of writing one catalog.
type Flush struct {
	Platform string `json:"platform" yaml:"platform"`
	Catalog  string `json:"catalog" yaml:"catalog"`
	Backup   string `json:"backup,omitempty" yaml:"backup,omitempty"`
	Written  bool   `json:"written" yaml:"written"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Orphan is a parsed candidate that no set selected.
type Orphan struct {
	Platform string `json:"platform" yaml:"platform"`
	Path     string `json:"path" yaml:"path"`
}

// Unmanaged is an existing playlist this run did not produce.
type Unmanaged struct {
	Platform string `json:"platform" yaml:"platform"`
	Path     string `json:"path" yaml:"path"`
	Entries  int    `json:"entries" yaml:"entries"`
}

// Report is the typed result of a run. Every list is append-only during the
// run.
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run"`
	RomsDir    string    `json:"roms_dir" yaml:"roms_dir"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Aborted    bool      `json:"aborted,omitempty" yaml:"aborted,omitempty"`

	Platforms       []string         `json:"platforms" yaml:"platforms"`
	Candidates      int              `json:"candidates" yaml:"candidates"`
	Outcomes        []Outcome        `json:"outcomes" yaml:"outcomes"`
	Reconciliations []Reconciliation `json:"reconciliations,omitempty" yaml:"reconciliations,omitempty"`
	Flushes         []Flush          `json:"flushes,omitempty" yaml:"flushes,omitempty"`
	Orphans         []Orphan         `json:"orphans,omitempty" yaml:"orphans,omitempty"`
	Unmanaged       []Unmanaged      `json:"unmanaged_playlists,omitempty" yaml:"unmanaged_playlists,omitempty"`
}

func (r *Report) add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Count returns how many outcomes have kind k.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == k {
			n++
		}
	}
	return n
}

// KindCount pairs a kind with its count.
type KindCount struct {
	Kind  Kind
	Count int
}

// Counts returns the non-zero outcome counts ordered by kind.
func (r *Report) Counts() []KindCount {
	byKind := make(map[Kind]int)
	for _, o := range r.Outcomes {
		byKind[o.Kind]++
	}
	out := make([]KindCount, 0, len(byKind))
	for k, n := range byKind {
		out = append(out, KindCount{Kind: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Writes is the number of playlist writes and catalog flushes performed
// (or, in dry-run, that would be performed).
func (r *Report) Writes() int {
	n := r.Count(KindPlaylistCreated) + r.Count(KindPlaylistOverwritten)
	for _, f := range r.Flushes {
		if f.Written || (r.DryRun && f.Error == "") {
			n++
		}
	}
	return n
}

// Encode writes the report as "json" or "yaml".
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}
