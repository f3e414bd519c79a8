package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"discset/internal/catalog"
	"discset/internal/grouping"
	"discset/internal/identity"
	"discset/internal/logging"
	"discset/internal/naming"
	"discset/internal/playlist"
	"discset/internal/scan"
	"discset/internal/selection"
)

// Engine runs inference passes with fixed options.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// New creates an engine. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Engine {
	return &Engine{opts: opts, logger: logging.NewComponentLogger(logger, "engine")}
}

// runState carries every run-scoped table. It is created per Run and never
// shared.
type runState struct {
	opts     Options
	logger   *slog.Logger
	report   *Report
	resolver *identity.Resolver
	catalogs *catalog.Cache
	// produced holds playlist paths this run owns.
	produced map[string]struct{}
	// touched lists catalog platforms in processing order.
	touched []*catalogPlatform
}

// catalogPlatform tracks one catalog platform for reconciliation.
type catalogPlatform struct {
	name  string
	root  string
	state *catalog.State
	// rootCandidates are candidates located directly in root.
	rootCandidates []naming.Candidate
	// targets are catalog paths that confirmed sets want hidden.
	targets map[string]struct{}
}

// Run executes one pass. The returned report is complete even when err is
// non-nil, except for an aborted run, which stops before flushing.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	runID := e.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, runID)
	st := &runState{
		opts:     e.opts,
		logger:   logging.WithContext(ctx, e.logger),
		report:   &Report{RunID: runID, DryRun: e.opts.DryRun, RomsDir: e.opts.RomsDir, StartedAt: time.Now().UTC()},
		resolver: identity.NewResolver(),
		catalogs: catalog.NewCache(e.opts.CatalogFile),
		produced: make(map[string]struct{}),
	}
	defer func() { st.report.FinishedAt = time.Now().UTC() }()

	st.logger.Info("run started",
		logging.String("roms_dir", e.opts.RomsDir),
		logging.Bool(logging.FieldDryRun, e.opts.DryRun),
	)

	platforms, err := scan.Walk(e.opts.RomsDir, e.opts.Scan)
	if err != nil {
		return st.report, fmt.Errorf("scan: %w", err)
	}

	for _, p := range platforms {
		// processPlatform only fails on cancellation.
		if err := st.processPlatform(ctx, p); err != nil {
			st.report.Aborted = true
			st.logger.Warn("run aborted before flush", logging.Error(err))
			return st.report, err
		}
	}

	for _, cp := range st.touched {
		st.reconcile(cp)
	}

	flushErr := st.flush()

	for _, p := range platforms {
		st.reportLeftovers(p)
	}

	st.logger.Info("run finished",
		logging.Int("outcomes", len(st.report.Outcomes)),
		logging.Int("writes", st.report.Writes()),
		logging.Int("orphans", len(st.report.Orphans)),
		logging.Duration("elapsed", time.Since(st.report.StartedAt)),
	)
	return st.report, flushErr
}

func (st *runState) processPlatform(ctx context.Context, p scan.Platform) error {
	logger := st.logger.With(logging.String(logging.FieldPlatform, p.Name))
	st.report.Platforms = append(st.report.Platforms, p.Name)

	pol := st.opts.policyFor(p.Name)
	if pol == policySkip {
		st.report.add(Outcome{Kind: KindPlatformSkipped, Platform: p.Name, Detail: "catalog mode skip"})
		logger.Info("platform skipped", logging.String("reason", "catalog mode skip"))
		return nil
	}

	cands := parseAll(p.Files)
	st.report.Candidates += len(cands)
	idx := grouping.Build(cands)
	logger.Debug("platform grouped",
		logging.Int("files", len(p.Files)),
		logging.Int("candidates", len(cands)),
		logging.Int("groups", len(idx.Groups)),
	)

	var cp *catalogPlatform
	if pol == policyCatalog {
		cp = st.openCatalog(p, cands, logger)
	}

	for _, g := range idx.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, set := range selection.Select(idx, g) {
			st.handleSet(p, set, cp, logger)
		}
	}
	return nil
}

func parseAll(files []scan.File) []naming.Candidate {
	cands := make([]naming.Candidate, 0, len(files))
	for _, f := range files {
		if c, ok := naming.Parse(f.Name, f.Dir); ok {
			cands = append(cands, c)
		}
	}
	return cands
}

func (st *runState) openCatalog(p scan.Platform, cands []naming.Candidate, logger *slog.Logger) *catalogPlatform {
	state, err := st.catalogs.Get(p.Root)
	if err != nil {
		logging.WarnWithContext(logger, "catalog unreadable", "catalog_unreadable",
			logging.String(logging.FieldPath, state.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check file permissions on the catalog"),
			logging.String(logging.FieldImpact, "every set on this platform is reported missing from catalog"),
		)
	} else if !state.Exists {
		logging.WarnWithContext(logger, "catalog not found", "catalog_missing",
			logging.String(logging.FieldPath, state.Path),
			logging.String(logging.FieldErrorHint, "scrape the platform to create a gamelist"),
			logging.String(logging.FieldImpact, "every set on this platform is reported missing from catalog"),
		)
	}
	cp := &catalogPlatform{name: p.Name, root: p.Root, state: state, targets: make(map[string]struct{})}
	for _, c := range cands {
		if c.Dir == p.Root {
			cp.rootCandidates = append(cp.rootCandidates, c)
		}
	}
	st.touched = append(st.touched, cp)
	return cp
}

func (st *runState) handleSet(p scan.Platform, set selection.Set, cp *catalogPlatform, logger *slog.Logger) {
	out := Outcome{Platform: p.Name, Alt: set.Alt, Members: memberPaths(set)}
	// Every assembled set consumes its members, emitted or not.
	st.resolver.MarkUsed(out.Members...)

	switch {
	case set.Incomplete:
		out.Kind = KindIncomplete
		out.Set = naming.SetName(set.Members)
		out.MissingDisks = set.Missing
		st.report.add(out)
		logger.Info("incomplete set", logging.String(logging.FieldSet, out.Set), logging.Any("missing_disks", set.Missing))
		return
	case set.Suppressed:
		out.Kind = KindSuppressed
		out.Set = naming.SetName(set.Members)
		out.Detail = "preferred [!] sibling exists"
		st.report.add(out)
		return
	}

	name := naming.SetName(set.Members)
	if name == "" {
		out.Kind = KindUnnamed
		st.report.add(out)
		logging.WarnWithContext(logger, "set has no usable name", "set_unnamed",
			logging.String(logging.FieldPath, set.Primary().Path()),
			logging.String(logging.FieldImpact, "set skipped"),
			logging.String(logging.FieldErrorHint, "rename the files so a title precedes the disk token"),
		)
		return
	}

	var key identity.KeyFunc
	if cp != nil {
		key = identity.CatalogKey(p.Name, set.Group.Key.Prefix, set.Group.Key.TagsKey, set.Alt, set.RootTotal)
	} else {
		dir := set.Group.Key.Dir
		key = func(n string) string { return filepath.Join(dir, n+st.opts.Scan.PlaylistExtension) }
	}
	claim := st.resolver.Resolve(name, set.Signature(), key)
	out.Set = claim.Name
	out.Suffixed = claim.Suffixed

	if claim.Duplicate {
		out.Kind = KindDuplicate
		out.DuplicateOf = claim.DuplicateOf
		st.report.add(out)
		logger.Debug("duplicate set suppressed", logging.String(logging.FieldSet, name), logging.String("duplicate_of", claim.DuplicateOf))
		return
	}

	if cp != nil {
		st.patchCatalog(cp, set, &out, logger)
	} else {
		st.writePlaylist(set, claim, &out, logger)
	}
	st.report.add(out)
}

func (st *runState) writePlaylist(set selection.Set, claim identity.Claim, out *Outcome, logger *slog.Logger) {
	path := claim.Key
	out.Path = path
	st.produced[path] = struct{}{}

	names := make([]string, len(set.Members))
	for i, m := range set.Members {
		names[i] = m.FileName
	}
	res, err := playlist.Write(path, names, playlist.Options{LineEnding: st.opts.LineEnding, DryRun: st.opts.DryRun})
	if err != nil {
		out.Kind = KindFailed
		out.Detail = err.Error()
		logging.ErrorWithContext(logger, "playlist write failed", "playlist_write_failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
		)
		return
	}
	switch res.Result {
	case playlist.Created:
		out.Kind = KindPlaylistCreated
	case playlist.Overwritten:
		out.Kind = KindPlaylistOverwritten
		out.Detail = "overwrote existing content"
	default:
		out.Kind = KindPlaylistUnchanged
		out.Detail = "pre-existing, unchanged"
	}
	if res.Written() {
		logger.Info("playlist written",
			logging.String(logging.FieldSet, claim.Name),
			logging.String("result", string(res.Result)),
			logging.Bool(logging.FieldDryRun, res.DryRun),
		)
	}
}

func memberPaths(set selection.Set) []string {
	paths := make([]string, len(set.Members))
	for i, m := range set.Members {
		paths[i] = m.Path()
	}
	return paths
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
