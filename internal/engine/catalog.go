package engine

import (
	"errors"
	"log/slog"
	"sort"

	"discset/internal/catalog"
	"discset/internal/logging"
	"discset/internal/selection"
)

// patchCatalog hides every member but the primary and propagates one display
// name across the set's records.
func (st *runState) patchCatalog(cp *catalogPlatform, set selection.Set, out *Outcome, logger *slog.Logger) {
	out.Path = cp.state.Path
	rels := make([]string, len(set.Members))
	for i, m := range set.Members {
		rels[i] = cp.state.RelPath(m.Path())
	}

	changed := 0
	missing := make(map[string]struct{})
	for i, rel := range rels {
		if !cp.state.Has(rel) {
			missing[rel] = struct{}{}
			continue
		}
		if i == 0 {
			continue
		}
		if did, err := cp.state.Hide(rel); err == nil && did {
			changed++
		}
	}
	renamed, _ := cp.state.CanonicalizeNames(rels, out.Set)
	changed += renamed

	for i, m := range set.Members {
		if i > 0 && m.Dir == cp.root {
			cp.targets[rels[i]] = struct{}{}
		}
	}

	for _, rel := range rels {
		if _, ok := missing[rel]; ok {
			out.MissingRecords = append(out.MissingRecords, rel)
		}
	}

	switch {
	case len(missing) == len(rels):
		out.Kind = KindCatalogMissing
		out.Detail = "missing from catalog"
	case changed > 0:
		out.Kind = KindCatalogPatched
	default:
		out.Kind = KindCatalogUnchanged
	}
	if len(missing) > 0 && len(missing) < len(rels) {
		out.Detail = "some set entries missing"
	}
	if len(missing) > 0 && cp.state.Exists {
		logging.WarnWithContext(logger, "set records missing from catalog", "catalog_record_missing",
			logging.String(logging.FieldSet, out.Set),
			logging.Any("records", out.MissingRecords),
			logging.String(logging.FieldErrorHint, "rescrape the platform so every disk has a record"),
			logging.String(logging.FieldImpact, "missing disks stay unmanaged"),
		)
	}
	if changed > 0 {
		logger.Info("catalog patched", logging.String(logging.FieldSet, out.Set), logging.Int("edits", changed))
	}
}

// reconcile forces every root-level candidate record to the state implied by
// this run's confirmed sets: non-targets are unhidden first, then targets are
// hidden.
func (st *runState) reconcile(cp *catalogPlatform) {
	rec := Reconciliation{Platform: cp.name, Catalog: cp.state.Path, Targets: len(cp.targets)}
	if !cp.state.Exists {
		rec.Missing = len(cp.targets)
		st.report.Reconciliations = append(st.report.Reconciliations, rec)
		return
	}

	for _, c := range cp.rootCandidates {
		rel := cp.state.RelPath(c.Path())
		if _, ok := cp.targets[rel]; ok {
			continue
		}
		if did, err := cp.state.Unhide(rel); err == nil && did {
			rec.Unhidden++
		}
	}

	targets := make([]string, 0, len(cp.targets))
	for rel := range cp.targets {
		targets = append(targets, rel)
	}
	sort.Strings(targets)
	for _, rel := range targets {
		did, err := cp.state.Hide(rel)
		if err != nil {
			rec.Missing++
			continue
		}
		if did {
			rec.Hidden++
		}
	}

	st.report.Reconciliations = append(st.report.Reconciliations, rec)
	if rec.Hidden > 0 || rec.Unhidden > 0 {
		st.logger.Info("catalog reconciled",
			logging.String(logging.FieldPlatform, cp.name),
			logging.Int("hidden", rec.Hidden),
			logging.Int("unhidden", rec.Unhidden),
		)
	}
}

// flush writes every changed catalog. Backup failures are returned after
// every platform has been attempted.
func (st *runState) flush() error {
	names := make(map[string]string, len(st.touched))
	for _, cp := range st.touched {
		names[cp.root] = cp.name
	}

	results, err := st.catalogs.FlushAll(st.opts.DryRun)
	for _, r := range results {
		if !r.Changed && r.Err == nil {
			continue
		}
		f := Flush{Platform: names[r.Root], Catalog: r.Path, Backup: r.Backup, Written: r.Written}
		if r.Err != nil {
			f.Error = r.Err.Error()
			hint := "check free space and permissions next to the catalog"
			if errors.Is(r.Err, catalog.ErrBackup) {
				hint = "the catalog was left untouched because its backup could not be verified"
			}
			logging.ErrorWithContext(st.logger, "catalog flush failed", "catalog_flush_failed",
				logging.String(logging.FieldPlatform, f.Platform),
				logging.String(logging.FieldPath, r.Path),
				logging.Error(r.Err),
				logging.String(logging.FieldErrorHint, hint),
			)
		} else if r.Written {
			st.logger.Info("catalog written",
				logging.String(logging.FieldPlatform, f.Platform),
				logging.String(logging.FieldPath, r.Path),
				logging.String("backup", r.Backup),
			)
		}
		st.report.Flushes = append(st.report.Flushes, f)
	}
	return err
}
