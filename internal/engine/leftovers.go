package engine

import (
	"discset/internal/logging"
	"discset/internal/playlist"
	"discset/internal/scan"
)

// reportLeftovers lists candidates no set selected and existing playlists
// this run does not own.
func (st *runState) reportLeftovers(p scan.Platform) {
	if st.opts.policyFor(p.Name) == policySkip {
		return
	}
	for _, c := range parseAll(p.Files) {
		if st.resolver.Used(c.Path()) {
			continue
		}
		st.report.Orphans = append(st.report.Orphans, Orphan{Platform: p.Name, Path: c.Path()})
	}

	for _, path := range p.Playlists {
		if _, ok := st.produced[path]; ok {
			continue
		}
		entries, err := playlist.CountEntries(path)
		if err != nil {
			st.logger.Debug("unmanaged playlist unreadable",
				logging.String(logging.FieldPath, path),
				logging.Error(err),
			)
			entries = -1
		}
		st.report.Unmanaged = append(st.report.Unmanaged, Unmanaged{Platform: p.Name, Path: path, Entries: entries})
	}
}
