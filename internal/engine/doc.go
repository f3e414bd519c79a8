// Package engine runs one inference pass over a ROM tree.
//
// A run enumerates each platform, parses multi-disk candidates, groups and
// selects sets, names them, resolves identity collisions, and then either
// writes a playlist per set or patches the platform catalog so only the
// primary disk stays visible. Catalog platforms finish with a reconciliation
// pass that recomputes every root-level hidden flag from this run's confirmed
// sets, unhiding before hiding. Catalogs are flushed once at the end, after a
// verified backup; dry runs compute the same report without touching disk.
//
// All run-scoped bookkeeping lives on a single runState value and every
// decision is recorded as a typed Outcome on the Report.
package engine
