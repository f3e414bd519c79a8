// Package selection fills the disk positions of a strict group with concrete
// files.
//
// For every alt variant of a group and every declared root total, each
// expected disk position is filled by the first non-empty step of a fixed
// fallback policy: exact group match, a single unambiguous alt disk (for the
// no-alt pass), the relaxed title pool that ignores the "[!]" marker, then a
// chain of progressively more generic alt variants. Sets with fewer than two
// members are dropped; sets missing a declared position are marked
// incomplete; marker-lacking sets shadowed by a preferred sibling are marked
// suppressed.
package selection
