// Package naming turns ROM file names into multi-disk candidates and derives
// the shared display name of a selected set.
//
// Parse recognizes a disk designator ("Disk 2 of 4", "Disc B", "Disk III",
// optionally followed by "Side A") or, failing that, a lone side designator,
// and splits the remainder of the name into a title prefix, an optional name
// hint, an optional TOSEC-style alt tag, and descriptive bracket tags. Files
// without a designator are not candidates.
//
// SetName builds a playlist name from only what every member of a set has in
// common, so one-off tags on a single disk never leak into the set name.
package naming
