// Package catalog edits EmulationStation-style gamelist files in place.
//
// The file is handled as lines rather than parsed as XML so that every byte
// outside the edited fields survives a rewrite: indentation, comments,
// unknown elements, line endings and a leading byte order mark. Records are
// located by their <path> value and edited within a bounded window around
// that line.
//
// A State holds one platform's catalog for the duration of a run. The first
// flush of a changed State copies the original file to a verified backup
// before the rewrite; dry runs never flush.
package catalog
