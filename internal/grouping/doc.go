// Package grouping partitions multi-disk candidates into strict groups and
// builds the relaxed lookups the selector falls back on: every candidate of a
// title regardless of tags, and presence flags for the "[!]" preference
// marker per title, tag set and alt variant.
package grouping
