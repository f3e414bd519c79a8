// Package preflight checks that the filesystem paths a run depends on are
// usable before any file is touched.
//
// The CLI runs RunAll before a run and aborts when a check fails; the
// "discset config validate" command prints the same results as a table.
package preflight
