// Package logging assembles structured slog loggers and formatting helpers used
// across discset.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes helpers so engine code can tag every line of a run with
// its run ID and the platform being processed. Console output goes to stderr so
// machine-readable reports on stdout stay clean; file logging adds a JSON copy
// under the state directory.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the tool.
package logging
