// Package notify publishes run results to an ntfy topic.
//
// NewService returns a no-op implementation when no topic is configured, so
// callers never branch on whether notifications are enabled. Delivery
// failures are returned to the caller, which logs them; they never fail a
// run.
package notify
