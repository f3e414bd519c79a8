package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one engine run; it matches the history ledger.
	FieldRunID = "run_id"
	// FieldPlatform is the platform directory being processed.
	FieldPlatform = "platform"
	// FieldSet is the display name of a selected multi-disk set.
	FieldSet = "set"
	FieldPath = "path"
	// FieldEventType classifies a warning or error for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the reader.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	FieldDryRun = "dry_run"
)
