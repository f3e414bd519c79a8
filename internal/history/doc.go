// Package history keeps a SQLite ledger of completed runs and their outcomes
// so past decisions can be listed and inspected with `discset history`.
//
// The schema is embedded and versioned through PRAGMA user_version. A
// database written by a different version is rejected with ErrSchemaMismatch
// rather than migrated; the ledger is informational and can be deleted.
package history
