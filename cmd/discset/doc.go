// Command discset infers multi-disk sets in a ROM tree and writes one M3U
// playlist per set, or patches the platform's gamelist so only the first
// disk of each set is visible.
//
// Subcommands:
//   - run: perform a pass (use --dry-run to only report)
//   - scan: list the disk candidates found per platform
//   - config init|validate: manage the TOML configuration
//   - history list|show|prune: inspect the SQLite ledger of past runs
//   - test-notify: send a test message to the configured ntfy topic
package main
