package testsupport

import (
	"testing"

	"discset/internal/config"
	"discset/internal/history"
)

// MustOpenHistory opens the run ledger at the config's history path and
// closes it when the test ends.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
