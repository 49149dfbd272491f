package testsupport

import (
	"context"
	"testing"

	"mkvcleaver/internal/config"
	"mkvcleaver/internal/workset"
)

// MustOpenStore opens the workspace store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *workset.Store {
	t.Helper()

	store, err := workset.Open(context.Background(), cfg.Paths.WorkspaceDir)
	if err != nil {
		t.Fatalf("workset.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
