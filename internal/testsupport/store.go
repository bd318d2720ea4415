package testsupport

import (
	"testing"

	"mintforge/internal/config"
	"mintforge/internal/records"
)

// MustOpenRecordStore opens a records.Store for tests and registers cleanup.
func MustOpenRecordStore(t testing.TB, cfg *config.Config) *records.Store {
	t.Helper()

	store, err := records.Open(cfg)
	if err != nil {
		t.Fatalf("records.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
