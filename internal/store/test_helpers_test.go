package store

import (
	"path/filepath"
	"testing"
)

// openTestStore opens an empty file-backed store with the given driver,
// closed on cleanup. In-memory stores would hide the WAL pragma.
func openTestStore(t *testing.T, driver string) *Store {
	t.Helper()
	s, err := OpenDriver(driver, filepath.Join(t.TempDir(), driver+".db"))
	if err != nil {
		t.Fatalf("OpenDriver(%q) failed: %v", driver, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
