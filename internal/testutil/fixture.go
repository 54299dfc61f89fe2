package testutil

import (
	"bytes"
	"context"
	_ "embed"
	"path/filepath"
	"testing"

	"github.com/VladmirB/sigmah/internal/domain"
	"github.com/VladmirB/sigmah/internal/store"
)

//go:embed testdata/sites.yaml
var sitesYAML []byte

// Users of the reference data set.
var (
	// Owner owns database 1 and sees sites 1-7.
	Owner = domain.User{ID: 1, Email: "alex@example.org", Name: "Alex"}

	// PartnerViewer may view partner 1's sites in database 1: 1, 2, 6 and 7.
	PartnerViewer = domain.User{ID: 2, Email: "bavon@example.org", Name: "Bavon"}

	// Manager may view all of database 1 and owns database 2: sites 1-8.
	Manager = domain.User{ID: 3, Email: "stefan@example.org", Name: "Stefan"}

	// Stranger has no permissions.
	Stranger = domain.User{ID: 4, Email: "nobody@example.org", Name: "Nobody"}
)

// SitesFixture decodes the reference data set.
func SitesFixture(t testing.TB) *store.Fixture {
	t.Helper()
	f, err := store.LoadFixture(bytes.NewReader(sitesYAML))
	if err != nil {
		t.Fatalf("load sites fixture: %v", err)
	}
	return f
}

// OpenStore opens an empty store in a temp directory, closed on cleanup.
func OpenStore(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// SeededStore opens a store holding the reference data set.
func SeededStore(t testing.TB) *store.Store {
	t.Helper()
	s := OpenStore(t)
	if err := s.Seed(context.Background(), SitesFixture(t)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}
