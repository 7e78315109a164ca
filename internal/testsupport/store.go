package testsupport

import (
	"context"
	"testing"

	"presenvid/internal/config"
	"presenvid/internal/presentation"
	"presenvid/internal/store"
)

// MustOpenRepository opens the configured store backend for tests and
// registers cleanup.
func MustOpenRepository(t testing.TB, cfg *config.Config) store.Repository {
	t.Helper()

	repo, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

// MustCreate persists a new presentation for tests.
func MustCreate(t testing.TB, repo store.Repository, p *presentation.Presentation) *presentation.Presentation {
	t.Helper()

	created, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("repo.Create: %v", err)
	}
	return created
}
