package store_test

import (
	"context"
	"testing"

	"presenvid/internal/store"
	"presenvid/internal/testsupport"
)

func TestSQLiteCheckHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	repo, err := store.OpenSQLite(cfg)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer repo.Close()

	testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "Health", 1))

	health, err := repo.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists {
		t.Fatalf("unexpected health: %+v", health)
	}
	if health.TotalItems != 1 {
		t.Fatalf("expected 1 presentation, got %d", health.TotalItems)
	}
	if !health.IntegrityCheck {
		t.Fatal("expected integrity check to pass")
	}
}

func TestSQLiteIDsAreUniqueAndIncreasing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	repo, err := store.OpenSQLite(cfg)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer repo.Close()

	a := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "A", 1))
	b := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "B", 1))
	if a.ID == b.ID {
		t.Fatalf("ids must be unique, both %d", a.ID)
	}
	if b.ID <= a.ID {
		t.Fatalf("expected auto-increment ids, got %d then %d", a.ID, b.ID)
	}
}
