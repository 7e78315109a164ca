package store_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"presenvid/internal/config"
	"presenvid/internal/store"
	"presenvid/internal/testsupport"
)

func TestDirectoryLayoutMatchesConvention(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackend(config.BackendDirectory))
	repo := testsupport.MustOpenRepository(t, cfg)

	created := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "Layout", 2))

	dir := filepath.Join(cfg.Paths.LibraryDir, fmt.Sprintf("presentation_%d", created.ID))
	if _, err := os.Stat(filepath.Join(dir, "presentation.json")); err != nil {
		t.Fatalf("missing manifest: %v", err)
	}
	for _, slide := range created.Slides {
		if _, err := os.Stat(filepath.Join(dir, "images", "image_"+slide.UID)); err != nil {
			t.Fatalf("missing image file for %s: %v", slide.UID, err)
		}
		for _, audio := range slide.Audios {
			if _, err := os.Stat(filepath.Join(dir, "audios", "audio_"+audio.UID+".wav")); err != nil {
				t.Fatalf("missing audio file for %s: %v", audio.UID, err)
			}
		}
	}
}

func TestDirectorySavePrunesOrphanedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackend(config.BackendDirectory))
	repo := testsupport.MustOpenRepository(t, cfg)

	created := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "Prune", 2))
	removed := created.Slides[1]
	created.RemoveSlide(removed.UID)
	if err := repo.Save(context.Background(), created); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	dir := filepath.Join(cfg.Paths.LibraryDir, fmt.Sprintf("presentation_%d", created.ID))
	if _, err := os.Stat(filepath.Join(dir, "images", "image_"+removed.UID)); !os.IsNotExist(err) {
		t.Fatalf("orphaned image should be pruned, stat err=%v", err)
	}
	for _, audio := range removed.Audios {
		if _, err := os.Stat(filepath.Join(dir, "audios", "audio_"+audio.UID+".wav")); !os.IsNotExist(err) {
			t.Fatalf("orphaned audio should be pruned, stat err=%v", err)
		}
	}
}

func TestDirectoryLockExcludesSecondWriter(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithBackend(config.BackendDirectory))
	first, err := store.OpenDirectory(cfg)
	if err != nil {
		t.Fatalf("first OpenDirectory failed: %v", err)
	}
	defer first.Close()

	if _, err := store.OpenDirectory(cfg); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable while lock is held, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("release lock: %v", err)
	}
	second, err := store.OpenDirectory(cfg)
	if err != nil {
		t.Fatalf("open after release failed: %v", err)
	}
	_ = second.Close()
}
