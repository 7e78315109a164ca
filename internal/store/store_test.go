package store_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"presenvid/internal/config"
	"presenvid/internal/presentation"
	"presenvid/internal/store"
	"presenvid/internal/testsupport"
)

func backends(t *testing.T) map[string]store.Repository {
	t.Helper()
	repos := make(map[string]store.Repository)
	for _, backend := range []string{config.BackendSQLite, config.BackendDirectory} {
		cfg := testsupport.NewConfig(t, testsupport.WithBackend(backend))
		repos[backend] = testsupport.MustOpenRepository(t, cfg)
	}
	return repos
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	for backend, repo := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			input := testsupport.NewPresentation(t, "Quarterly Review", 3)
			input.Slides[1].Audios[0].BlobForPreview = testsupport.WAV(64)

			created, err := repo.Create(ctx, input)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if created.ID == 0 {
				t.Fatal("expected backend-assigned id")
			}

			got, err := repo.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Title != input.Title || got.Width != input.Width || got.Height != input.Height {
				t.Fatalf("aggregate mismatch: got %q %dx%d", got.Title, got.Width, got.Height)
			}
			if len(got.Slides) != len(input.Slides) {
				t.Fatalf("slide count mismatch: got %d want %d", len(got.Slides), len(input.Slides))
			}
			for i := range input.Slides {
				want := &input.Slides[i]
				have := &got.Slides[i]
				if have.UID != want.UID {
					t.Fatalf("slide %d order not preserved: got uid %s want %s", i, have.UID, want.UID)
				}
				if !bytes.Equal(have.Image, want.Image) {
					t.Fatalf("slide %d image payload mismatch", i)
				}
				if have.SelectedAudioUID != want.SelectedAudioUID {
					t.Fatalf("slide %d selection mismatch", i)
				}
				for j := range want.Audios {
					if have.Audios[j].UID != want.Audios[j].UID {
						t.Fatalf("slide %d audio %d uid mismatch", i, j)
					}
					if !bytes.Equal(have.Audios[j].Blob, want.Audios[j].Blob) {
						t.Fatalf("slide %d audio %d payload mismatch", i, j)
					}
					if have.Audios[j].DurationMillisec != want.Audios[j].DurationMillisec {
						t.Fatalf("slide %d audio %d duration mismatch", i, j)
					}
				}
			}
			if !bytes.Equal(got.Slides[1].Audios[0].BlobForPreview, input.Slides[1].Audios[0].BlobForPreview) {
				t.Fatal("preview payload not preserved")
			}
		})
	}
}

func TestSavePreservesReorderedSlides(t *testing.T) {
	for backend, repo := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			created := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "Deck", 3))

			first := created.Slides[0].UID
			if err := created.MoveSlide(first, 2); err != nil {
				t.Fatalf("MoveSlide failed: %v", err)
			}
			if err := repo.Save(ctx, created); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := repo.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Slides[2].UID != first {
				t.Fatalf("slide order not preserved after save: %v", []string{got.Slides[0].UID, got.Slides[1].UID, got.Slides[2].UID})
			}
		})
	}
}

func TestCreateAcceptsDuplicateUIDsAcrossPresentations(t *testing.T) {
	for backend, repo := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			first := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "Original", 2))

			// Imported bundles keep their uids, so the same slide and audio
			// uids may exist under several presentations at once.
			clone := first.Clone()
			clone.ID = 0
			second, err := repo.Create(ctx, clone)
			if err != nil {
				t.Fatalf("Create with shared uids failed: %v", err)
			}
			if second.ID == first.ID {
				t.Fatal("expected a distinct id for the copy")
			}

			got, err := repo.Get(ctx, second.ID)
			if err != nil {
				t.Fatalf("Get copy failed: %v", err)
			}
			for i := range first.Slides {
				if got.Slides[i].UID != first.Slides[i].UID {
					t.Fatalf("slide %d uid changed on copy: %q != %q", i, got.Slides[i].UID, first.Slides[i].UID)
				}
				if got.Slides[i].Audios[0].UID != first.Slides[i].Audios[0].UID {
					t.Fatalf("slide %d audio uid changed on copy", i)
				}
			}
		})
	}
}

func TestSaveUnknownIDFails(t *testing.T) {
	for backend, repo := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			p := testsupport.NewPresentation(t, "Ghost", 1)
			p.ID = 987654321
			err := repo.Save(context.Background(), p)
			if !errors.Is(err, store.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestDeleteThenGetNotFound(t *testing.T) {
	for backend, repo := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			created := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "Doomed", 1))

			if err := repo.Delete(ctx, created.ID); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := repo.Get(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			// Idempotent: deleting again is not an error.
			if err := repo.Delete(ctx, created.ID); err != nil {
				t.Fatalf("second Delete failed: %v", err)
			}
		})
	}
}

func TestListReturnsLightweightRows(t *testing.T) {
	for backend, repo := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			a := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "Alpha", 1))
			b := testsupport.MustCreate(t, repo, testsupport.NewPresentation(t, "Beta", 2))

			items, err := repo.List(ctx)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(items) != 2 {
				t.Fatalf("expected 2 items, got %d", len(items))
			}
			if items[0].ID != a.ID || items[0].Title != "Alpha" {
				t.Fatalf("unexpected first item: %+v", items[0])
			}
			if items[1].ID != b.ID || items[1].Title != "Beta" {
				t.Fatalf("unexpected second item: %+v", items[1])
			}
		})
	}
}

func TestSaveRemovedAudioPrunesNothingDangling(t *testing.T) {
	for backend, repo := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			input := testsupport.NewPresentation(t, "Takes", 1)
			extra := presentation.NewAudio("Take 2", testsupport.WAV(99), 1500)
			input.Slides[0].AddAudio(extra)
			created := testsupport.MustCreate(t, repo, input)

			selected := created.Slides[0].SelectedAudioUID
			created.Slides[0].RemoveAudio(selected)
			if err := repo.Save(ctx, created); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := repo.Get(ctx, created.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if len(got.Slides[0].Audios) != 1 {
				t.Fatalf("expected 1 remaining take, got %d", len(got.Slides[0].Audios))
			}
			if got.Slides[0].SelectedAudioUID != got.Slides[0].Audios[0].UID {
				t.Fatalf("selection should fall back to the remaining take, got %q", got.Slides[0].SelectedAudioUID)
			}
		})
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Storage.Backend = "tape"
	if _, err := store.Open(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
