package main

import (
	"path/filepath"
	"testing"

	"presenvid/internal/config"
)

func TestArchivePresentationRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t, config.BackendSQLite)
	id := createPresentation(t, env, "portable deck", 2)
	slideUID := showJSON(t, env, id).Slides[0].UID
	mustRunCLI(t, env, "audio", "add", id, slideUID, audioFile(t, env, "take.wav"),
		"--duration-ms", "1800", "--no-preview")

	bundle := filepath.Join(env.baseDir, "deck.pvm")
	out := mustRunCLI(t, env, "archive", "export", id, bundle)
	requireContains(t, out, "deck.pvm")

	out = mustRunCLI(t, env, "archive", "import", bundle)
	requireContains(t, out, "Imported presentation")

	// The import is a new presentation with identical content.
	original := showJSON(t, env, id)
	imported := showJSON(t, env, "2")
	if imported.ID == original.ID {
		t.Fatal("import must create a new presentation")
	}
	if imported.Title != original.Title {
		t.Fatalf("title mismatch: %q != %q", imported.Title, original.Title)
	}
	if len(imported.Slides) != len(original.Slides) {
		t.Fatalf("slide count mismatch: %d", len(imported.Slides))
	}
	if imported.Slides[0].Audios[0].DurationMillisec != 1800 {
		t.Fatal("take metadata lost through the bundle")
	}
}

func TestArchiveImportTwiceKeepsUIDs(t *testing.T) {
	env := setupCLITestEnv(t, config.BackendSQLite)
	id := createPresentation(t, env, "copied deck", 2)
	original := showJSON(t, env, id)

	bundle := filepath.Join(env.baseDir, "deck.pvm")
	mustRunCLI(t, env, "archive", "export", id, bundle)

	// uids travel with the bundle, so importing next to the source (twice)
	// must not collide with it.
	mustRunCLI(t, env, "archive", "import", bundle)
	mustRunCLI(t, env, "archive", "import", bundle)

	for _, importedID := range []string{"2", "3"} {
		view := showJSON(t, env, importedID)
		if len(view.Slides) != len(original.Slides) {
			t.Fatalf("presentation %s slide count mismatch: %d", importedID, len(view.Slides))
		}
		for i := range view.Slides {
			if view.Slides[i].UID != original.Slides[i].UID {
				t.Fatalf("presentation %s slide %d uid %q, want %q",
					importedID, i, view.Slides[i].UID, original.Slides[i].UID)
			}
		}
	}
}

func TestArchiveSlideImport(t *testing.T) {
	env := setupCLITestEnv(t, config.BackendSQLite)
	source := createPresentation(t, env, "source", 1)
	target := createPresentation(t, env, "target", 1)
	slideUID := showJSON(t, env, source).Slides[0].UID

	bundle := filepath.Join(env.baseDir, "one.slide")
	mustRunCLI(t, env, "archive", "export", source, bundle, "--slide", slideUID)

	// Without --into a slide bundle is not a valid presentation bundle.
	if _, _, err := runCLI(t, env, "archive", "import", bundle); err == nil {
		t.Fatal("expected slide bundle import to fail without --into")
	}

	mustRunCLI(t, env, "archive", "import", bundle, "--into", target)
	view := showJSON(t, env, target)
	if len(view.Slides) != 2 {
		t.Fatalf("expected 2 slides after import, got %d", len(view.Slides))
	}
	if view.Slides[1].UID != slideUID {
		t.Fatalf("imported slide uid %q, want %q", view.Slides[1].UID, slideUID)
	}
}

func TestArchiveImportRejectsGarbage(t *testing.T) {
	env := setupCLITestEnv(t, config.BackendSQLite)
	garbage := audioFile(t, env, "garbage.bin")
	_, _, err := runCLI(t, env, "archive", "import", garbage)
	if err == nil {
		t.Fatal("expected error importing a non-bundle file")
	}
	requireContains(t, err.Error(), "invalid archive format")
}
