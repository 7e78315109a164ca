package main

import (
	"os"
	"path/filepath"
	"testing"

	"presenvid/internal/config"
)

func TestAudioLifecycleAndExport(t *testing.T) {
	env := setupCLITestEnv(t, config.BackendSQLite)
	id := createPresentation(t, env, "talk", 1)
	slideUID := showJSON(t, env, id).Slides[0].UID

	output := filepath.Join(env.baseDir, "talk.mp4")
	if _, _, err := runCLI(t, env, "export", id, output); err == nil {
		t.Fatal("expected export to fail before any take exists")
	}

	// Duration comes from the ffprobe stub (2.5 seconds).
	take := audioFile(t, env, "take1.wav")
	out := mustRunCLI(t, env, "audio", "add", id, slideUID, take)
	requireContains(t, out, "2.5s")

	view := showJSON(t, env, id)
	if len(view.Slides[0].Audios) != 1 {
		t.Fatalf("expected 1 take, got %d", len(view.Slides[0].Audios))
	}
	firstTake := view.Slides[0].Audios[0]
	if firstTake.DurationMillisec != 2500 {
		t.Fatalf("probed duration = %d, want 2500", firstTake.DurationMillisec)
	}
	if view.Slides[0].SelectedAudioUID != firstTake.UID {
		t.Fatal("first take should be auto-selected")
	}

	// A second take with an explicit duration; selection stays on the first.
	take2 := audioFile(t, env, "take2.wav")
	mustRunCLI(t, env, "audio", "add", id, slideUID, take2,
		"--duration-ms", "1200", "--no-preview", "--title", "retake")

	view = showJSON(t, env, id)
	if len(view.Slides[0].Audios) != 2 {
		t.Fatalf("expected 2 takes, got %d", len(view.Slides[0].Audios))
	}
	if view.Slides[0].SelectedAudioUID != firstTake.UID {
		t.Fatal("adding a take must not steal the selection")
	}
	secondTake := view.Slides[0].Audios[1]

	mustRunCLI(t, env, "audio", "select", id, slideUID, secondTake.UID)
	view = showJSON(t, env, id)
	if view.Slides[0].SelectedAudioUID != secondTake.UID {
		t.Fatal("select did not change the selected take")
	}

	out = mustRunCLI(t, env, "export", id, output, "--format", "mp4")
	requireContains(t, out, "video/mp4")
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read exported video: %v", err)
	}
	if string(data) != "rendered\n" {
		t.Fatalf("unexpected export payload %q", data)
	}

	// Removing the selected take falls back to the remaining one.
	mustRunCLI(t, env, "audio", "remove", id, slideUID, secondTake.UID)
	view = showJSON(t, env, id)
	if len(view.Slides[0].Audios) != 1 {
		t.Fatalf("expected 1 take after remove, got %d", len(view.Slides[0].Audios))
	}
	if view.Slides[0].SelectedAudioUID != firstTake.UID {
		t.Fatal("selection did not fall back to the remaining take")
	}
}

func TestExportRemembersFormat(t *testing.T) {
	env := setupCLITestEnv(t, config.BackendSQLite)
	id := createPresentation(t, env, "webm talk", 1)
	slideUID := showJSON(t, env, id).Slides[0].UID
	mustRunCLI(t, env, "audio", "add", id, slideUID, audioFile(t, env, "take.wav"),
		"--duration-ms", "1000", "--no-preview")

	output := filepath.Join(env.baseDir, "out.webm")
	out := mustRunCLI(t, env, "export", id, output, "--format", "webm")
	requireContains(t, out, "video/webm")

	// The next export without a flag reuses the remembered format.
	output2 := filepath.Join(env.baseDir, "out2")
	out = mustRunCLI(t, env, "export", id, output2)
	requireContains(t, out, "video/webm")
}
