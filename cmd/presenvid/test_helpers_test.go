package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"presenvid/internal/testsupport"
)

// ffmpegStub writes marker bytes to its final argument, which is where the
// real engine writes its output file. Cobra commands run it through the
// configured binary path, so no PATH manipulation is needed.
const ffmpegStub = `#!/bin/sh
for last in "$@"; do :; done
printf 'rendered\n' > "$last"
exit 0
`

const ffprobeStub = `#!/bin/sh
echo 2.500000
exit 0
`

type cliTestEnv struct {
	baseDir    string
	configPath string
	libraryDir string
}

func setupCLITestEnv(t *testing.T, backend string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	writeStub(t, filepath.Join(binDir, "ffmpeg"), ffmpegStub)
	writeStub(t, filepath.Join(binDir, "ffprobe"), ffprobeStub)

	libraryDir := filepath.Join(base, "library")
	configPath := filepath.Join(homeDir, ".config", "presenvid", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[paths]
library_dir = %q
staging_dir = %q
log_dir = %q

[storage]
backend = %q

[ffmpeg]
binary = %q
probe_binary = %q
`,
		libraryDir,
		filepath.Join(base, "staging"),
		filepath.Join(base, "logs"),
		backend,
		filepath.Join(binDir, "ffmpeg"),
		filepath.Join(binDir, "ffprobe"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		libraryDir: libraryDir,
	}
}

func writeStub(t *testing.T, path, script string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("presenvid %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// slideImage writes an encoded PNG to disk for create and slide add.
func slideImage(t *testing.T, env *cliTestEnv, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(env.baseDir, name)
	if err := os.WriteFile(path, testsupport.PNG(t, width, height), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func audioFile(t *testing.T, env *cliTestEnv, name string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, name)
	if err := os.WriteFile(path, testsupport.WAV(512), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

// presentationView mirrors the JSON the show command emits.
type presentationView struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Slides []struct {
		UID              string `json:"uid"`
		Title            string `json:"title"`
		SelectedAudioUID string `json:"selectedAudioUid"`
		Audios           []struct {
			UID              string `json:"uid"`
			Title            string `json:"title"`
			DurationMillisec int64  `json:"durationMillisec"`
		} `json:"audios"`
	} `json:"slides"`
}

func showJSON(t *testing.T, env *cliTestEnv, id string) presentationView {
	t.Helper()
	out := mustRunCLI(t, env, "--json", "show", id)
	var view presentationView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("parse show output: %v\n%s", err, out)
	}
	return view
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
