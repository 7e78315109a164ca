package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// ErrEncode marks any failure reported by the transcoding engine. Callers
// match with errors.Is.
var ErrEncode = errors.New("encode failure")

// Client defines transcoding engine behaviour.
type Client interface {
	// Run invokes the engine with the given argument list inside workDir.
	Run(ctx context.Context, workDir string, args ...string) error
	// ProbeDurationMillis reports the duration of a media file.
	ProbeDurationMillis(ctx context.Context, path string) (int64, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithProbeBinary overrides the default ffprobe binary name.
func WithProbeBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.probeBinary = binary
		}
	}
}

// WithTimeout bounds a single engine invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *CLI) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// CLI wraps the ffmpeg and ffprobe command-line tools.
type CLI struct {
	binary      string
	probeBinary string
	timeout     time.Duration
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", probeBinary: "ffprobe"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Run launches ffmpeg with the provided arguments. A non-zero exit wraps
// ErrEncode together with the tail of the engine's stderr output.
func (c *CLI) Run(ctx context.Context, workDir string, args ...string) error {
	if len(args) == 0 {
		return errors.New("arguments required")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Dir = workDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w: %s", ErrEncode, c.binary, err, stderrTail(stderr.String()))
	}
	return nil
}

// ProbeDurationMillis asks ffprobe for the container duration in seconds and
// converts to milliseconds.
func (c *CLI) ProbeDurationMillis(ctx context.Context, path string) (int64, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("path required")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	cmd := commandContext(ctx, c.probeBinary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%w: %s: %w: %s", ErrEncode, c.probeBinary, err, stderrTail(stderr.String()))
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("parse probed duration %q: %w", strings.TrimSpace(stdout.String()), err)
	}
	return int64(seconds * 1000), nil
}

func stderrTail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, "; ")
}

var _ Client = (*CLI)(nil)
