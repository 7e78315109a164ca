package assembly

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"presenvid/internal/ffmpeg"
	"presenvid/internal/logging"
	"presenvid/internal/presentation"
)

// ErrNothingToRender reports an export request in which no slide carried a
// usable (image, audio, duration) triple.
var ErrNothingToRender = errors.New("no renderable slides")

// Request carries the per-slide inputs of one export. The three slices are
// index-aligned; a slide whose image or audio is missing, or whose duration
// is not positive, is dropped from the output.
type Request struct {
	Images          [][]byte
	Audios          [][]byte
	DurationsMillis []int64
	Width           int
	Height          int
	Format          Format
}

// RequestFrom collects the selected take of every slide into an export
// request. Slides without a selected take keep their index with empty audio
// so the pipeline skips them instead of shifting later slides onto the wrong
// soundtrack.
func RequestFrom(p *presentation.Presentation, format Format) Request {
	req := Request{
		Width:  p.Width,
		Height: p.Height,
		Format: format,
	}
	for _, slide := range p.Slides {
		req.Images = append(req.Images, slide.Image)
		take, ok := slide.SelectedAudio()
		if !ok {
			req.Audios = append(req.Audios, nil)
			req.DurationsMillis = append(req.DurationsMillis, 0)
			continue
		}
		req.Audios = append(req.Audios, take.Blob)
		req.DurationsMillis = append(req.DurationsMillis, take.DurationMillisec)
	}
	return req
}

// Result is a fully rendered video held in memory.
type Result struct {
	Data     []byte
	MIMEType string
}

// Assembler renders export requests through a single transcoding engine
// client. It is safe for concurrent use; invocations are serialized.
type Assembler struct {
	mu         sync.Mutex
	enc        ffmpeg.Client
	stagingDir string
	logger     *slog.Logger
}

// New returns an Assembler that stages work under stagingDir.
func New(enc ffmpeg.Client, stagingDir string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assembler{enc: enc, stagingDir: stagingDir, logger: logger}
}

// Assemble renders the request into a single video. The per-export working
// directory is removed before returning, on success and on failure alike.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare staging directory: %w", err)
	}
	workDir, err := os.MkdirTemp(a.stagingDir, "export-")
	if err != nil {
		return nil, fmt.Errorf("create export workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	width, height := evenSize(req.Width, req.Height)

	var (
		clips     []string
		lastImage string
	)
	for i, image := range req.Images {
		var audio []byte
		var duration int64
		if i < len(req.Audios) {
			audio = req.Audios[i]
		}
		if i < len(req.DurationsMillis) {
			duration = req.DurationsMillis[i]
		}
		if len(image) == 0 || len(audio) == 0 || duration <= 0 {
			a.logger.Warn("skipping slide without complete inputs",
				logging.Int("slide_index", i),
				logging.Int64("duration_ms", duration))
			continue
		}

		id := uuid.NewString()
		imageName := "image_" + id
		audioName := "audio_" + id
		clipName := "clip_" + id + req.Format.Extension()
		if err := os.WriteFile(filepath.Join(workDir, imageName), image, 0o644); err != nil {
			return nil, fmt.Errorf("stage slide image: %w", err)
		}
		if err := os.WriteFile(filepath.Join(workDir, audioName), audio, 0o644); err != nil {
			return nil, fmt.Errorf("stage slide audio: %w", err)
		}
		args := slideClipArgs(imageName, audioName, clipName, duration, width, height, req.Format)
		if err := a.enc.Run(ctx, workDir, args...); err != nil {
			return nil, fmt.Errorf("render slide %d: %w", i, err)
		}
		clips = append(clips, clipName)
		lastImage = imageName
	}
	if len(clips) == 0 {
		return nil, ErrNothingToRender
	}

	tailName := "clip_tail" + req.Format.Extension()
	if err := a.enc.Run(ctx, workDir, tailClipArgs(lastImage, tailName, width, height, req.Format)...); err != nil {
		return nil, fmt.Errorf("render closing clip: %w", err)
	}
	clips = append(clips, tailName)

	const listName = "concat.txt"
	if err := os.WriteFile(filepath.Join(workDir, listName), concatManifest(clips), 0o644); err != nil {
		return nil, fmt.Errorf("write concat manifest: %w", err)
	}
	outputName := "output" + req.Format.Extension()
	if err := a.enc.Run(ctx, workDir, concatArgs(listName, outputName)...); err != nil {
		return nil, fmt.Errorf("concatenate clips: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(workDir, outputName))
	if err != nil {
		return nil, fmt.Errorf("read rendered video: %w", err)
	}
	a.logger.Info("export rendered",
		logging.Int("clips", len(clips)),
		logging.String("format", string(req.Format)),
		logging.Int("bytes", len(data)))
	return &Result{Data: data, MIMEType: req.Format.MIMEType()}, nil
}

// NormalizeAudio converts a recorded take to the canonical preview form,
// stereo WAV at 48 kHz, so browsers and players agree on playback.
func (a *Assembler) NormalizeAudio(ctx context.Context, blob []byte) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare staging directory: %w", err)
	}
	workDir, err := os.MkdirTemp(a.stagingDir, "normalize-")
	if err != nil {
		return nil, fmt.Errorf("create normalize workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	const (
		inputName  = "input"
		outputName = "preview.wav"
	)
	if err := os.WriteFile(filepath.Join(workDir, inputName), blob, 0o644); err != nil {
		return nil, fmt.Errorf("stage audio input: %w", err)
	}
	if err := a.enc.Run(ctx, workDir, normalizeArgs(inputName, outputName)...); err != nil {
		return nil, fmt.Errorf("normalize audio: %w", err)
	}
	out, err := os.ReadFile(filepath.Join(workDir, outputName))
	if err != nil {
		return nil, fmt.Errorf("read normalized audio: %w", err)
	}
	return out, nil
}

func evenSize(width, height int) (int, int) {
	s := presentation.Size{Width: width, Height: height}.Even()
	return s.Width, s.Height
}
