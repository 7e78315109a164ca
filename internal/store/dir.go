package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"presenvid/internal/config"
	"presenvid/internal/fileutil"
	"presenvid/internal/presentation"
)

// On-disk layout, one directory per presentation:
//
//	presentation_<id>/
//	  presentation.json
//	  images/
//	    image_<slide uid>
//	  audios/
//	    audio_<audio uid>.wav
//	    audio_<audio uid>.preview.wav
const (
	presentationDirPrefix = "presentation_"
	manifestFile          = "presentation.json"
	imagesDir             = "images"
	audiosDir             = "audios"
	imageFilePrefix       = "image_"
	audioFilePrefix       = "audio_"
	audioFileSuffix       = ".wav"
	previewFileSuffix     = ".preview.wav"
	lockFileName          = ".presenvid.lock"
)

// DirRepository lays presentations out as user-inspectable files under the
// library directory. Multi-file writes are not transactional; an exclusive
// lock on the library root keeps concurrent writers out, and each individual
// file lands via temp-file rename.
type DirRepository struct {
	root string
	lock *flock.Flock
}

// OpenDirectory opens the directory-tree backend rooted at the configured
// library directory and takes the library lock.
func OpenDirectory(cfg *config.Config) (*DirRepository, error) {
	root := strings.TrimSpace(cfg.Paths.LibraryDir)
	if root == "" {
		return nil, fmt.Errorf("%w: library directory not configured", ErrUnavailable)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create library directory: %w", ErrUnavailable, err)
	}

	lock := flock.New(filepath.Join(root, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: acquire library lock: %w", ErrUnavailable, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: library %s is in use by another process", ErrUnavailable, root)
	}

	return &DirRepository{root: root, lock: lock}, nil
}

// Close releases the library lock.
func (r *DirRepository) Close() error {
	if r == nil || r.lock == nil {
		return nil
	}
	return r.lock.Unlock()
}

// Root returns the library directory backing the repository.
func (r *DirRepository) Root() string {
	return r.root
}

// List scans the library for presentation directories and reads each
// manifest for its title. Results are sorted by id.
func (r *DirRepository) List(ctx context.Context) ([]ListItem, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("%w: read library directory: %w", ErrUnavailable, err)
	}

	var items []ListItem
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), presentationDirPrefix) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(entry.Name(), presentationDirPrefix), 10, 64)
		if err != nil {
			continue
		}
		manifest, err := r.readManifest(id)
		if err != nil {
			continue
		}
		items = append(items, ListItem{ID: id, Title: manifest.Title})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Get reads the manifest and attaches every binary payload.
func (r *DirRepository) Get(ctx context.Context, id int64) (*presentation.Presentation, error) {
	p, err := r.readManifest(id)
	if err != nil {
		return nil, err
	}

	dir := r.presentationDir(id)
	for i := range p.Slides {
		slide := &p.Slides[i]
		image, err := os.ReadFile(filepath.Join(dir, imagesDir, imageFilePrefix+slide.UID))
		if err != nil {
			return nil, fmt.Errorf("load image for slide %s: %w", slide.UID, err)
		}
		slide.Image = image
		for j := range slide.Audios {
			audio := &slide.Audios[j]
			blob, err := os.ReadFile(filepath.Join(dir, audiosDir, audioFilePrefix+audio.UID+audioFileSuffix))
			if err != nil {
				return nil, fmt.Errorf("load audio %s: %w", audio.UID, err)
			}
			audio.Blob = blob
			preview, err := os.ReadFile(filepath.Join(dir, audiosDir, audioFilePrefix+audio.UID+previewFileSuffix))
			if err == nil {
				audio.BlobForPreview = preview
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load audio preview %s: %w", audio.UID, err)
			}
		}
	}
	return p, nil
}

// Create assigns a creation-time id and writes the aggregate. No central
// sequence exists, so the id is the wall clock in milliseconds, bumped past
// any collision.
func (r *DirRepository) Create(ctx context.Context, p *presentation.Presentation) (*presentation.Presentation, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate presentation: %w", err)
	}

	id := time.Now().UnixMilli()
	for {
		if _, err := os.Stat(r.presentationDir(id)); errors.Is(err, fs.ErrNotExist) {
			break
		}
		id++
	}

	created := p.Clone()
	created.ID = id
	if err := r.saveData(created, true); err != nil {
		return nil, err
	}
	return created, nil
}

// Save overwrites an existing aggregate. Files belonging to entities no
// longer present are pruned so no orphaned binaries accumulate.
func (r *DirRepository) Save(ctx context.Context, p *presentation.Presentation) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate presentation: %w", err)
	}
	if _, err := os.Stat(r.presentationDir(p.ID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: id %d", ErrNotFound, p.ID)
		}
		return fmt.Errorf("stat presentation directory: %w", err)
	}
	return r.saveData(p, false)
}

// Delete removes the presentation directory recursively. Absent ids are not
// an error.
func (r *DirRepository) Delete(ctx context.Context, id int64) error {
	if err := os.RemoveAll(r.presentationDir(id)); err != nil {
		return fmt.Errorf("delete presentation %d: %w", id, err)
	}
	return nil
}

func (r *DirRepository) presentationDir(id int64) string {
	return filepath.Join(r.root, presentationDirPrefix+strconv.FormatInt(id, 10))
}

func (r *DirRepository) readManifest(id int64) (*presentation.Presentation, error) {
	data, err := os.ReadFile(filepath.Join(r.presentationDir(id), manifestFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var p presentation.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse manifest for %d: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

func (r *DirRepository) saveData(p *presentation.Presentation, isCreate bool) error {
	dir := r.presentationDir(p.ID)
	imgDir := filepath.Join(dir, imagesDir)
	audDir := filepath.Join(dir, audiosDir)
	if isCreate {
		for _, d := range []string{dir, imgDir, audDir} {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return fmt.Errorf("create directory %q: %w", d, err)
			}
		}
	}

	manifest, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, manifestFile), manifest, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	imageNames := make(map[string]struct{}, len(p.Slides))
	audioNames := make(map[string]struct{})
	for i := range p.Slides {
		slide := &p.Slides[i]
		imageName := imageFilePrefix + slide.UID
		if err := fileutil.WriteFileAtomic(filepath.Join(imgDir, imageName), slide.Image, 0o644); err != nil {
			return fmt.Errorf("write image for slide %s: %w", slide.UID, err)
		}
		imageNames[imageName] = struct{}{}

		for j := range slide.Audios {
			audio := &slide.Audios[j]
			audioName := audioFilePrefix + audio.UID + audioFileSuffix
			if err := fileutil.WriteFileAtomic(filepath.Join(audDir, audioName), audio.Blob, 0o644); err != nil {
				return fmt.Errorf("write audio %s: %w", audio.UID, err)
			}
			audioNames[audioName] = struct{}{}
			if len(audio.BlobForPreview) > 0 {
				previewName := audioFilePrefix + audio.UID + previewFileSuffix
				if err := fileutil.WriteFileAtomic(filepath.Join(audDir, previewName), audio.BlobForPreview, 0o644); err != nil {
					return fmt.Errorf("write audio preview %s: %w", audio.UID, err)
				}
				audioNames[previewName] = struct{}{}
			}
		}
	}

	if err := pruneDir(imgDir, imageNames); err != nil {
		return err
	}
	return pruneDir(audDir, audioNames)
}

// pruneDir removes files that are not part of the current entity-id set, so
// removed slides and takes do not leave orphaned binaries behind.
func pruneDir(dir string, keep map[string]struct{}) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := keep[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("prune %s: %w", entry.Name(), err)
		}
	}
	return nil
}

var _ Repository = (*DirRepository)(nil)
