// Package archive reads and writes portable presentation bundles. A bundle
// is a zip file whose entries are addressed by element uid: a JSON manifest
// carries the structure and metadata while the binary payloads (slide
// images, audio takes, preview renditions) live in sibling entries named
// after their uid.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"presenvid/internal/presentation"
)

// ErrInvalidArchive reports a bundle that is not a zip file, lacks its
// manifest, or references payload entries that are absent.
var ErrInvalidArchive = errors.New("invalid archive format")

const (
	presentationManifest = "presentation.json"
	slideManifest        = "slide.json"
	previewSuffix        = ".preview"
)

// WritePresentation renders the whole presentation as a bundle.
func WritePresentation(w io.Writer, p *presentation.Presentation) error {
	zw := zip.NewWriter(w)
	if err := writeManifest(zw, presentationManifest, p); err != nil {
		return err
	}
	for i := range p.Slides {
		if err := writeSlidePayloads(zw, &p.Slides[i]); err != nil {
			return err
		}
	}
	return zw.Close()
}

// WriteSlide renders a single slide as a bundle, for moving one slide
// between presentations.
func WriteSlide(w io.Writer, s *presentation.Slide) error {
	zw := zip.NewWriter(w)
	if err := writeManifest(zw, slideManifest, s); err != nil {
		return err
	}
	if err := writeSlidePayloads(zw, s); err != nil {
		return err
	}
	return zw.Close()
}

// ReadPresentation parses a presentation bundle. The returned presentation
// has no storage identity; callers assign one when importing.
func ReadPresentation(data []byte) (*presentation.Presentation, error) {
	entries, err := readEntries(data)
	if err != nil {
		return nil, err
	}
	manifest, ok := entries[presentationManifest]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidArchive, presentationManifest)
	}
	var p presentation.Presentation
	if err := json.Unmarshal(manifest, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	p.ID = 0
	for i := range p.Slides {
		if err := attachSlidePayloads(entries, &p.Slides[i]); err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	return &p, nil
}

// ReadSlide parses a single-slide bundle.
func ReadSlide(data []byte) (*presentation.Slide, error) {
	entries, err := readEntries(data)
	if err != nil {
		return nil, err
	}
	manifest, ok := entries[slideManifest]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidArchive, slideManifest)
	}
	var s presentation.Slide
	if err := json.Unmarshal(manifest, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if err := attachSlidePayloads(entries, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func writeManifest(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create manifest entry: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func writeSlidePayloads(zw *zip.Writer, s *presentation.Slide) error {
	if err := writeEntry(zw, s.UID, s.Image); err != nil {
		return err
	}
	for _, a := range s.Audios {
		if err := writeEntry(zw, a.UID, a.Blob); err != nil {
			return err
		}
		if len(a.BlobForPreview) > 0 {
			if err := writeEntry(zw, a.UID+previewSuffix, a.BlobForPreview); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}

func readEntries(data []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrInvalidArchive, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidArchive, f.Name, err)
		}
		entries[f.Name] = content
	}
	return entries, nil
}

func attachSlidePayloads(entries map[string][]byte, s *presentation.Slide) error {
	image, ok := entries[s.UID]
	if !ok {
		return fmt.Errorf("%w: missing image for slide %s", ErrInvalidArchive, s.UID)
	}
	s.Image = image
	for i := range s.Audios {
		a := &s.Audios[i]
		blob, ok := entries[a.UID]
		if !ok {
			return fmt.Errorf("%w: missing audio %s", ErrInvalidArchive, a.UID)
		}
		a.Blob = blob
		if preview, ok := entries[a.UID+previewSuffix]; ok {
			a.BlobForPreview = preview
		}
	}
	return nil
}
