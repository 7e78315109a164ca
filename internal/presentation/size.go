package presentation

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Size is a target output frame size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Even rounds odd dimensions up by one. The encoder's chroma subsampling
// requires even output dimensions.
func (s Size) Even() Size {
	if s.Width%2 != 0 {
		s.Width++
	}
	if s.Height%2 != 0 {
		s.Height++
	}
	return s
}

// ImageSize decodes the natural pixel dimensions of an encoded image payload.
func ImageSize(data []byte) (Size, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Size{}, fmt.Errorf("decode image size: %w", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// RefreshSize derives Width and Height as the maximum natural size over all
// slide images. Slides whose image cannot be decoded are skipped; the
// resulting size keeps whatever the decodable slides produce.
func (p *Presentation) RefreshSize() error {
	max := Size{}
	var firstErr error
	for i := range p.Slides {
		size, err := ImageSize(p.Slides[i].Image)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("slide %s: %w", p.Slides[i].UID, err)
			}
			continue
		}
		if size.Width > max.Width {
			max = size
		}
	}
	if max.Width == 0 && firstErr != nil {
		return firstErr
	}
	p.Width = max.Width
	p.Height = max.Height
	return nil
}

// Size returns the presentation's target frame size.
func (p *Presentation) Size() Size {
	return Size{Width: p.Width, Height: p.Height}
}
