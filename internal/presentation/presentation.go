package presentation

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Presentation is the aggregate root. ID is assigned by the storage backend
// at creation time and is zero for an unsaved aggregate.
type Presentation struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Slides []Slide `json:"slides"`
}

// Slide belongs to exactly one Presentation. Slice position is display and
// export order.
type Slide struct {
	UID              string  `json:"uid"`
	Title            string  `json:"title"`
	Image            []byte  `json:"-"`
	Audios           []Audio `json:"audios"`
	SelectedAudioUID string  `json:"selectedAudioUid,omitempty"`
}

// Audio is one recorded take for a slide. BlobForPreview holds the
// normalized playback derivation and may be empty.
type Audio struct {
	UID              string `json:"uid"`
	Title            string `json:"title"`
	Blob             []byte `json:"-"`
	BlobForPreview   []byte `json:"-"`
	DurationMillisec int64  `json:"durationMillisec"`
}

// NewSlide builds a slide for an imported image with a fresh uid.
func NewSlide(title string, image []byte) Slide {
	return Slide{
		UID:   uuid.NewString(),
		Title: strings.TrimSpace(title),
		Image: image,
	}
}

// NewSlideFromFile builds a slide titled after the image's base file name.
func NewSlideFromFile(path string, image []byte) Slide {
	return NewSlide(filepath.Base(path), image)
}

// NewAudio builds a recorded take with a fresh uid.
func NewAudio(title string, blob []byte, durationMillisec int64) Audio {
	return Audio{
		UID:              uuid.NewString(),
		Title:            strings.TrimSpace(title),
		Blob:             blob,
		DurationMillisec: durationMillisec,
	}
}

// ExportReady reports whether every slide has at least one recorded take.
// Presentations with no slides are not exportable.
func (p *Presentation) ExportReady() bool {
	if p == nil || len(p.Slides) == 0 {
		return false
	}
	for i := range p.Slides {
		if len(p.Slides[i].Audios) == 0 {
			return false
		}
	}
	return true
}

// Slide returns the slide with the given uid.
func (p *Presentation) Slide(uid string) (*Slide, bool) {
	for i := range p.Slides {
		if p.Slides[i].UID == uid {
			return &p.Slides[i], true
		}
	}
	return nil, false
}

// RemoveSlide drops the slide with the given uid and reports whether it
// existed. Order of the remaining slides is unchanged.
func (p *Presentation) RemoveSlide(uid string) bool {
	for i := range p.Slides {
		if p.Slides[i].UID == uid {
			p.Slides = append(p.Slides[:i], p.Slides[i+1:]...)
			return true
		}
	}
	return false
}

// MoveSlide shifts the slide with the given uid by delta positions, clamping
// at either end of the deck.
func (p *Presentation) MoveSlide(uid string, delta int) error {
	from := -1
	for i := range p.Slides {
		if p.Slides[i].UID == uid {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("no slide with uid %s", uid)
	}
	to := from + delta
	if to < 0 {
		to = 0
	}
	if to > len(p.Slides)-1 {
		to = len(p.Slides) - 1
	}
	if to == from {
		return nil
	}
	slide := p.Slides[from]
	rest := append(p.Slides[:from:from], p.Slides[from+1:]...)
	p.Slides = append(rest[:to:to], append([]Slide{slide}, rest[to:]...)...)
	return nil
}

// Audio returns the take with the given uid.
func (s *Slide) Audio(uid string) (*Audio, bool) {
	for i := range s.Audios {
		if s.Audios[i].UID == uid {
			return &s.Audios[i], true
		}
	}
	return nil, false
}

// AddAudio appends a take. Takes keep recording order.
func (s *Slide) AddAudio(a Audio) {
	s.Audios = append(s.Audios, a)
	if s.SelectedAudioUID == "" {
		s.SelectedAudioUID = a.UID
	}
}

// SelectAudio marks the take used at export time. The uid must reference an
// existing take.
func (s *Slide) SelectAudio(uid string) error {
	if _, ok := s.Audio(uid); !ok {
		return fmt.Errorf("no audio take with uid %s", uid)
	}
	s.SelectedAudioUID = uid
	return nil
}

// SelectedAudio returns the take referenced by SelectedAudioUID.
func (s *Slide) SelectedAudio() (*Audio, bool) {
	if s.SelectedAudioUID == "" {
		return nil, false
	}
	return s.Audio(s.SelectedAudioUID)
}

// RemoveAudio drops a take. When the removed take was selected the selection
// falls back to the first remaining take, or to no selection, so the
// reference never dangles.
func (s *Slide) RemoveAudio(uid string) bool {
	for i := range s.Audios {
		if s.Audios[i].UID == uid {
			s.Audios = append(s.Audios[:i], s.Audios[i+1:]...)
			if s.SelectedAudioUID == uid {
				s.SelectedAudioUID = ""
				if len(s.Audios) > 0 {
					s.SelectedAudioUID = s.Audios[0].UID
				}
			}
			return true
		}
	}
	return false
}

// Validate checks aggregate invariants before persistence: unique non-empty
// uids and resolvable take selections.
func (p *Presentation) Validate() error {
	if p == nil {
		return errors.New("presentation is nil")
	}
	slideUIDs := make(map[string]struct{}, len(p.Slides))
	for i := range p.Slides {
		slide := &p.Slides[i]
		if strings.TrimSpace(slide.UID) == "" {
			return fmt.Errorf("slide %d has empty uid", i)
		}
		if _, dup := slideUIDs[slide.UID]; dup {
			return fmt.Errorf("duplicate slide uid %s", slide.UID)
		}
		slideUIDs[slide.UID] = struct{}{}

		audioUIDs := make(map[string]struct{}, len(slide.Audios))
		for j := range slide.Audios {
			audio := &slide.Audios[j]
			if strings.TrimSpace(audio.UID) == "" {
				return fmt.Errorf("slide %s audio %d has empty uid", slide.UID, j)
			}
			if _, dup := audioUIDs[audio.UID]; dup {
				return fmt.Errorf("duplicate audio uid %s on slide %s", audio.UID, slide.UID)
			}
			audioUIDs[audio.UID] = struct{}{}
		}
		if slide.SelectedAudioUID != "" {
			if _, ok := audioUIDs[slide.SelectedAudioUID]; !ok {
				return fmt.Errorf("slide %s selects unknown audio %s", slide.UID, slide.SelectedAudioUID)
			}
		}
	}
	return nil
}

// Clone returns a deep copy; byte payloads are copied so mutating the clone
// never aliases the original.
func (p *Presentation) Clone() *Presentation {
	if p == nil {
		return nil
	}
	out := &Presentation{
		ID:     p.ID,
		Title:  p.Title,
		Width:  p.Width,
		Height: p.Height,
	}
	if p.Slides != nil {
		out.Slides = make([]Slide, len(p.Slides))
		for i := range p.Slides {
			out.Slides[i] = p.Slides[i].clone()
		}
	}
	return out
}

func (s Slide) clone() Slide {
	out := s
	out.Image = append([]byte(nil), s.Image...)
	if s.Audios != nil {
		out.Audios = make([]Audio, len(s.Audios))
		for i, a := range s.Audios {
			a.Blob = append([]byte(nil), a.Blob...)
			a.BlobForPreview = append([]byte(nil), a.BlobForPreview...)
			out.Audios[i] = a
		}
	}
	return out
}
