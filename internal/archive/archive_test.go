package archive_test

import (
	"bytes"
	"errors"
	"testing"

	"presenvid/internal/archive"
	"presenvid/internal/presentation"
	"presenvid/internal/testsupport"
)

func TestPresentationRoundTrip(t *testing.T) {
	original := testsupport.NewPresentation(t, "conference talk", 3)
	original.Slides[1].Audios[0].BlobForPreview = []byte("preview payload")

	var buf bytes.Buffer
	if err := archive.WritePresentation(&buf, original); err != nil {
		t.Fatalf("WritePresentation failed: %v", err)
	}
	restored, err := archive.ReadPresentation(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadPresentation failed: %v", err)
	}

	if restored.ID != 0 {
		t.Fatalf("imported presentation should carry no identity, got %d", restored.ID)
	}
	if restored.Title != original.Title {
		t.Fatalf("title mismatch: %q != %q", restored.Title, original.Title)
	}
	if restored.Width != original.Width || restored.Height != original.Height {
		t.Fatalf("size mismatch: %dx%d", restored.Width, restored.Height)
	}
	if len(restored.Slides) != len(original.Slides) {
		t.Fatalf("slide count mismatch: %d", len(restored.Slides))
	}
	for i, slide := range restored.Slides {
		want := original.Slides[i]
		if slide.UID != want.UID || slide.Title != want.Title {
			t.Fatalf("slide %d metadata mismatch", i)
		}
		if !bytes.Equal(slide.Image, want.Image) {
			t.Fatalf("slide %d image mismatch", i)
		}
		if slide.SelectedAudioUID != want.SelectedAudioUID {
			t.Fatalf("slide %d selection mismatch", i)
		}
		for j, audio := range slide.Audios {
			wantAudio := want.Audios[j]
			if audio.UID != wantAudio.UID || audio.DurationMillisec != wantAudio.DurationMillisec {
				t.Fatalf("slide %d audio %d metadata mismatch", i, j)
			}
			if !bytes.Equal(audio.Blob, wantAudio.Blob) {
				t.Fatalf("slide %d audio %d blob mismatch", i, j)
			}
			if !bytes.Equal(audio.BlobForPreview, wantAudio.BlobForPreview) {
				t.Fatalf("slide %d audio %d preview mismatch", i, j)
			}
		}
	}
}

func TestSlideRoundTrip(t *testing.T) {
	p := testsupport.NewPresentation(t, "source deck", 1)
	slide := &p.Slides[0]

	var buf bytes.Buffer
	if err := archive.WriteSlide(&buf, slide); err != nil {
		t.Fatalf("WriteSlide failed: %v", err)
	}
	restored, err := archive.ReadSlide(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadSlide failed: %v", err)
	}
	if restored.UID != slide.UID {
		t.Fatalf("uid mismatch: %q", restored.UID)
	}
	if !bytes.Equal(restored.Image, slide.Image) {
		t.Fatal("image mismatch")
	}
	if len(restored.Audios) != len(slide.Audios) {
		t.Fatalf("audio count mismatch: %d", len(restored.Audios))
	}
	if !bytes.Equal(restored.Audios[0].Blob, slide.Audios[0].Blob) {
		t.Fatal("audio blob mismatch")
	}
}

func TestReadRejectsNonZipData(t *testing.T) {
	_, err := archive.ReadPresentation([]byte("definitely not a zip file"))
	if !errors.Is(err, archive.ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got %v", err)
	}
}

func TestReadRejectsMissingManifest(t *testing.T) {
	p := testsupport.NewPresentation(t, "deck", 1)
	var buf bytes.Buffer
	if err := archive.WriteSlide(&buf, &p.Slides[0]); err != nil {
		t.Fatalf("WriteSlide failed: %v", err)
	}
	// A slide bundle carries slide.json, not presentation.json.
	_, err := archive.ReadPresentation(buf.Bytes())
	if !errors.Is(err, archive.ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got %v", err)
	}
}

func TestReadRejectsMissingPayload(t *testing.T) {
	p := &presentation.Presentation{
		Title: "deck", Width: 640, Height: 480,
		Slides: []presentation.Slide{{UID: "slide-1", Title: "only"}},
	}
	var buf bytes.Buffer
	if err := archive.WritePresentation(&buf, p); err != nil {
		t.Fatalf("WritePresentation failed: %v", err)
	}
	raw := buf.Bytes()
	// Rewrite the bundle without the slide's payload entry.
	stripped := testsupport.StripZipEntry(t, raw, "slide-1")
	_, err := archive.ReadPresentation(stripped)
	if !errors.Is(err, archive.ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got %v", err)
	}
}
