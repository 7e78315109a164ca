package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"presenvid/internal/presentation"
)

// PNG returns an encoded PNG image with the given natural dimensions.
func PNG(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x42, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WAV returns a minimal RIFF/WAVE payload carrying n bytes of PCM data.
// The content is not meaningful audio; it only has to survive byte-for-byte
// round-trips through storage and archives.
func WAV(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // mono
	binary.Write(&buf, binary.LittleEndian, uint32(8000))  // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(8000))  // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(1))     // block align
	binary.Write(&buf, binary.LittleEndian, uint16(8))     // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	return buf.Bytes()
}

// NewPresentation builds an unsaved presentation with the requested number
// of slides, each carrying one selected audio take.
func NewPresentation(t testing.TB, title string, slideCount int) *presentation.Presentation {
	t.Helper()

	p := &presentation.Presentation{Title: title}
	for i := 0; i < slideCount; i++ {
		slide := presentation.NewSlide("slide.png", PNG(t, 64, 48))
		audio := presentation.NewAudio("Take 1", WAV(128+i), int64(1000*(i+1)))
		slide.AddAudio(audio)
		p.Slides = append(p.Slides, slide)
	}
	if err := p.RefreshSize(); err != nil {
		t.Fatalf("refresh size: %v", err)
	}
	return p
}
