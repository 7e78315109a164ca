package assembly

import "fmt"

// Format selects the container and codec profile of an exported video.
type Format string

const (
	// FormatMP4 re-encodes audio to AAC at 44.1 kHz with H.264 video.
	FormatMP4 Format = "mp4"
	// FormatWebM uses VP8 video and copies the source audio stream.
	FormatWebM Format = "webm"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMP4, FormatWebM:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected mp4 or webm)", s)
	}
}

// MIMEType returns the content type of the exported container.
func (f Format) MIMEType() string {
	if f == FormatWebM {
		return "video/webm"
	}
	return "video/mp4"
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	if f == FormatWebM {
		return ".webm"
	}
	return ".mp4"
}
