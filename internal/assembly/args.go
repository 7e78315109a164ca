package assembly

import (
	"fmt"
	"strings"
)

const frameRate = 30

// tailDurationMillis is how long the final slide stays on screen after its
// audio finishes.
const tailDurationMillis = 5000

func seconds(millis int64) string {
	return fmt.Sprintf("%.3f", float64(millis)/1000.0)
}

func scaleFilter(width, height int) string {
	return fmt.Sprintf("scale=%d:%d", width, height)
}

// slideClipArgs builds the invocation that renders one slide clip: the image
// looped for the take's duration with the take as the audio track. All paths
// are relative to the export working directory.
func slideClipArgs(imageName, audioName, clipName string, durationMillis int64, width, height int, format Format) []string {
	args := []string{
		"-y",
		"-loop", "1",
		"-i", imageName,
		"-i", audioName,
		"-t", seconds(durationMillis),
		"-r", fmt.Sprint(frameRate),
		"-vf", scaleFilter(width, height),
	}
	switch format {
	case FormatWebM:
		args = append(args, "-c:v", "libvpx", "-c:a", "copy")
	default:
		args = append(args,
			"-pix_fmt", "yuv420p",
			"-c:v", "libx264",
			"-tune", "stillimage",
			"-c:a", "aac",
			"-ar", "44100",
		)
	}
	return append(args, "-shortest", clipName)
}

// tailClipArgs builds the silent clip appended after the last slide.
func tailClipArgs(imageName, clipName string, width, height int, format Format) []string {
	args := []string{
		"-y",
		"-loop", "1",
		"-i", imageName,
		"-t", seconds(tailDurationMillis),
		"-r", fmt.Sprint(frameRate),
		"-vf", scaleFilter(width, height),
	}
	switch format {
	case FormatWebM:
		args = append(args, "-c:v", "libvpx")
	default:
		args = append(args, "-pix_fmt", "yuv420p", "-c:v", "libx264")
	}
	return append(args, "-an", clipName)
}

// concatArgs stitches the rendered clips with stream copy using the concat
// demuxer manifest at listName.
func concatArgs(listName, outputName string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listName,
		"-c", "copy",
		outputName,
	}
}

// concatManifest renders the concat demuxer list file, one clip per line.
func concatManifest(clipNames []string) []byte {
	var b strings.Builder
	for _, name := range clipNames {
		fmt.Fprintf(&b, "file '%s'\n", name)
	}
	return []byte(b.String())
}

// normalizeArgs converts an arbitrary audio recording to the canonical
// preview form: stereo WAV at 48 kHz.
func normalizeArgs(inputName, outputName string) []string {
	return []string{
		"-y",
		"-i", inputName,
		"-ac", "2",
		"-ar", "48000",
		outputName,
	}
}
