package assembly

import "testing"

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"mp4", "webm"} {
		f, err := ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", name, err)
		}
		if string(f) != name {
			t.Fatalf("ParseFormat(%q) = %q", name, f)
		}
	}
	if _, err := ParseFormat("mkv"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFormatMIMEAndExtension(t *testing.T) {
	if got := FormatMP4.MIMEType(); got != "video/mp4" {
		t.Fatalf("mp4 MIME = %q", got)
	}
	if got := FormatWebM.MIMEType(); got != "video/webm" {
		t.Fatalf("webm MIME = %q", got)
	}
	if got := FormatMP4.Extension(); got != ".mp4" {
		t.Fatalf("mp4 extension = %q", got)
	}
	if got := FormatWebM.Extension(); got != ".webm" {
		t.Fatalf("webm extension = %q", got)
	}
}
