package youtube

import (
	"errors"
	"testing"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tc := range tests {
		got, err := ParseVideoID(tc.in)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: id = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseVideoIDRejectsNonVideos(t *testing.T) {
	bad := []string{
		"",
		"not a url",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/",
		"https://www.youtube.com/watch?v=tooshort",
		"https://youtu.be/",
	}
	for _, in := range bad {
		if _, err := ParseVideoID(in); !errors.Is(err, ErrNotAVideo) {
			t.Errorf("%q: expected ErrNotAVideo, got %v", in, err)
		}
	}
}

func TestParseTimedText(t *testing.T) {
	xmlData := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">Hello there</text>
  <text start="2.5" dur="3.0">this is &amp;quot;captioned&amp;quot;</text>
  <text start="5.5" dur="1.0">   </text>
  <text start="6.5" dur="2.0">goodbye</text>
</transcript>`)

	got, err := parseTimedText(xmlData)
	if err != nil {
		t.Fatalf("parseTimedText failed: %v", err)
	}
	want := `Hello there this is "captioned" goodbye`
	if got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestParseTimedTextInvalid(t *testing.T) {
	if _, err := parseTimedText([]byte("not xml <<")); err == nil {
		t.Error("expected parse error")
	}
}
