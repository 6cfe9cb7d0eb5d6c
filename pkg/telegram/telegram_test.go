package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitMessageShortTextUntouched(t *testing.T) {
	chunks := splitMessage("hello", maxMessageLen)
	if len(chunks) != 1 || chunks[0] != "hello" {
		t.Fatalf("got %v", chunks)
	}
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	text := strings.Repeat("a", 50) + "\n" + strings.Repeat("b", 50)
	chunks := splitMessage(text, 80)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %v", len(chunks), chunks)
	}
	if !strings.HasSuffix(chunks[0], "\n") {
		t.Fatalf("first chunk should break at the newline: %q", chunks[0])
	}
	if chunks[1] != strings.Repeat("b", 50) {
		t.Fatalf("second chunk = %q", chunks[1])
	}
}

func TestSplitMessageHardCut(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := splitMessage(text, 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	var total int
	for _, c := range chunks {
		if len(c) > 100 {
			t.Fatalf("chunk exceeds limit: %d", len(c))
		}
		total += len(c)
	}
	if total != 250 {
		t.Fatalf("reassembled length %d, want 250", total)
	}
}

func TestSplitMessageMultiByteRunes(t *testing.T) {
	// 250 three-byte runes: cuts must land on rune boundaries and the
	// limit counts characters, not bytes.
	text := strings.Repeat("€", 250)
	chunks := splitMessage(text, 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	var rebuilt strings.Builder
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Fatalf("chunk %d is not valid UTF-8", i)
		}
		if n := utf8.RuneCountInString(c); n > 100 {
			t.Fatalf("chunk %d has %d characters, limit 100", i, n)
		}
		rebuilt.WriteString(c)
	}
	if rebuilt.String() != text {
		t.Fatal("chunks do not reassemble to the original text")
	}
}
