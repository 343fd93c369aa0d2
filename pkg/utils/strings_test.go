package utils

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"truncated", "hello world", 5, "hello..."},
		{"zero max", "hello", 0, ""},
		{"multibyte runes", "héllo wörld", 5, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestSplitText(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := SplitText("short", 100, 20)
		if len(chunks) != 1 || chunks[0] != "short" {
			t.Errorf("chunks = %v, want the input unchanged", chunks)
		}
	})

	t.Run("chunks overlap and cover the input", func(t *testing.T) {
		text := strings.Repeat("abcdefghij", 50) // 500 chars
		chunks := SplitText(text, 100, 20)

		if len(chunks) < 5 {
			t.Fatalf("chunks = %d, want at least 5 for 500 chars at step 80", len(chunks))
		}
		for i, chunk := range chunks[:len(chunks)-1] {
			if len(chunk) != 100 {
				t.Errorf("chunks[%d] length = %d, want 100", i, len(chunk))
			}
		}
		// Consecutive chunks share the overlap region
		if chunks[0][80:] != chunks[1][:20] {
			t.Error("chunks[0] and chunks[1] do not share the 20-char overlap")
		}
		// Reassembling without overlaps reproduces the input
		var rebuilt strings.Builder
		for i, chunk := range chunks {
			if i == 0 {
				rebuilt.WriteString(chunk)
				continue
			}
			rebuilt.WriteString(chunk[20:])
		}
		if rebuilt.String() != text {
			t.Error("chunks do not cover the original text")
		}
	})

	t.Run("overlap larger than chunk size falls back", func(t *testing.T) {
		text := strings.Repeat("x", 250)
		chunks := SplitText(text, 100, 150)
		if len(chunks) != 3 {
			t.Errorf("chunks = %d, want 3 non-overlapping chunks", len(chunks))
		}
	})
}
