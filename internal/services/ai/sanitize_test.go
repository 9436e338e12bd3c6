package ai

import (
	"strings"
	"testing"
)

func TestSanitizePreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text passes", input: "hello 世界", want: "hello 世界"},
		{name: "control characters stripped", input: "a\x00b\x1bc", want: "abc"},
		{name: "newline and tab kept", input: "a\n\tb", want: "a\n\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := sanitizePreview(tt.input); got != tt.want {
				t.Errorf("sanitizePreview(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePreviewTruncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", MaxPreviewLength+50)
	got := sanitizePreview(long)
	if len(got) != MaxPreviewLength+3 {
		t.Errorf("len = %d, want %d", len(got), MaxPreviewLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated preview does not end with ellipsis")
	}
}
