package ai

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPreviewLength caps prompt/response previews in structured logs.
const MaxPreviewLength = 200

// sanitizePreview strips control characters, repairs UTF-8, and truncates,
// so prompts and responses can be logged without log injection.
func sanitizePreview(s string) string {
	if s == "" {
		return ""
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()
	if len(s) > MaxPreviewLength {
		s = s[:MaxPreviewLength] + "..."
	}
	return s
}
