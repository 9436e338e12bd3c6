package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum length for URL paths in logs.
	MaxPathLength = 500
	// MaxErrorMessageLength is the maximum length for error messages in logs.
	MaxErrorMessageLength = 1000
)

// SanitizePath sanitizes a URL path for safe logging: repairs UTF-8,
// strips control characters, and truncates.
func SanitizePath(path string) string {
	return sanitize(path, MaxPathLength)
}

// SanitizeError sanitizes an error message for safe logging.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return sanitize(err.Error(), MaxErrorMessageLength)
}

func sanitize(s string, maxLen int) string {
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

	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
