// Package textfmt implements the local deterministic document formatter.
package textfmt

import "regexp"

// The two active spacing rules: an ASCII space is inserted between any
// adjacent CJK character and Latin letter/digit, in both directions.
// Digit/letter boundary spacing and quote unification are declared
// behavior but intentionally inactive.
var (
	cjkThenLatin = regexp.MustCompile(`([\x{4e00}-\x{9fa5}])([a-zA-Z0-9])`)
	latinThenCJK = regexp.MustCompile(`([a-zA-Z0-9])([\x{4e00}-\x{9fa5}])`)
)

// FormatText inserts a space at every CJK/Latin boundary. Idempotent.
func FormatText(text string) string {
	formatted := cjkThenLatin.ReplaceAllString(text, "$1 $2")
	formatted = latinThenCJK.ReplaceAllString(formatted, "$1 $2")
	return formatted
}
