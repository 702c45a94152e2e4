package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanUTF8 drops invalid UTF-8 sequences and NUL bytes, which Postgres rejects in text columns.
// The boolean reports whether anything was removed.
func CleanUTF8(input string) (string, bool) {
	if !strings.Contains(input, "\x00") && utf8.ValidString(input) {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}
