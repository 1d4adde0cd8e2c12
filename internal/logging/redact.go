package logging

import (
	"strings"
	"unicode/utf8"
)

// MaxValueLen is the longest string attribute the text handler prints in
// full. Longer values, typically stored JSON sections, are cut.
const MaxValueLen = 120

var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apikey",
	"receipt",
	"purchase",
}

// ShouldMask reports whether an attribute key names a secret.
func ShouldMask(key string) bool {
	lower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// MaskValue hides all but the last four characters of s.
func MaskValue(s string) string {
	if utf8.RuneCountInString(s) <= 4 {
		return "****"
	}
	r := []rune(s)
	return "****" + string(r[len(r)-4:])
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
