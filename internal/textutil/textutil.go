package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Hash computes a SHA-256 hex hash over parts. Parts are NUL separated so
// ("ab", "c") and ("a", "bc") hash differently.
func Hash(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}

// SafeName reduces a client supplied file name to its base name and drops
// anything that is not a letter, digit, dot, dash, underscore or space.
// It returns "" when nothing usable is left.
func SafeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case r == '.', r == '-', r == '_', r == ' ':
			return r
		}
		return -1
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if strings.Trim(cleaned, ".") == "" {
		return ""
	}
	return cleaned
}
