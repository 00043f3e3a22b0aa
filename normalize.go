package koref

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey returns the canonical lookup key for a form or lemma:
// NFC composed, lower-cased with Polish rules and trimmed, so that
// "Ż" and "z" + U+0307 give the same key.
func NormalizeKey(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	// A Caser keeps state, so each call gets its own.
	return cases.Lower(language.Polish).String(s)
}

// HasAlnum reports whether s contains a letter or a digit.
func HasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
