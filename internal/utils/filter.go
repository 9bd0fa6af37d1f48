package utils

import (
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r can appear inside an indexed word. Letters,
// combining marks and the apostrophe used in some orthographies qualify.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) || r == '\'' || r == '’'
}

// ContainsNumbers checks if a string contains any numeric digits
func ContainsNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks for one character repeated 3+ times ("aaa", "www").
func IsRepetitive(s string) bool {
	if utf8.RuneCountInString(s) <= 2 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

// IsValidToken decides whether a token from a document is indexed as a word.
// Tokens shorter than minLen runes, tokens with digits and runs of one repeated
// character are dropped.
func IsValidToken(s string, minLen int) bool {
	if s == "" || utf8.RuneCountInString(s) < minLen {
		return false
	}
	if ContainsNumbers(s) {
		return false
	}
	return !IsRepetitive(s)
}
