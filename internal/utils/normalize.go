package utils

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalizer brings words to the form they are indexed under: NFC composed
// and case folded. With a language tag, words are lowercased with that
// language's rules instead of plain folding.
type Normalizer struct {
	lang language.Tag
	fold bool
}

// NewNormalizer builds a normalizer for a BCP 47 tag, or for no particular
// language when tag is empty.
func NewNormalizer(tag string) (*Normalizer, error) {
	if tag == "" {
		return &Normalizer{fold: true}, nil
	}
	lang, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid language tag %q: %w", tag, err)
	}
	return &Normalizer{lang: lang}, nil
}

// Normalize trims, composes and case folds word. Safe for concurrent use.
func (n *Normalizer) Normalize(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	// a Caser is stateful, so each call gets its own
	caser := cases.Fold()
	if !n.fold {
		caser = cases.Lower(n.lang)
	}
	return norm.NFC.String(caser.String(word))
}
