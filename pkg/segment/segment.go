/*
Package segment turns words into the ordered segment sequences stored in a
compiled corpus. Segmenters never append the trie's terminal sentinel.
*/
package segment

import (
	"errors"
	"fmt"
)

// ErrSegmentation is wrapped by every segmenter when a word cannot be split.
var ErrSegmentation = errors.New("segmentation failed")

// Segmenter splits a word into segments, or returns an error wrapping
// ErrSegmentation.
type Segmenter interface {
	Segment(word string) ([]string, error)
}

// Decomposer is implemented by segmenters that can list every analysis of a
// word, best first.
type Decomposer interface {
	Decompositions(word string) ([][]string, error)
}

// Char segments a word into its characters.
type Char struct{}

// Segment returns one segment per rune.
func (Char) Segment(word string) ([]string, error) {
	if word == "" {
		return nil, fmt.Errorf("%w: empty word", ErrSegmentation)
	}
	segments := make([]string, 0, len(word))
	for _, r := range word {
		segments = append(segments, string(r))
	}
	return segments, nil
}

// Chars is Char.Segment without the error, for callers building queries.
func Chars(s string) []string {
	segments := make([]string, 0, len(s))
	for _, r := range s {
		segments = append(segments, string(r))
	}
	return segments
}

// Func adapts a function to the Segmenter interface.
type Func func(word string) ([]string, error)

func (f Func) Segment(word string) ([]string, error) {
	return f(word)
}

// Name identifies a segmenter in configuration and persisted corpora.
func Name(s Segmenter) string {
	switch s.(type) {
	case Char, *Char:
		return "char"
	case *Lexicon:
		return "lexicon"
	default:
		return "custom"
	}
}
