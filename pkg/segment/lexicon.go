package segment

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vcaesar/cedar"
)

// DefaultMaxDecompositions bounds how many analyses Decompositions collects
// before ranking them.
const DefaultMaxDecompositions = 256

// Lexicon is a morpheme segmenter. It knows a set of morpheme surface forms,
// each mapped to one or more morpheme IDs, and analyses a word as every
// sequence of known surfaces that covers it exactly.
type Lexicon struct {
	trie    *cedar.Cedar
	entries [][]string
	morphs  int

	// MaxDecompositions caps the analyses collected per word.
	MaxDecompositions int
}

// NewLexicon returns an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		trie:              cedar.New(),
		MaxDecompositions: DefaultMaxDecompositions,
	}
}

// AddMorpheme registers id as a reading of surface. Adding the same pair twice
// is a no-op.
func (l *Lexicon) AddMorpheme(surface, id string) error {
	if surface == "" || id == "" {
		return fmt.Errorf("morpheme surface and id must not be empty (surface=%q id=%q)", surface, id)
	}
	key := []byte(surface)
	if idx, err := l.trie.Get(key); err == nil {
		for _, existing := range l.entries[idx] {
			if existing == id {
				return nil
			}
		}
		l.entries[idx] = append(l.entries[idx], id)
		l.morphs++
		return nil
	}
	if err := l.trie.Insert(key, len(l.entries)); err != nil {
		return fmt.Errorf("failed to insert morpheme %q: %w", surface, err)
	}
	l.entries = append(l.entries, []string{id})
	l.morphs++
	return nil
}

// Surfaces is the number of distinct surface forms.
func (l *Lexicon) Surfaces() int {
	return len(l.entries)
}

// Morphemes is the number of distinct surface/id pairs.
func (l *Lexicon) Morphemes() int {
	return l.morphs
}

// Segment returns the best decomposition of word.
func (l *Lexicon) Segment(word string) ([]string, error) {
	decomps, err := l.Decompositions(word)
	if err != nil {
		return nil, err
	}
	return decomps[0], nil
}

// Decompositions lists the analyses of word ordered by fewest morphemes, then
// by their joined IDs. A word with no analysis is a segmentation failure.
func (l *Lexicon) Decompositions(word string) ([][]string, error) {
	if word == "" {
		return nil, fmt.Errorf("%w: empty word", ErrSegmentation)
	}

	// reach[i] is true when word[i:] can be covered by known surfaces.
	matches := make(map[int][]surfaceMatch, len(word))
	reach := make([]bool, len(word)+1)
	reach[len(word)] = true
	for pos := len(word) - 1; pos >= 0; pos-- {
		if !utf8.RuneStart(word[pos]) {
			continue
		}
		for _, m := range l.prefixMatches(word, pos) {
			if reach[m.end] {
				matches[pos] = append(matches[pos], m)
				reach[pos] = true
			}
		}
	}
	if !reach[0] {
		return nil, fmt.Errorf("%w: no analysis for %q", ErrSegmentation, word)
	}

	limit := l.MaxDecompositions
	if limit <= 0 {
		limit = DefaultMaxDecompositions
	}
	var decomps [][]string
	var walk func(pos int, acc []string)
	walk = func(pos int, acc []string) {
		if len(decomps) >= limit {
			return
		}
		if pos == len(word) {
			decomps = append(decomps, append([]string(nil), acc...))
			return
		}
		for _, m := range matches[pos] {
			for _, id := range l.entries[m.entry] {
				walk(m.end, append(acc, id))
			}
		}
	}
	walk(0, nil)

	sort.SliceStable(decomps, func(i, j int) bool {
		if len(decomps[i]) != len(decomps[j]) {
			return len(decomps[i]) < len(decomps[j])
		}
		return strings.Join(decomps[i], " ") < strings.Join(decomps[j], " ")
	})
	return decomps, nil
}

type surfaceMatch struct {
	end   int
	entry int
}

// prefixMatches walks the double-array trie one rune at a time from start
// and reports every known surface that begins there.
func (l *Lexicon) prefixMatches(word string, start int) []surfaceMatch {
	var out []surfaceMatch
	id := 0
	for pos := start; pos < len(word); {
		_, size := utf8.DecodeRuneInString(word[pos:])
		next, err := l.trie.Jump([]byte(word[pos:pos+size]), id)
		if err != nil {
			break
		}
		id = next
		pos += size
		if val, err := l.trie.Value(id); err == nil {
			out = append(out, surfaceMatch{end: pos, entry: val})
		}
	}
	return out
}
