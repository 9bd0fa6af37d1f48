/*
Package corpus compiles word occurrences into a pair of segment tries and
answers word level statistics and ngram queries over them.

A CompiledCorpus has two phases. While compiling, a single goroutine calls the
Add* methods. Once compiled, any number of goroutines may query it; no query
method changes the corpus.
*/
package corpus

import (
	"fmt"
	"strings"

	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/bastiangx/morphindex/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Options tune compilation.
type Options struct {
	// DecompsSampleSize bounds WordInfo.TopDecompositions when the segmenter
	// is a segment.Decomposer. Zero disables decomposition sampling.
	DecompsSampleSize int `msgpack:"ds" json:"decompsSampleSize"`
	// MinWordLength drops shorter tokens in AddDocument.
	MinWordLength int `msgpack:"ml" json:"minWordLength"`
	// Normalize composes and case folds words before indexing.
	Normalize bool `msgpack:"n" json:"normalize"`
	// Language is an optional BCP 47 tag for case mapping.
	Language string `msgpack:"lang,omitempty" json:"language,omitempty"`
	// Encoding of documents read by AddDocument: "utf-8" or "latin1".
	Encoding string `msgpack:"enc,omitempty" json:"encoding,omitempty"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		DecompsSampleSize: 10,
		MinWordLength:     1,
		Normalize:         true,
		Encoding:          "utf-8",
	}
}

// CompiledCorpus indexes words by their characters and by the segments the
// segmenter splits them into.
type CompiledCorpus struct {
	segmenter  segment.Segmenter
	opts       Options
	normalizer *utils.Normalizer

	chars  *trie.Trie
	morphs *trie.Trie
	words  *patricia.Trie

	wordCount         int64
	failedWords       int64
	failedOccurrences int64
}

// New returns an empty corpus.
func New(segmenter segment.Segmenter, opts Options) (*CompiledCorpus, error) {
	if segmenter == nil {
		return nil, fmt.Errorf("corpus needs a segmenter")
	}
	normalizer, err := utils.NewNormalizer(opts.Language)
	if err != nil {
		return nil, err
	}
	return &CompiledCorpus{
		segmenter:  segmenter,
		opts:       opts,
		normalizer: normalizer,
		chars:      trie.New(),
		morphs:     trie.New(),
		words:      patricia.NewTrie(),
	}, nil
}

// Empty returns a corpus with no words and the character segmenter.
func Empty() *CompiledCorpus {
	c, _ := New(segment.Char{}, DefaultOptions())
	return c
}

// Segmenter returns the segmenter used for the morpheme trie.
func (c *CompiledCorpus) Segmenter() segment.Segmenter {
	return c.segmenter
}

// Options returns the compile options.
func (c *CompiledCorpus) Options() Options {
	return c.opts
}

// CharTrie is the trie keyed by characters.
func (c *CompiledCorpus) CharTrie() *trie.Trie {
	return c.chars
}

// MorphTrie is the trie keyed by segmenter output.
func (c *CompiledCorpus) MorphTrie() *trie.Trie {
	return c.morphs
}

// AddWordOccurrence records one occurrence of word.
func (c *CompiledCorpus) AddWordOccurrence(word string) error {
	return c.AddWordOccurrenceN(word, 1)
}

// AddWordOccurrences records one occurrence of each word.
func (c *CompiledCorpus) AddWordOccurrences(words ...string) error {
	for _, w := range words {
		if err := c.AddWordOccurrenceN(w, 1); err != nil {
			return err
		}
	}
	return nil
}

// AddWordOccurrenceN records freqIncr occurrences of word.
//
// A word is segmented the first time it is seen. When the segmenter fails the
// word is indexed under the no-segmentation path and counted as failed; the
// error is logged and not returned. Only a corrupt trie produces an error.
// A word containing trie.Terminal counts as failed and is left out of the
// character trie.
func (c *CompiledCorpus) AddWordOccurrenceN(word string, freqIncr int64) error {
	word = c.normalize(word)
	if word == "" || freqIncr <= 0 {
		return nil
	}

	info := c.wordInfo(word)
	if info == nil {
		info = c.analyse(word)
		c.words.Insert(patricia.Prefix(word), info)
		c.wordCount++
		if info.Failed {
			c.failedWords++
		}
	}

	if _, err := c.morphs.AddN(info.Segments, word, freqIncr); err != nil {
		return fmt.Errorf("failed to index %q by segments: %w", word, err)
	}
	if !strings.Contains(word, trie.Terminal) {
		if _, err := c.chars.AddN(segment.Chars(word), word, freqIncr); err != nil {
			return fmt.Errorf("failed to index %q by characters: %w", word, err)
		}
	}

	info.Frequency += freqIncr
	if info.Failed {
		c.failedOccurrences += freqIncr
	}
	return nil
}

// analyse segments a new word and samples its decompositions.
func (c *CompiledCorpus) analyse(word string) *WordInfo {
	info := &WordInfo{Word: word}
	if strings.Contains(word, trie.Terminal) {
		log.Warnf("Could not segment %q: it contains the reserved segment %q", word, trie.Terminal)
		info.Failed = true
		return info
	}

	segments, err := c.segmenter.Segment(word)
	if err == nil && !validSegments(segments) {
		err = fmt.Errorf("%w: unusable segments %q for %q", segment.ErrSegmentation, segments, word)
	}
	if err != nil {
		log.Warnf("Could not segment %q: %v", word, err)
		info.Failed = true
		return info
	}
	info.Segments = segments

	decomposer, ok := c.segmenter.(segment.Decomposer)
	if !ok || c.opts.DecompsSampleSize <= 0 {
		return info
	}
	decomps, err := decomposer.Decompositions(word)
	if err != nil {
		log.Debugf("No decompositions for %q: %v", word, err)
		return info
	}
	total := len(decomps)
	info.TotalDecompositions = &total
	if len(decomps) > c.opts.DecompsSampleSize {
		decomps = decomps[:c.opts.DecompsSampleSize]
	}
	info.TopDecompositions = decomps
	return info
}

func validSegments(segments []string) bool {
	if len(segments) == 0 {
		return false
	}
	for _, seg := range segments {
		if seg == "" || seg == trie.Terminal || seg == trie.NoSegmentation {
			return false
		}
	}
	return true
}

func (c *CompiledCorpus) normalize(word string) string {
	if !c.opts.Normalize {
		return word
	}
	return c.normalizer.Normalize(word)
}

func (c *CompiledCorpus) wordInfo(word string) *WordInfo {
	item := c.words.Get(patricia.Prefix(word))
	if item == nil {
		return nil
	}
	return item.(*WordInfo)
}
