package corpus

import (
	"sort"
	"strings"

	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/bastiangx/morphindex/pkg/trie"
	"github.com/tchap/go-patricia/v2/patricia"
)

// InfoForWord returns a copy of the statistics of word, or nil when the word
// was never added.
func (c *CompiledCorpus) InfoForWord(word string) *WordInfo {
	info := c.wordInfo(c.normalize(word))
	if info == nil {
		return nil
	}
	return info.clone()
}

// ContainsWord reports whether word was added.
func (c *CompiledCorpus) ContainsWord(word string) bool {
	return c.wordInfo(c.normalize(word)) != nil
}

// TopSegmentation returns the segments word was indexed under joined with
// spaces, or "" when the word is unknown or failed segmentation.
func (c *CompiledCorpus) TopSegmentation(word string) string {
	info := c.wordInfo(c.normalize(word))
	if info == nil {
		return ""
	}
	return info.Segmentation()
}

// AllWords returns every distinct word in byte order.
func (c *CompiledCorpus) AllWords() []string {
	var words []string
	c.words.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		words = append(words, string(prefix))
		return nil
	})
	sort.Strings(words)
	return words
}

// WordsWithPrefix returns the words starting with prefix in byte order.
func (c *CompiledCorpus) WordsWithPrefix(prefix string) []string {
	var words []string
	c.words.VisitSubtree(patricia.Prefix(c.normalize(prefix)), func(p patricia.Prefix, item patricia.Item) error {
		words = append(words, string(p))
		return nil
	})
	sort.Strings(words)
	return words
}

// WordsContainingNgram returns the words whose characters contain ngram, in
// byte order. A leading ^ anchors the ngram at the start of the word and
// makes the search a prefix lookup; a trailing $ anchors it at the end.
func (c *CompiledCorpus) WordsContainingNgram(ngram string) []string {
	pattern := c.charPattern(ngram)
	matchStart := len(pattern) > 0 && pattern[0] == trie.NgramStart
	return wordsOf(c.chars.TerminalsFor(pattern, matchStart))
}

// WordsContainingMorphNgram is WordsContainingNgram over segmenter output.
// The pattern is a segment sequence that may start with trie.NgramStart and
// end with trie.NgramEnd.
func (c *CompiledCorpus) WordsContainingMorphNgram(segments []string) []string {
	matchStart := len(segments) > 0 && segments[0] == trie.NgramStart
	return wordsOf(c.morphs.TerminalsFor(segments, matchStart))
}

// WordsContainingMorpheme returns the words whose segmentation includes
// morpheme, most frequent first.
func (c *CompiledCorpus) WordsContainingMorpheme(morpheme string) []WordFrequency {
	if morpheme == "" {
		return nil
	}
	var out []WordFrequency
	for _, word := range wordsOf(c.morphs.TerminalsMatchingNgram([]string{morpheme})) {
		if info := c.wordInfo(word); info != nil {
			out = append(out, WordFrequency{Word: word, Frequency: info.Frequency})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// CharNgramFrequency sums the occurrences of the words containing ngram.
func (c *CompiledCorpus) CharNgramFrequency(ngram string) int64 {
	pattern := c.charPattern(ngram)
	matchStart := len(pattern) > 0 && pattern[0] == trie.NgramStart
	return sumFrequencies(c.chars.TerminalsFor(pattern, matchStart))
}

// MorphNgramFrequency sums the occurrences of the words whose segmentation
// contains segments.
func (c *CompiledCorpus) MorphNgramFrequency(segments []string) int64 {
	matchStart := len(segments) > 0 && segments[0] == trie.NgramStart
	return sumFrequencies(c.morphs.TerminalsFor(segments, matchStart))
}

// MostFrequentWordsWithPrefix ranks the words starting with prefix by
// frequency and returns at most n of them. n <= 0 returns all.
func (c *CompiledCorpus) MostFrequentWordsWithPrefix(prefix string, n int) []WordFrequency {
	nodes := c.chars.MostFrequentTerminalsFor(n, segment.Chars(c.normalize(prefix)))
	out := make([]WordFrequency, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, WordFrequency{Word: node.TerminalSurfaceForm(), Frequency: node.Frequency})
	}
	return out
}

// charPattern splits an ngram into characters, keeping ^ and $ as anchors.
func (c *CompiledCorpus) charPattern(ngram string) []string {
	anchorStart := strings.HasPrefix(ngram, trie.NgramStart)
	ngram = strings.TrimPrefix(ngram, trie.NgramStart)
	anchorEnd := strings.HasSuffix(ngram, trie.NgramEnd)
	ngram = strings.TrimSuffix(ngram, trie.NgramEnd)

	var pattern []string
	if anchorStart {
		pattern = append(pattern, trie.NgramStart)
	}
	pattern = append(pattern, segment.Chars(c.normalize(ngram))...)
	if anchorEnd {
		pattern = append(pattern, trie.NgramEnd)
	}
	return pattern
}

// wordsOf collects the surface forms of terminals in byte order, skipping the
// no-segmentation terminal.
func wordsOf(nodes []*trie.Node) []string {
	filter := utils.NewSeenFilter()
	var words []string
	for _, node := range nodes {
		if isNoSegmentation(node) {
			continue
		}
		for form := range node.SurfaceForms {
			if filter.ShouldInclude(form) {
				words = append(words, form)
			}
		}
	}
	sort.Strings(words)
	return words
}

func sumFrequencies(nodes []*trie.Node) int64 {
	var total int64
	for _, node := range nodes {
		if !isNoSegmentation(node) {
			total += node.Frequency
		}
	}
	return total
}

func isNoSegmentation(node *trie.Node) bool {
	return len(node.Keys) > 0 && node.Keys[0] == trie.NoSegmentation
}
