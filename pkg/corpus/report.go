package corpus

import (
	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/bastiangx/morphindex/pkg/trie"
)

// TotalOccurrences counts every word occurrence added, segmented or not.
func (c *CompiledCorpus) TotalOccurrences() int64 {
	return c.morphs.Root().Frequency
}

// TotalOccurrencesWithNoDecomp counts occurrences of words whose
// segmentation failed.
func (c *CompiledCorpus) TotalOccurrencesWithNoDecomp() int64 {
	return c.morphs.Frequency([]string{trie.NoSegmentation})
}

// TotalOccurrencesWithDecomps counts occurrences of segmented words.
func (c *CompiledCorpus) TotalOccurrencesWithDecomps() int64 {
	return c.TotalOccurrences() - c.TotalOccurrencesWithNoDecomp()
}

// TotalWords counts distinct words.
func (c *CompiledCorpus) TotalWords() int64 {
	return c.wordCount
}

// TotalWordsWithNoDecomp counts distinct words whose segmentation failed.
func (c *CompiledCorpus) TotalWordsWithNoDecomp() int64 {
	return c.failedWords
}

// TotalWordsWithDecomps counts distinct segmented words.
func (c *CompiledCorpus) TotalWordsWithDecomps() int64 {
	return c.wordCount - c.failedWords
}

// FailedWords is the number of distinct words that failed segmentation.
func (c *CompiledCorpus) FailedWords() int64 {
	return c.failedWords
}

// FailedOccurrences is the number of occurrences of those words.
func (c *CompiledCorpus) FailedOccurrences() int64 {
	return c.failedOccurrences
}

// Report summarises a corpus.
type Report struct {
	Segmenter                  string `msgpack:"segmenter" json:"segmenter"`
	TotalWords                 int64  `msgpack:"totalWords" json:"totalWords"`
	TotalWordsWithDecomps      int64  `msgpack:"totalWordsWithDecomps" json:"totalWordsWithDecomps"`
	TotalWordsWithNoDecomp     int64  `msgpack:"totalWordsWithNoDecomp" json:"totalWordsWithNoDecomp"`
	TotalOccurrences           int64  `msgpack:"totalOccurrences" json:"totalOccurrences"`
	TotalOccurrencesWithDecomp int64  `msgpack:"totalOccurrencesWithDecomps" json:"totalOccurrencesWithDecomps"`
	TotalOccurrencesNoDecomp   int64  `msgpack:"totalOccurrencesWithNoDecomp" json:"totalOccurrencesWithNoDecomp"`
	DistinctSegmentations      int64  `msgpack:"distinctSegmentations" json:"distinctSegmentations"`
	CharTerminals              int64  `msgpack:"charTerminals" json:"charTerminals"`
}

// Describe collects the aggregate counts.
func (c *CompiledCorpus) Describe() Report {
	distinct := c.morphs.Size()
	if c.failedWords > 0 {
		// the no-segmentation terminal is not a segmentation
		distinct--
	}
	return Report{
		Segmenter:                  segment.Name(c.segmenter),
		TotalWords:                 c.TotalWords(),
		TotalWordsWithDecomps:      c.TotalWordsWithDecomps(),
		TotalWordsWithNoDecomp:     c.TotalWordsWithNoDecomp(),
		TotalOccurrences:           c.TotalOccurrences(),
		TotalOccurrencesWithDecomp: c.TotalOccurrencesWithDecomps(),
		TotalOccurrencesNoDecomp:   c.TotalOccurrencesWithNoDecomp(),
		DistinctSegmentations:      distinct,
		CharTerminals:              c.chars.Size(),
	}
}
