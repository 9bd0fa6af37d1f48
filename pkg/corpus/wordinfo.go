package corpus

import (
	"strings"
)

// WordInfo holds the statistics of one distinct word.
type WordInfo struct {
	Word      string `msgpack:"w" json:"word"`
	Frequency int64  `msgpack:"f" json:"frequency"`

	// TotalDecompositions is nil until the segmenter has been asked for every
	// analysis of the word. It is never set for failed words.
	TotalDecompositions *int `msgpack:"td,omitempty" json:"totalDecompositions,omitempty"`
	// TopDecompositions is a bounded sample, best first.
	TopDecompositions [][]string `msgpack:"top,omitempty" json:"topDecompositions,omitempty"`

	// Segments is the segmentation the word was indexed under, nil when
	// segmentation failed.
	Segments []string `msgpack:"s,omitempty" json:"segments,omitempty"`
	Failed   bool     `msgpack:"x,omitempty" json:"failed,omitempty"`
}

// HasDecompositions reports whether the word was segmented.
func (w *WordInfo) HasDecompositions() bool {
	return !w.Failed
}

// Segmentation joins the indexed segments with spaces, "" for failed words.
func (w *WordInfo) Segmentation() string {
	if w.Failed {
		return ""
	}
	return strings.Join(w.Segments, " ")
}

func (w *WordInfo) clone() *WordInfo {
	cp := *w
	if w.TotalDecompositions != nil {
		total := *w.TotalDecompositions
		cp.TotalDecompositions = &total
	}
	cp.Segments = append([]string(nil), w.Segments...)
	if w.TopDecompositions != nil {
		cp.TopDecompositions = make([][]string, len(w.TopDecompositions))
		for i, d := range w.TopDecompositions {
			cp.TopDecompositions[i] = append([]string(nil), d...)
		}
	}
	return &cp
}

// WordFrequency pairs a word with its occurrence count.
type WordFrequency struct {
	Word      string `msgpack:"w" json:"word"`
	Frequency int64  `msgpack:"f" json:"frequency"`
}
