package corpus

import (
	"fmt"

	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/bastiangx/morphindex/pkg/trie"
	"github.com/tchap/go-patricia/v2/patricia"
)

// State is everything needed to rebuild a compiled corpus, in a form the
// store package can encode.
type State struct {
	Segmenter         string           `msgpack:"seg" json:"segmenter"`
	Options           Options          `msgpack:"opts" json:"options"`
	Chars             *trie.NodeRecord `msgpack:"chars" json:"chars"`
	Morphs            *trie.NodeRecord `msgpack:"morphs" json:"morphs"`
	Words             []*WordInfo      `msgpack:"words" json:"words"`
	FailedWords       int64            `msgpack:"fw" json:"failedWords"`
	FailedOccurrences int64            `msgpack:"fo" json:"failedOccurrences"`
}

// State snapshots the corpus. Words are listed in byte order.
func (c *CompiledCorpus) State() (*State, error) {
	chars, err := c.chars.Snapshot()
	if err != nil {
		return nil, err
	}
	morphs, err := c.morphs.Snapshot()
	if err != nil {
		return nil, err
	}
	st := &State{
		Segmenter:         segment.Name(c.segmenter),
		Options:           c.opts,
		Chars:             chars,
		Morphs:            morphs,
		FailedWords:       c.failedWords,
		FailedOccurrences: c.failedOccurrences,
	}
	for _, word := range c.AllWords() {
		st.Words = append(st.Words, c.wordInfo(word).clone())
	}
	return st, nil
}

// Restore rebuilds a corpus from st. The segmenter is only used for words
// added after the restore.
func Restore(st *State, segmenter segment.Segmenter) (*CompiledCorpus, error) {
	if st == nil {
		return nil, fmt.Errorf("nil corpus state")
	}
	c, err := New(segmenter, st.Options)
	if err != nil {
		return nil, err
	}
	if name := segment.Name(segmenter); st.Segmenter != "" && name != st.Segmenter {
		return nil, fmt.Errorf("corpus was compiled with the %s segmenter, got %s", st.Segmenter, name)
	}

	if c.chars, err = trie.FromSnapshot(st.Chars); err != nil {
		return nil, fmt.Errorf("failed to restore character trie: %w", err)
	}
	if c.morphs, err = trie.FromSnapshot(st.Morphs); err != nil {
		return nil, fmt.Errorf("failed to restore segment trie: %w", err)
	}

	c.words = patricia.NewTrie()
	for _, info := range st.Words {
		if info == nil || info.Word == "" {
			continue
		}
		c.words.Insert(patricia.Prefix(info.Word), info.clone())
		c.wordCount++
	}
	c.failedWords = st.FailedWords
	c.failedOccurrences = st.FailedOccurrences
	return c, nil
}
