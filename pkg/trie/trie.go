// Package trie implements the frequency-counting segment trie used to compile
// corpora: every inserted expression is a sequence of segments (characters or
// morpheme IDs) closed by the Terminal sentinel, and every node counts the
// occurrences that passed through it.
//
// A Trie is built by a single writer and may then be queried by any number of
// concurrent readers; none of the query methods modify the tree.
package trie

import (
	"github.com/charmbracelet/log"
)

// NodeOption changes how GetNode resolves a key path.
type NodeOption int

const (
	// NoCreate makes GetNode a pure lookup. This is also the default.
	NoCreate NodeOption = iota
	// AsTerminal creates every missing node on the path, closing it with the
	// Terminal sentinel if it is not already there.
	AsTerminal
)

// Trie owns the root node and the joined-terminals ngram index.
type Trie struct {
	root    *Node
	joined  *joinedTerminals
	indexed int64
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{
		root:   newNode([]string{}),
		joined: newJoinedTerminals(),
	}
}

// Root returns the root node.
func (t *Trie) Root() *Node {
	return t.root
}

// Add records one occurrence of surfaceForm under segments.
func (t *Trie) Add(segments []string, surfaceForm string) (*Node, error) {
	return t.AddN(segments, surfaceForm, 1)
}

// AddN records freqIncr occurrences of surfaceForm under segments. A nil
// segments slice is stored under the NoSegmentation path so that failed
// segmentations are still counted. Segments must not contain Terminal.
func (t *Trie) AddN(segments []string, surfaceForm string, freqIncr int64) (*Node, error) {
	if t.root == nil {
		return nil, &StructuralError{Op: "add", Reason: "missing root", Err: ErrNilRoot}
	}

	if segments == nil {
		segments = []string{NoSegmentation}
	}
	path := extendKeys(segments, Terminal)
	indexed := !isNoSegmentationPath(path)

	node, err := t.GetNode(path, AsTerminal)
	if err != nil {
		return nil, err
	}
	if indexed && node.indexSeq == 0 {
		t.index(node)
	}

	node.RecordSurfaceForm(surfaceForm, freqIncr)
	node.Frequency += freqIncr

	if err := t.updateAncestors(node, freqIncr); err != nil {
		return nil, err
	}
	return node, nil
}

// GetNode resolves keys from the root. Without options, or with NoCreate, it
// returns nil when any segment is missing. With AsTerminal it creates the
// missing nodes and returns the terminal node.
func (t *Trie) GetNode(keys []string, options ...NodeOption) (*Node, error) {
	if t.root == nil {
		return nil, &StructuralError{Op: "get node", Keys: keys, Reason: "missing root", Err: ErrNilRoot}
	}

	create := false
	for _, opt := range options {
		if opt == AsTerminal {
			create = true
		}
	}
	if !create {
		return t.lookup(keys), nil
	}

	node := t.root
	for _, seg := range ensureTerminal(keys) {
		node = node.AddChild(seg)
	}
	return node, nil
}

// Lookup is GetNode without options for callers that only read.
func (t *Trie) Lookup(keys []string) *Node {
	return t.lookup(keys)
}

// Contains reports whether segments were added as a complete expression.
func (t *Trie) Contains(segments []string) bool {
	return t.lookup(ensureTerminal(segments)) != nil
}

// ParentNode returns the node one key shorter than keys, or nil for the root.
func (t *Trie) ParentNode(keys []string) *Node {
	if len(keys) == 0 {
		return nil
	}
	return t.lookup(keys[:len(keys)-1])
}

// Frequency is the number of occurrences that passed through the node for
// segments, 0 when there is no such node.
func (t *Trie) Frequency(segments []string) int64 {
	node := t.lookup(segments)
	if node == nil {
		return 0
	}
	return node.Frequency
}

// TotalTerminals counts the terminal nodes under segments.
func (t *Trie) TotalTerminals(segments []string) int64 {
	node := t.lookup(segments)
	if node == nil {
		return 0
	}
	return int64(len(t.Terminals(node)))
}

// TotalTerminalOccurrences sums the frequencies of the terminal nodes under
// segments.
func (t *Trie) TotalTerminalOccurrences(segments []string) int64 {
	node := t.lookup(segments)
	if node == nil {
		return 0
	}
	var total int64
	for _, term := range t.Terminals(node) {
		total += term.Frequency
	}
	return total
}

// Size is the number of distinct expressions in the trie.
func (t *Trie) Size() int64 {
	return t.TotalTerminals(nil)
}

func (t *Trie) lookup(keys []string) *Node {
	node := t.root
	for _, key := range keys {
		if node == nil {
			return nil
		}
		node = node.Child(key)
	}
	return node
}

// updateAncestors walks from node up to the root, resolving each parent from
// the root, adding freqIncr to it and registering the child link again.
func (t *Trie) updateAncestors(node *Node, freqIncr int64) error {
	child := node
	for len(child.Keys) > 0 {
		parentKeys := child.Keys[:len(child.Keys)-1]
		parent := t.lookup(parentKeys)
		if parent == nil {
			return structuralErr("update ancestors", child.Keys, "parent is not reachable from the root")
		}
		segment := child.Keys[len(child.Keys)-1]
		if parent.Child(segment) != child {
			log.Debugf("re-linking orphaned node [%s] under its parent", child.KeysAsString())
		}
		parent.Frequency += freqIncr
		parent.setChild(segment, child)
		child = parent
	}
	return nil
}

// index appends the node's path to the ngram index.
func (t *Trie) index(node *Node) {
	t.indexed++
	node.indexSeq = t.indexed
	t.joined.add(node.Keys[:len(node.Keys)-1])
}

func isNoSegmentationPath(keys []string) bool {
	return len(keys) == 2 && keys[0] == NoSegmentation && keys[1] == Terminal
}

func ensureTerminal(segments []string) []string {
	if len(segments) > 0 && segments[len(segments)-1] == Terminal {
		return segments
	}
	return extendKeys(segments, Terminal)
}
