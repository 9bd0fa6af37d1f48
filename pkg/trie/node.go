package trie

import (
	"strings"
)

const (
	// Terminal is appended to every inserted key path; a node whose last key
	// is Terminal represents a complete indexed expression.
	Terminal = "\\"

	// NoSegmentation is the single-segment path used for expressions whose
	// segmentation failed.
	NoSegmentation = "_NULL_SEG_"
)

// Node is one point in the tree. It owns its children; the parent is never
// stored and is always resolved from the root by trimming the last key.
type Node struct {
	Keys         []string
	Frequency    int64
	SurfaceForms map[string]int64

	children   map[string]*Node
	childOrder []string
	// position in the ngram index, 0 when the path is not indexed
	indexSeq int64
}

func newNode(keys []string) *Node {
	return &Node{
		Keys:     keys,
		children: make(map[string]*Node),
	}
}

// IsTerminal reports whether the key path ends with the Terminal sentinel.
func (n *Node) IsTerminal() bool {
	return len(n.Keys) > 0 && n.Keys[len(n.Keys)-1] == Terminal
}

// Child returns the child for segment, or nil.
func (n *Node) Child(segment string) *Node {
	return n.children[segment]
}

// AddChild returns the child for segment, creating it on first call.
func (n *Node) AddChild(segment string) *Node {
	if child, ok := n.children[segment]; ok {
		return child
	}
	child := newNode(extendKeys(n.Keys, segment))
	n.setChild(segment, child)
	return child
}

// setChild registers child under segment, keeping first-insertion order.
func (n *Node) setChild(segment string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	if _, ok := n.children[segment]; !ok {
		n.childOrder = append(n.childOrder, segment)
	}
	n.children[segment] = child
}

// ChildSegments returns the child segments in insertion order.
func (n *Node) ChildSegments() []string {
	out := make([]string, len(n.childOrder))
	copy(out, n.childOrder)
	return out
}

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.childOrder))
	for _, seg := range n.childOrder {
		out = append(out, n.children[seg])
	}
	return out
}

// RecordSurfaceForm adds increment to the count of form.
func (n *Node) RecordSurfaceForm(form string, increment int64) {
	if n.SurfaceForms == nil {
		n.SurfaceForms = make(map[string]int64)
	}
	n.SurfaceForms[form] += increment
}

// MostFrequentSurfaceForm returns the form with the highest count. Ties go to
// the shorter form, then to the lexicographically smaller one.
func (n *Node) MostFrequentSurfaceForm() string {
	best := ""
	var bestCount int64 = -1
	for form, count := range n.SurfaceForms {
		switch {
		case count > bestCount:
		case count < bestCount:
			continue
		case len(form) < len(best):
		case len(form) > len(best):
			continue
		case form < best:
		default:
			continue
		}
		best, bestCount = form, count
	}
	return best
}

// TerminalSurfaceForm is the surface form a terminal is reported under.
// Non terminal nodes have none.
func (n *Node) TerminalSurfaceForm() string {
	if !n.IsTerminal() {
		return ""
	}
	return n.MostFrequentSurfaceForm()
}

// KeysAsString joins the key path with spaces, e.g. "h e l l o \".
func (n *Node) KeysAsString() string {
	return strings.Join(n.Keys, " ")
}

// Segments returns the key path without the Terminal sentinel.
func (n *Node) Segments() []string {
	if n.IsTerminal() {
		return n.Keys[:len(n.Keys)-1]
	}
	return n.Keys
}

func extendKeys(keys []string, segment string) []string {
	extended := make([]string, len(keys)+1)
	copy(extended, keys)
	extended[len(keys)] = segment
	return extended
}
