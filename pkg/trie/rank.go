package trie

import (
	"sort"
	"strings"
)

// MostFrequentTerminals returns at most n terminals under node, most frequent
// first, skipping any node listed in exclusions. n <= 0 returns all of them.
//
// Equal frequencies are ordered by the dominant surface form in byte order,
// which puts a form before any longer form it prefixes, then by key path.
// Length is not compared first: at equal frequency "helicopter" ranks ahead
// of "hello". Identical calls on an unchanged trie always return the same
// slice.
func (t *Trie) MostFrequentTerminals(n int, node *Node, exclusions []*Node) []*Node {
	if node == nil {
		return nil
	}

	excluded := make(map[*Node]struct{}, len(exclusions))
	for _, ex := range exclusions {
		excluded[ex] = struct{}{}
	}

	var candidates []rankedNode
	for _, term := range t.Terminals(node) {
		if _, skip := excluded[term]; skip {
			continue
		}
		candidates = append(candidates, rankedNode{
			node: term,
			form: term.MostFrequentSurfaceForm(),
			path: strings.Join(term.Keys, " "),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].before(candidates[j])
	})

	if n > 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	result := make([]*Node, len(candidates))
	for i, c := range candidates {
		result[i] = c.node
	}
	return result
}

// MostFrequentTerminal is the first result of MostFrequentTerminals, or nil.
func (t *Trie) MostFrequentTerminal(node *Node) *Node {
	top := t.MostFrequentTerminals(1, node, nil)
	if len(top) == 0 {
		return nil
	}
	return top[0]
}

// MostFrequentTerminalsFor ranks the terminals under the node for segments.
func (t *Trie) MostFrequentTerminalsFor(n int, segments []string) []*Node {
	return t.MostFrequentTerminals(n, t.lookup(segments), nil)
}

// MostFrequentTerminalFor is MostFrequentTerminal for the node of segments.
func (t *Trie) MostFrequentTerminalFor(segments []string) *Node {
	return t.MostFrequentTerminal(t.lookup(segments))
}

// MostFrequentSequenceForRoot returns the most frequent sequence of segments
// starting with rootSegment that does not reach a terminal. Equal frequencies
// favour fewer segments, then byte order.
func (t *Trie) MostFrequentSequenceForRoot(rootSegment string) []string {
	rootNode := t.lookup([]string{rootSegment})
	if rootNode == nil {
		return nil
	}

	var best *Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, seg := range n.childOrder {
			child := n.children[seg]
			if child.IsTerminal() {
				continue
			}
			if best == nil || sequenceBefore(child, best) {
				best = child
			}
			walk(child)
		}
	}
	walk(rootNode)

	if best == nil {
		return []string{rootSegment}
	}
	out := make([]string, len(best.Keys))
	copy(out, best.Keys)
	return out
}

// MostFrequentTerminalFromMostFrequentSequenceForRoot returns the most
// frequent terminal below MostFrequentSequenceForRoot.
func (t *Trie) MostFrequentTerminalFromMostFrequentSequenceForRoot(rootSegment string) *Node {
	seq := t.MostFrequentSequenceForRoot(rootSegment)
	if seq == nil {
		return nil
	}
	return t.MostFrequentTerminal(t.lookup(seq))
}

type rankedNode struct {
	node *Node
	form string
	path string
}

func (a rankedNode) before(b rankedNode) bool {
	if a.node.Frequency != b.node.Frequency {
		return a.node.Frequency > b.node.Frequency
	}
	if a.form != b.form {
		return a.form < b.form
	}
	return a.path < b.path
}

func sequenceBefore(a, b *Node) bool {
	if a.Frequency != b.Frequency {
		return a.Frequency > b.Frequency
	}
	if len(a.Keys) != len(b.Keys) {
		return len(a.Keys) < len(b.Keys)
	}
	return strings.Join(a.Keys, " ") < strings.Join(b.Keys, " ")
}
