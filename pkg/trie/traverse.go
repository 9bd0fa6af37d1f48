package trie

// Terminals collects the terminal descendants of node depth first, in child
// insertion order.
func (t *Trie) Terminals(node *Node) []*Node {
	if node == nil {
		return nil
	}
	var collected []*Node
	collectTerminals(node, &collected)
	return collected
}

// AllTerminals collects every terminal in the trie.
func (t *Trie) AllTerminals() []*Node {
	return t.Terminals(t.root)
}

func collectTerminals(node *Node, collected *[]*Node) {
	if node.IsTerminal() {
		*collected = append(*collected, node)
		return
	}
	for _, seg := range node.childOrder {
		collectTerminals(node.children[seg], collected)
	}
}

// TerminalsFor returns the terminals matching pattern. A pattern may start
// with NgramStart and end with NgramEnd.
//
// With matchStart, or when the pattern starts with NgramStart, the pattern is
// a prefix: its node is resolved and its terminals collected. Otherwise the
// pattern is searched anywhere in the indexed key paths.
func (t *Trie) TerminalsFor(pattern []string, matchStart bool) []*Node {
	segments, anchorStart, anchorEnd := parseNgram(pattern)
	if anchorStart {
		matchStart = true
	}

	if matchStart {
		if anchorEnd {
			if node := t.lookup(ensureTerminal(segments)); node != nil {
				return []*Node{node}
			}
			return nil
		}
		return t.Terminals(t.lookup(segments))
	}

	if len(segments) == 0 {
		return t.indexedTerminals()
	}
	return t.terminalsMatching(segments, false, anchorEnd)
}

// TerminalsMatchingNgram searches pattern anywhere in the indexed key paths,
// honouring NgramStart and NgramEnd anchors.
func (t *Trie) TerminalsMatchingNgram(pattern []string) []*Node {
	segments, anchorStart, anchorEnd := parseNgram(pattern)
	if len(segments) == 0 {
		return t.indexedTerminals()
	}
	return t.terminalsMatching(segments, anchorStart, anchorEnd)
}

func (t *Trie) terminalsMatching(segments []string, anchorStart, anchorEnd bool) []*Node {
	if t.joined == nil {
		return nil
	}
	var nodes []*Node
	for _, path := range t.joined.match(segments, anchorStart, anchorEnd) {
		if node := t.lookup(ensureTerminal(path)); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// indexedTerminals is every terminal in the ngram index, in tree order.
func (t *Trie) indexedTerminals() []*Node {
	var nodes []*Node
	for _, node := range t.AllTerminals() {
		if node.indexSeq == 0 {
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}
