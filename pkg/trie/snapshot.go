package trie

import (
	"fmt"
	"sort"
)

// NodeRecord is the persisted form of a node and, recursively, its subtree.
// Children keep their insertion order.
type NodeRecord struct {
	Keys         []string         `msgpack:"k" json:"keys"`
	Frequency    int64            `msgpack:"f" json:"frequency"`
	Terminal     bool             `msgpack:"t,omitempty" json:"terminal,omitempty"`
	Index        int64            `msgpack:"i,omitempty" json:"index,omitempty"`
	SurfaceForms map[string]int64 `msgpack:"s,omitempty" json:"surfaceForms,omitempty"`
	Children     []*NodeRecord    `msgpack:"c,omitempty" json:"children,omitempty"`
}

// Snapshot copies the tree into records.
func (t *Trie) Snapshot() (*NodeRecord, error) {
	if t.root == nil {
		return nil, &StructuralError{Op: "snapshot", Reason: "missing root", Err: ErrNilRoot}
	}
	return snapshotNode(t.root), nil
}

func snapshotNode(n *Node) *NodeRecord {
	rec := &NodeRecord{
		Keys:      append([]string{}, n.Keys...),
		Frequency: n.Frequency,
		Terminal:  n.IsTerminal(),
		Index:     n.indexSeq,
	}
	if len(n.SurfaceForms) > 0 {
		rec.SurfaceForms = make(map[string]int64, len(n.SurfaceForms))
		for form, count := range n.SurfaceForms {
			rec.SurfaceForms[form] = count
		}
	}
	for _, seg := range n.childOrder {
		rec.Children = append(rec.Children, snapshotNode(n.children[seg]))
	}
	return rec
}

// FromSnapshot rebuilds a trie from records. Every child must extend its
// parent's keys by exactly one segment and the terminal flag must agree with
// the key path. The ngram index is rebuilt in the order the terminals were
// first indexed, so ngram queries answer exactly as they did before.
func FromSnapshot(rec *NodeRecord) (*Trie, error) {
	if rec == nil {
		return nil, &StructuralError{Op: "restore", Reason: "missing root", Err: ErrNilRoot}
	}
	if len(rec.Keys) != 0 || rec.Terminal {
		return nil, structuralErr("restore", rec.Keys, "root must have an empty, non terminal key path")
	}

	root, err := restoreNode(rec)
	if err != nil {
		return nil, err
	}
	t := &Trie{root: root, joined: newJoinedTerminals()}
	var indexed []*Node
	for _, term := range t.AllTerminals() {
		if term.indexSeq > 0 {
			indexed = append(indexed, term)
		}
	}
	sort.Slice(indexed, func(i, j int) bool {
		return indexed[i].indexSeq < indexed[j].indexSeq
	})
	for i, term := range indexed {
		if i > 0 && term.indexSeq == indexed[i-1].indexSeq {
			return nil, structuralErr("restore", term.Keys, "duplicate ngram index position")
		}
		t.joined.add(term.Keys[:len(term.Keys)-1])
	}
	if n := len(indexed); n > 0 {
		t.indexed = indexed[n-1].indexSeq
	}
	return t, nil
}

func restoreNode(rec *NodeRecord) (*Node, error) {
	n := newNode(append([]string{}, rec.Keys...))
	n.Frequency = rec.Frequency
	if rec.Terminal != n.IsTerminal() {
		return nil, structuralErr("restore", rec.Keys, "terminal flag does not match key path")
	}
	if rec.Index != 0 && (!rec.Terminal || rec.Index < 0 || isNoSegmentationPath(rec.Keys)) {
		return nil, structuralErr("restore", rec.Keys, "ngram index position on a path that is never indexed")
	}
	n.indexSeq = rec.Index
	for form, count := range rec.SurfaceForms {
		n.RecordSurfaceForm(form, count)
	}

	for _, childRec := range rec.Children {
		if childRec == nil {
			return nil, structuralErr("restore", rec.Keys, "nil child record")
		}
		if len(childRec.Keys) != len(rec.Keys)+1 || !hasPrefix(childRec.Keys, rec.Keys) {
			return nil, structuralErr("restore", childRec.Keys,
				fmt.Sprintf("child does not extend parent [%s]", n.KeysAsString()))
		}
		child, err := restoreNode(childRec)
		if err != nil {
			return nil, err
		}
		n.setChild(childRec.Keys[len(childRec.Keys)-1], child)
	}
	return n, nil
}

func hasPrefix(keys, prefix []string) bool {
	if len(prefix) > len(keys) {
		return false
	}
	for i := range prefix {
		if keys[i] != prefix[i] {
			return false
		}
	}
	return true
}
