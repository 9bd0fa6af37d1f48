package trie

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNilRoot is returned when a trie has no root to operate on.
var ErrNilRoot = errors.New("trie has no root")

// StructuralError reports a corrupt tree: a missing root, a node whose parent
// cannot be resolved, or a snapshot whose keys do not nest.
type StructuralError struct {
	Op     string
	Keys   []string
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	msg := fmt.Sprintf("trie %s: %s", e.Op, e.Reason)
	if len(e.Keys) > 0 {
		msg += fmt.Sprintf(" (keys=[%s])", strings.Join(e.Keys, ","))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

func structuralErr(op string, keys []string, reason string) error {
	return &StructuralError{Op: op, Keys: keys, Reason: reason}
}
