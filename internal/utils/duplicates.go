package utils

// SeenFilter drops repeated strings while keeping first-seen order.
// Not safe for concurrent use; make one per query.
type SeenFilter struct {
	seen map[string]struct{}
}

// NewSeenFilter creates a filter that already excludes the given strings.
func NewSeenFilter(exclude ...string) *SeenFilter {
	f := &SeenFilter{seen: make(map[string]struct{}, len(exclude))}
	for _, s := range exclude {
		f.seen[s] = struct{}{}
	}
	return f
}

// ShouldInclude returns true the first time s is offered.
func (f *SeenFilter) ShouldInclude(s string) bool {
	if _, dup := f.seen[s]; dup {
		return false
	}
	f.seen[s] = struct{}{}
	return true
}
