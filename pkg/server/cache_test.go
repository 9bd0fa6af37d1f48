package server

import (
	"reflect"
	"testing"
)

func TestResultCacheEvictsLeastRecent(t *testing.T) {
	a := corpusRef{name: "inuk", generation: 1}
	b := corpusRef{name: "inuk", generation: 2}
	rc := newResultCache(2)

	rc.put(a, "ngram", []string{"n", "u"}, []string{"nunavut"})
	rc.put(a, "morph", []string{"n", "u"}, []string{"x"})
	if got, ok := rc.get(a, "ngram", []string{"n", "u"}); !ok || !reflect.DeepEqual(got, []string{"nunavut"}) {
		t.Fatalf("get() = %v, %v", got, ok)
	}
	// morph is now the least recently used
	rc.put(b, "ngram", []string{"n", "u"}, []string{"other"})

	if _, ok := rc.get(a, "morph", []string{"n", "u"}); ok {
		t.Error("morph entry should have been evicted")
	}
	if got, ok := rc.get(b, "ngram", []string{"n", "u"}); !ok || got[0] != "other" {
		t.Errorf("entries for different corpora must not collide: %v", got)
	}
	if _, ok := rc.get(a, "ngram", []string{"nu"}); ok {
		t.Error("pattern [nu] must not match [n u]")
	}
	if entries, hits := rc.stats(); entries != 2 || hits != 2 {
		t.Errorf("stats() = %d entries, %d hits; want 2, 2", entries, hits)
	}

	var off *resultCache
	off.put(a, "ngram", nil, nil)
	if _, ok := off.get(a, "ngram", nil); ok {
		t.Error("nil cache should never hit")
	}
}
