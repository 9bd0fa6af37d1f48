package server

import (
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// corpusRef names one binding of a corpus in the registry.
type corpusRef struct {
	name       string
	generation uint64
}

type cacheKey struct {
	corpus  corpusRef
	kind    string
	pattern string
}

type cacheEntry struct {
	words      []string
	accessTime int64
}

// resultCache keeps the full answers of recent ngram queries. Keys carry the
// registry generation, so re-registering a name never serves stale answers.
type resultCache struct {
	entries     map[cacheKey]*cacheEntry
	accessCount int64
	hits        int64
	maxEntries  int
	mu          sync.Mutex
}

func newResultCache(maxEntries int) *resultCache {
	return &resultCache{
		entries:    make(map[cacheKey]*cacheEntry, maxEntries),
		maxEntries: maxEntries,
	}
}

func (rc *resultCache) get(c corpusRef, kind string, pattern []string) ([]string, bool) {
	if rc == nil {
		return nil, false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	e, ok := rc.entries[cacheKey{c, kind, strings.Join(pattern, "\x00")}]
	if !ok {
		return nil, false
	}
	rc.hits++
	e.accessTime = rc.nextAccessTime()
	return e.words, true
}

func (rc *resultCache) put(c corpusRef, kind string, pattern []string, words []string) {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	key := cacheKey{c, kind, strings.Join(pattern, "\x00")}
	if _, exists := rc.entries[key]; !exists && len(rc.entries) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.entries[key] = &cacheEntry{words: words, accessTime: rc.nextAccessTime()}
}

func (rc *resultCache) stats() (entries int, hits int64) {
	if rc == nil {
		return 0, 0
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries), rc.hits
}

func (rc *resultCache) nextAccessTime() int64 {
	rc.accessCount++
	return rc.accessCount
}

func (rc *resultCache) evictLRU() {
	var oldest cacheKey
	oldestTime := int64(math.MaxInt64)
	for key, e := range rc.entries {
		if e.accessTime < oldestTime {
			oldestTime = e.accessTime
			oldest = key
		}
	}
	if oldestTime != math.MaxInt64 {
		delete(rc.entries, oldest)
		log.Debugf("Evicted %s query '%s' from result cache", oldest.kind, oldest.pattern)
	}
}
