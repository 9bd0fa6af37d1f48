package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/bastiangx/morphindex/pkg/corpus"
	"github.com/bastiangx/morphindex/pkg/registry"
	"github.com/bastiangx/morphindex/pkg/trie"
)

var (
	// ErrBadRequest marks queries rejected before reaching a corpus.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound is returned for words a corpus has never seen.
	ErrNotFound = errors.New("not found")
)

// Limits bound what a single query may ask for.
type Limits struct {
	MaxResults    int
	MaxPatternLen int
	// CacheSize is the number of ngram answers kept; negative disables the cache.
	CacheSize int
}

// DefaultLimits matches the [server] defaults in config.
func DefaultLimits() Limits {
	return Limits{MaxResults: 100, MaxPatternLen: 64, CacheSize: 256}
}

// Service answers corpus queries for both transports. It holds no corpus
// state of its own; every call resolves the corpus through the registry.
type Service struct {
	registry *registry.Registry
	limits   Limits
	cache    *resultCache
	requests atomic.Int64
}

// NewService builds a Service over reg. Zero limits fall back to the defaults.
func NewService(reg *registry.Registry, limits Limits) *Service {
	def := DefaultLimits()
	if limits.MaxResults <= 0 {
		limits.MaxResults = def.MaxResults
	}
	if limits.MaxPatternLen <= 0 {
		limits.MaxPatternLen = def.MaxPatternLen
	}
	if limits.CacheSize == 0 {
		limits.CacheSize = def.CacheSize
	}
	s := &Service{registry: reg, limits: limits}
	if limits.CacheSize > 0 {
		s.cache = newResultCache(limits.CacheSize)
	}
	return s
}

// Limits returns the effective limits.
func (s *Service) Limits() Limits {
	return s.limits
}

// Requests counts the queries served so far.
func (s *Service) Requests() int64 {
	return s.requests.Load()
}

// CacheStats reports the cached answers and the hits they served.
func (s *Service) CacheStats() (entries int, hits int64) {
	return s.cache.stats()
}

// Corpora lists the registered corpus names.
func (s *Service) Corpora() []string {
	return s.registry.Names()
}

// Ngram returns up to limit words containing the character ngram pattern,
// plus the total number of matches.
func (s *Service) Ngram(name, pattern string, limit int) ([]string, int, error) {
	c, ref, err := s.resolve(name)
	if err != nil {
		return nil, 0, err
	}
	body := strings.TrimSuffix(strings.TrimPrefix(pattern, trie.NgramStart), trie.NgramEnd)
	if body == "" {
		return nil, 0, fmt.Errorf("%w: empty ngram", ErrBadRequest)
	}
	if n := utf8.RuneCountInString(body); n > s.limits.MaxPatternLen {
		return nil, 0, fmt.Errorf("%w: ngram of %d characters exceeds %d", ErrBadRequest, n, s.limits.MaxPatternLen)
	}
	words, ok := s.cache.get(ref, ActionNgram, []string{pattern})
	if !ok {
		words = c.WordsContainingNgram(pattern)
		s.cache.put(ref, ActionNgram, []string{pattern}, words)
	}
	return clip(words, s.clamp(limit)), len(words), nil
}

// MorphNgram is Ngram over a segment sequence.
func (s *Service) MorphNgram(name string, segments []string, limit int) ([]string, int, error) {
	c, ref, err := s.resolve(name)
	if err != nil {
		return nil, 0, err
	}
	body := segments
	if len(body) > 0 && body[0] == trie.NgramStart {
		body = body[1:]
	}
	if len(body) > 0 && body[len(body)-1] == trie.NgramEnd {
		body = body[:len(body)-1]
	}
	if len(body) == 0 {
		return nil, 0, fmt.Errorf("%w: empty segment sequence", ErrBadRequest)
	}
	if len(body) > s.limits.MaxPatternLen {
		return nil, 0, fmt.Errorf("%w: %d segments exceeds %d", ErrBadRequest, len(body), s.limits.MaxPatternLen)
	}
	for _, seg := range body {
		if seg == "" {
			return nil, 0, fmt.Errorf("%w: empty segment", ErrBadRequest)
		}
	}
	words, ok := s.cache.get(ref, ActionMorphNgram, segments)
	if !ok {
		words = c.WordsContainingMorphNgram(segments)
		s.cache.put(ref, ActionMorphNgram, segments, words)
	}
	return clip(words, s.clamp(limit)), len(words), nil
}

// Morpheme returns the words built on morpheme, most frequent first.
func (s *Service) Morpheme(name, morpheme string, limit int) ([]corpus.WordFrequency, int, error) {
	c, err := s.corpus(name)
	if err != nil {
		return nil, 0, err
	}
	if morpheme == "" {
		return nil, 0, fmt.Errorf("%w: empty morpheme", ErrBadRequest)
	}
	words := c.WordsContainingMorpheme(morpheme)
	return clip(words, s.clamp(limit)), len(words), nil
}

// Word returns what the corpus knows about word.
func (s *Service) Word(name, word string) (*corpus.WordInfo, error) {
	c, err := s.corpus(name)
	if err != nil {
		return nil, err
	}
	if word == "" {
		return nil, fmt.Errorf("%w: empty word", ErrBadRequest)
	}
	info := c.InfoForWord(word)
	if info == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, word)
	}
	return info, nil
}

// Top ranks the words starting with prefix. An empty prefix ranks the whole
// corpus.
func (s *Service) Top(name, prefix string, n int) ([]corpus.WordFrequency, error) {
	c, err := s.corpus(name)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(prefix) > s.limits.MaxPatternLen {
		return nil, fmt.Errorf("%w: prefix exceeds %d characters", ErrBadRequest, s.limits.MaxPatternLen)
	}
	return c.MostFrequentWordsWithPrefix(prefix, s.clamp(n)), nil
}

// Stats describes the corpus.
func (s *Service) Stats(name string) (corpus.Report, error) {
	c, err := s.corpus(name)
	if err != nil {
		return corpus.Report{}, err
	}
	return c.Describe(), nil
}

func (s *Service) corpus(name string) (*corpus.CompiledCorpus, error) {
	c, _, err := s.resolve(name)
	return c, err
}

func (s *Service) resolve(name string) (*corpus.CompiledCorpus, corpusRef, error) {
	s.requests.Add(1)
	if name == "" {
		name = registry.DefaultName
	}
	c, gen, err := s.registry.Resolve(name)
	return c, corpusRef{name: name, generation: gen}, err
}

func (s *Service) clamp(n int) int {
	if n <= 0 || n > s.limits.MaxResults {
		return s.limits.MaxResults
	}
	return n
}

func clip[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// StatusCode maps a service error to an HTTP style status code. Both
// transports report it.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, registry.ErrUnknownCorpus):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
