/*
Package registry maps corpus names to compiled corpora.

A Registry is an explicit object handed to whoever serves queries. Corpora are
registered by file and loaded on first use; concurrent first requests for one
name share a single load. Once loaded, a corpus is returned without taking any
lock, so queries never wait on each other.
*/
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/bastiangx/morphindex/pkg/corpus"
	"github.com/bastiangx/morphindex/pkg/segment"
	"github.com/bastiangx/morphindex/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/gosimple/slug"
)

// DefaultName is always registered and bound to an empty corpus. Get("")
// resolves to it.
const DefaultName = "empty"

// ErrUnknownCorpus is returned by Get for names that were never registered.
var ErrUnknownCorpus = errors.New("unknown corpus")

// Loader turns a registered file into a corpus.
type Loader func(file string) (*corpus.CompiledCorpus, error)

// StoreLoader loads corpus files with store.Load and segmenter.
func StoreLoader(segmenter segment.Segmenter) Loader {
	return func(file string) (*corpus.CompiledCorpus, error) {
		return store.Load(file, segmenter)
	}
}

type entry struct {
	file string
	// generation changes every time the name is bound again
	generation uint64
	mu         sync.Mutex
	corpus     atomic.Pointer[corpus.CompiledCorpus]
}

// Registry holds the named corpora.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	loader  Loader
	catalog *Catalog
	loads   atomic.Int64
	gen     uint64
}

// New returns a registry that loads files with loader. catalog may be nil.
func New(loader Loader, catalog *Catalog) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		loader:  loader,
		catalog: catalog,
	}
	empty := &entry{}
	empty.corpus.Store(corpus.Empty())
	r.bind(DefaultName, empty)
	return r
}

// bind must be called with r.mu held for writing.
func (r *Registry) bind(name string, e *entry) {
	r.gen++
	e.generation = r.gen
	r.entries[name] = e
}

// Register binds name to file. The file is not read until the first Get.
// Registering a name again replaces the previous binding.
func (r *Registry) Register(name, file string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if file == "" {
		return fmt.Errorf("corpus %q: empty file name", name)
	}
	r.mu.Lock()
	r.bind(name, &entry{file: file})
	r.mu.Unlock()

	if r.catalog != nil {
		if err := r.catalog.Put(name, file); err != nil {
			return fmt.Errorf("failed to catalog corpus %q: %w", name, err)
		}
	}
	log.Debugf("Registered corpus %s -> %s", name, file)
	return nil
}

// Add binds name to an already compiled corpus.
func (r *Registry) Add(name string, c *corpus.CompiledCorpus) error {
	if err := validateName(name); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("corpus %q: nil corpus", name)
	}
	e := &entry{}
	e.corpus.Store(c)
	r.mu.Lock()
	r.bind(name, e)
	r.mu.Unlock()
	return nil
}

// Get returns the corpus registered under name, loading it on first use. An
// empty name means DefaultName. A failed load is not cached.
func (r *Registry) Get(name string) (*corpus.CompiledCorpus, error) {
	c, _, err := r.Resolve(name)
	return c, err
}

// Resolve is Get plus the generation of the binding the corpus came from.
// The generation changes whenever name is registered or added again, so
// callers can key derived data on (name, generation).
func (r *Registry) Resolve(name string) (*corpus.CompiledCorpus, uint64, error) {
	if name == "" {
		name = DefaultName
	}
	r.mu.RLock()
	e := r.entries[name]
	r.mu.RUnlock()
	if e == nil {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnknownCorpus, name)
	}
	c, err := r.load(name, e)
	if err != nil {
		return nil, 0, err
	}
	return c, e.generation, nil
}

func (r *Registry) load(name string, e *entry) (*corpus.CompiledCorpus, error) {
	if c := e.corpus.Load(); c != nil {
		return c, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if c := e.corpus.Load(); c != nil {
		return c, nil
	}
	if r.loader == nil {
		return nil, fmt.Errorf("corpus %q: no loader configured", name)
	}
	c, err := r.loader(e.file)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus %q: %w", name, err)
	}
	r.loads.Add(1)
	e.corpus.Store(c)

	if r.catalog != nil {
		if err := r.catalog.RecordStats(name, c.Describe(), true); err != nil {
			log.Warnf("Failed to update catalog for %s: %v", name, err)
		}
	}
	log.Debugf("Loaded corpus %s from %s", name, e.file)
	return c, nil
}

// Names lists the registered names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// File returns the file registered under name, "" for in-memory corpora.
func (r *Registry) File(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e := r.entries[name]; e != nil {
		return e.file
	}
	return ""
}

// Loads counts the files loaded so far.
func (r *Registry) Loads() int64 {
	return r.loads.Load()
}

// LoadCatalog registers every corpus recorded in the catalog.
func (r *Registry) LoadCatalog() error {
	if r.catalog == nil {
		return nil
	}
	recs, err := r.catalog.List()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		if rec.Name == DefaultName || rec.File == "" {
			continue
		}
		if _, exists := r.entries[rec.Name]; !exists {
			r.bind(rec.Name, &entry{file: rec.File})
		}
	}
	return nil
}

// Discover registers every corpus file in dir under its base name.
func (r *Registry) Discover(dir string) (int, error) {
	count := 0
	for _, format := range []store.FileFormat{store.FormatMsgpack, store.FormatJSON} {
		files, err := utils.ListFiles(dir, format.Extension())
		if err != nil {
			return count, err
		}
		for _, file := range files {
			name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			if name == DefaultName {
				continue
			}
			if err := r.Register(name, file); err != nil {
				log.Warnf("Skipping corpus file %s: %v", file, err)
				continue
			}
			count++
		}
	}
	return count, nil
}

// FileFor is the path a corpus called name is saved to inside dataDir.
func FileFor(dataDir, name string, format store.FileFormat) string {
	return filepath.Join(dataDir, slug.Make(name)+format.Extension())
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("corpus name must not be empty")
	}
	if name == DefaultName {
		return fmt.Errorf("corpus name %q is reserved", DefaultName)
	}
	return nil
}
