// Copyright 2025 Shelfwise Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/shelfwise/shelfwise/core"
	"github.com/shelfwise/shelfwise/index"
)

// VectorStore is the single owner of the vector index, the document mapping,
// and the result cache. It is the unit of persistence and the only component
// that touches the three together.
//
// A coarse read/write lock serializes access: searches and lookups are
// readers, while add/remove/rebuild/save/load are writers. Every mutation
// clears the result cache wholesale, so a cache hit is always equivalent to
// a fresh search against the current index state.
type VectorStore struct {
	mu     sync.RWMutex
	dim    int
	index  *index.Index
	docs   map[string]*core.Document
	cache  *ResultCache
	logger *slog.Logger

	searches  atomic.Uint64 // index searches actually executed
	cacheHits atomic.Uint64
}

// Stats is a point-in-time view of store activity.
type Stats struct {
	Documents     int
	Trained       bool
	IndexSearches uint64
	CacheHits     uint64
	CacheEntries  int
}

// Option configures a VectorStore.
type Option func(*VectorStore) error

// WithLogger sets a custom logger for store operations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *VectorStore) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithCacheCapacity bounds the result cache. Default is
// DefaultCacheCapacity.
func WithCacheCapacity(capacity int) Option {
	return func(s *VectorStore) error {
		if capacity <= 0 {
			return fmt.Errorf("cache capacity must be positive, got %d", capacity)
		}
		s.cache = NewResultCache(capacity)
		return nil
	}
}

// WithIndexOptions forwards options to the underlying index.
func WithIndexOptions(opts ...index.Option) Option {
	return func(s *VectorStore) error {
		s.index = index.New(s.dim, opts...)
		return nil
	}
}

// New creates an empty store for embeddings of the given dimension.
func New(dim int, opts ...Option) (*VectorStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: non-positive dimension %d", core.ErrIndex, dim)
	}
	s := &VectorStore{
		dim:    dim,
		index:  index.New(dim),
		docs:   make(map[string]*core.Document),
		cache:  NewResultCache(DefaultCacheCapacity),
		logger: slog.Default().With("component", "vectorstore"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply store option: %w", err)
		}
	}
	return s, nil
}

// Dimension returns the configured embedding dimension.
func (s *VectorStore) Dimension() int { return s.dim }

// Len returns the number of stored documents.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Add inserts documents, replacing any existing document with the same id.
// Every document must carry an embedding of the store dimension; validation
// runs before any insertion, so a failed Add mutates nothing. The result
// cache is cleared on success.
func (s *VectorStore) Add(docs ...*core.Document) error {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Add(docs); err != nil {
		return err
	}
	for _, doc := range docs {
		s.docs[doc.ID] = doc
	}
	s.cache.Clear()
	s.logger.Debug("documents added", "count", len(docs), "total", len(s.docs))
	return nil
}

// Remove deletes the document with the given id. Removing an unknown id is
// a no-op; the call is idempotent. Returns whether a document was removed.
func (s *VectorStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	s.index.Remove(id)
	s.cache.Clear()
	s.logger.Debug("document removed", "id", id, "total", len(s.docs))
	return true
}

// Get returns the document for id. Fails with ErrNotFound.
func (s *VectorStore) Get(id string) (*core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return doc, nil
}

// Contains reports whether a document with this id is stored.
func (s *VectorStore) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[id]
	return ok
}

// All returns every stored document in insertion order.
func (s *VectorStore) All() []*core.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.Document, 0, len(s.docs))
	for _, id := range s.index.IDs() {
		if doc, ok := s.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// Rebuild replaces the entire contents with the given documents and trains
// the partitioned structure from scratch. A failed rebuild leaves the
// previous contents intact.
func (s *VectorStore) Rebuild(docs []*core.Document) error {
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Build(docs); err != nil {
		return err
	}
	s.docs = make(map[string]*core.Document, len(docs))
	for _, doc := range docs {
		s.docs[doc.ID] = doc
	}
	s.cache.Clear()
	s.logger.Info("index rebuilt", "documents", len(docs), "trained", s.index.Trained())
	return nil
}

// Train rebuilds the partitioned structure over the current contents, so
// approximate search reflects documents added since the last training.
func (s *VectorStore) Train() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index.Train()
	s.cache.Clear()
}

// Search returns up to topK neighbors of the query vector, most similar
// first. Identical (vector, topK) searches within the cache window are
// answered from the cache without touching the index.
func (s *VectorStore) Search(query []float32, topK int, approximate bool) ([]index.Hit, error) {
	key := cacheKey(query, topK)
	if hits, ok := s.cache.Get(key); ok {
		s.cacheHits.Add(1)
		return hits, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits, err := s.index.Search(query, topK, approximate)
	if err != nil {
		return nil, err
	}
	s.searches.Add(1)
	s.cache.Put(key, hits)
	return hits, nil
}

// SearchSimilar searches with the stored embedding of an existing document.
// Fails if the id is unknown.
func (s *VectorStore) SearchSimilar(id string, topK int, approximate bool) ([]index.Hit, error) {
	s.mu.RLock()
	vec, ok := s.index.Vector(id)
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", index.ErrUnknownID, id)
	}
	return s.Search(vec, topK, approximate)
}

// Vector returns the stored embedding for a document id.
func (s *VectorStore) Vector(id string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Vector(id)
}

// Save writes the index structures and a full document dump as three
// artifacts under the base path.
func (s *VectorStore) Save(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exact, approx := s.index.Snapshot()
	docs := make([]*core.Document, 0, len(s.docs))
	for _, id := range s.index.IDs() {
		if doc, ok := s.docs[id]; ok {
			docs = append(docs, doc)
		}
	}
	if err := writeSnapshot(path, exact, approx, docs); err != nil {
		return err
	}
	s.logger.Info("snapshot saved", "path", path, "documents", len(docs))
	return nil
}

// Load replaces the store contents from a snapshot written by Save. Load is
// all-or-nothing: a truncated, mismatched, or unparsable snapshot fails
// without touching the prior contents. The result cache is cleared on
// success.
func (s *VectorStore) Load(path string) error {
	exact, approx, docs, err := readSnapshot(path)
	if err != nil {
		return err
	}
	if exact.Dim != s.dim {
		return fmt.Errorf("%w: snapshot dimension %d, store dimension %d", ErrSnapshotRead, exact.Dim, s.dim)
	}

	ix, err := index.FromSnapshot(exact, approx)
	if err != nil {
		return err
	}
	byID := make(map[string]*core.Document, len(docs))
	for _, doc := range docs {
		byID[doc.ID] = doc
	}
	for _, id := range ix.IDs() {
		if _, ok := byID[id]; ok {
			continue
		}
		return fmt.Errorf("%w: index references document %q absent from mapping", ErrSnapshotRead, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = ix
	s.docs = byID
	s.cache.Clear()
	s.logger.Info("snapshot loaded", "path", path, "documents", len(byID), "trained", ix.Trained())
	return nil
}

// Stats returns a point-in-time view of store activity.
func (s *VectorStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Documents:     len(s.docs),
		Trained:       s.index.Trained(),
		IndexSearches: s.searches.Load(),
		CacheHits:     s.cacheHits.Load(),
		CacheEntries:  s.cache.Len(),
	}
}
