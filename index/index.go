package index

import (
	"fmt"
	"slices"

	"github.com/shelfwise/shelfwise/core"
)

// Index maps document embeddings to nearest neighbors under inner-product
// similarity. It maintains an exact flat structure and a partitioned
// approximate structure over the same dense offset space.
//
// Offsets are assigned densely in insertion order and stay stable within a
// session; removal tombstones an offset rather than compacting, and
// tombstoned offsets are filtered out of every search path so they can never
// surface in results. Build reassigns offsets densely.
//
// Index is not safe for concurrent use; the vector store serializes access.
type Index struct {
	dim        int
	flat       *flatIndex
	ivf        *ivfIndex
	idToOffset map[string]int
	offsetToID []string
	live       []bool
	liveCount  int
}

// Option configures an Index.
type Option func(*options)

type options struct {
	partitions int
	probes     int
}

// WithPartitions sets the number of inverted lists for the approximate
// structure. Default is 100.
func WithPartitions(n int) Option {
	return func(o *options) { o.partitions = n }
}

// WithProbes sets how many partitions a query scans on the approximate
// path. Default is 8.
func WithProbes(n int) Option {
	return func(o *options) { o.probes = n }
}

// New creates an empty index for vectors of the given dimension.
func New(dim int, opts ...Option) *Index {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Index{
		dim:        dim,
		flat:       newFlatIndex(dim),
		ivf:        newIVFIndex(dim, o.partitions, o.probes),
		idToOffset: make(map[string]int),
	}
}

// Dimension returns the configured vector dimension.
func (ix *Index) Dimension() int { return ix.dim }

// Len returns the number of live documents in the index.
func (ix *Index) Len() int { return ix.liveCount }

// Trained reports whether the approximate structure can answer queries.
func (ix *Index) Trained() bool { return ix.ivf.trained }

// Build resets the index and inserts every document, then trains the
// approximate structure. Every document must carry an embedding of the
// configured dimension; any missing or mis-sized embedding fails the whole
// build and leaves the previous contents intact.
func (ix *Index) Build(docs []*core.Document) error {
	for _, doc := range docs {
		if err := ix.checkEmbedding(doc); err != nil {
			return err
		}
	}

	ix.flat = newFlatIndex(ix.dim)
	ix.idToOffset = make(map[string]int, len(docs))
	ix.offsetToID = ix.offsetToID[:0]
	ix.live = ix.live[:0]
	ix.liveCount = 0
	ix.ivf.invalidate()

	for _, doc := range docs {
		ix.insert(doc.ID, slices.Clone(doc.Embedding))
	}
	ix.Train()
	return nil
}

// Add appends documents to the exact structure. The approximate structure's
// partitions become stale; callers needing approximate search afterwards
// must call Train. Validation runs before any insertion, so a failed Add
// mutates nothing.
func (ix *Index) Add(docs []*core.Document) error {
	for _, doc := range docs {
		if err := ix.checkEmbedding(doc); err != nil {
			return err
		}
	}
	for _, doc := range docs {
		if prev, ok := ix.idToOffset[doc.ID]; ok {
			// Full replacement: retire the old offset.
			ix.tombstone(prev)
		}
		ix.insert(doc.ID, slices.Clone(doc.Embedding))
	}
	ix.ivf.invalidate()
	return nil
}

// Remove tombstones the document's offset. Removing an unknown or already
// removed id is a no-op; the call is idempotent. Returns whether a live
// document was removed.
func (ix *Index) Remove(id string) bool {
	offset, ok := ix.idToOffset[id]
	if !ok {
		return false
	}
	delete(ix.idToOffset, id)
	ix.tombstone(offset)
	ix.ivf.invalidate()
	return true
}

// Train rebuilds the approximate partitions over the live vectors.
func (ix *Index) Train() {
	vectors := make([][]float32, 0, ix.liveCount)
	offsets := make([]int, 0, ix.liveCount)
	for offset := range ix.offsetToID {
		if ix.live[offset] {
			vectors = append(vectors, ix.flat.at(offset))
			offsets = append(offsets, offset)
		}
	}
	ix.ivf.train(vectors, offsets)
}

// Search returns up to topK (id, similarity) pairs sorted by descending raw
// inner product, ties broken by insertion order. With approximate set, the
// partitioned structure is scanned if trained; an untrained structure falls
// back to the exact path. Fails if the query dimension differs from the
// index dimension.
func (ix *Index) Search(query []float32, topK int, approximate bool) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), ix.dim)
	}
	if topK <= 0 {
		return nil, nil
	}

	var hits []offsetHit
	if approximate && ix.ivf.trained {
		hits = ix.ivf.search(query, topK, ix.flat.at, ix.isLive)
	} else {
		hits = ix.flat.search(query, topK, ix.isLive)
	}

	out := make([]Hit, len(hits))
	for i, h := range hits {
		out[i] = Hit{ID: ix.offsetToID[h.offset], Score: h.score}
	}
	return out, nil
}

// SearchByID looks up the stored embedding for id and searches with it.
// Fails if the id is unknown.
func (ix *Index) SearchByID(id string, topK int) ([]Hit, error) {
	vec, ok := ix.Vector(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	return ix.Search(vec, topK, false)
}

// Vector returns the stored embedding for a live document id.
func (ix *Index) Vector(id string) ([]float32, bool) {
	offset, ok := ix.idToOffset[id]
	if !ok {
		return nil, false
	}
	return ix.flat.at(offset), true
}

// Contains reports whether the index holds a live document with this id.
func (ix *Index) Contains(id string) bool {
	_, ok := ix.idToOffset[id]
	return ok
}

// IDs returns the live document ids in insertion order.
func (ix *Index) IDs() []string {
	out := make([]string, 0, ix.liveCount)
	for offset, id := range ix.offsetToID {
		if ix.live[offset] {
			out = append(out, id)
		}
	}
	return out
}

func (ix *Index) checkEmbedding(doc *core.Document) error {
	if doc.Embedding == nil {
		return fmt.Errorf("%w: %q", ErrMissingEmbedding, doc.ID)
	}
	if len(doc.Embedding) != ix.dim {
		return fmt.Errorf("%w: document %q has %d dimensions, index has %d",
			ErrDimensionMismatch, doc.ID, len(doc.Embedding), ix.dim)
	}
	return nil
}

func (ix *Index) insert(id string, vec []float32) {
	offset := ix.flat.add(vec)
	ix.idToOffset[id] = offset
	ix.offsetToID = append(ix.offsetToID, id)
	ix.live = append(ix.live, true)
	ix.liveCount++
}

func (ix *Index) tombstone(offset int) {
	if ix.live[offset] {
		ix.live[offset] = false
		ix.liveCount--
	}
}

func (ix *Index) isLive(offset int) bool { return ix.live[offset] }
