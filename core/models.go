package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent derives a deterministic document ID from text content using
// BLAKE2b hashing, for catalog rows that arrive without a stable identifier.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return formatContentID(binary.LittleEndian.Uint64(sum))
}

// formatContentID renders a hash as a fixed-width hex string.
func formatContentID(v uint64) string {
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexdigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}

// Document is the unit stored by the vector store: the searchable surface
// text, a loosely typed metadata mapping from which a Book can be
// reconstructed, and an optional embedding.
//
// Documents are immutable between updates: mutation happens only by full
// replacement, never by partial field edits.
type Document struct {
	ID        string
	Text      string
	Metadata  Metadata
	Embedding []float32 // nil until an embedder has run
	CreatedAt time.Time
}

// NewDocument creates a document with the creation timestamp set to now.
func NewDocument(id, text string, metadata Metadata, embedding []float32) *Document {
	return &Document{
		ID:        id,
		Text:      text,
		Metadata:  metadata,
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	}
}

// RecommendationResult is a single ranked answer produced by the query
// engine. Similarity is the inner product of normalized vectors, in [-1, 1].
// Results are produced per query and never persisted.
type RecommendationResult struct {
	Book        *Book
	Similarity  float32
	Explanation string
}
