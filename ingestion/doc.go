// Package ingestion turns raw catalog files into indexed books.
//
// The Loader parses catalog CSV rows into Books, skipping malformed rows
// and applying ratings, language, and publication-year filters. The
// Preprocessor maps raw genre labels into a standard vocabulary and builds
// the searchable text for each book. The Pipeline ties them together:
// books are written to the catalog repository, embedded in concurrent
// batches by a worker pool, and added to the vector store.
package ingestion
