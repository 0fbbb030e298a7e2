// Package reembed re-embeds the book catalog with a new or updated
// embedding model and rebuilds the vector store from the results.
//
// Books are processed in batches with progress reporting and retry logic
// with exponential backoff around the embedding service. Vectors are
// normalized before indexing so inner-product search behaves as cosine
// similarity.
package reembed
