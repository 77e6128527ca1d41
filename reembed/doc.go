// Package reembed recomputes listing embeddings in bulk.
//
// It is used after switching embedding models, or to fill in vectors for
// listings ingested while no embedder was available. Listings are processed
// in batches with retry and exponential backoff, and vectors are normalized
// to unit length before they are stored.
package reembed
