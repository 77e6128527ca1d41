// Package ingestion adds listings to the catalog.
//
// Pipeline.Ingest writes listings synchronously and hands their IDs to a
// worker pool that embeds them in the background. Embedding failures are
// logged and reported to an Observer; the listings stay searchable by their
// attributes and keywords until a later reembed run fills the vectors in.
package ingestion
