// Package resync provides functionality for re-syncing completed documents
// into the vector store, typically after switching embedding models or
// rebuilding a collection.
//
// This package supports batch processing of documents, progress tracking,
// and retry logic with exponential backoff. Point ids are deterministic per
// chunk, so re-syncing overwrites existing points rather than duplicating
// them.
package resync
