// Package ingestion provides pipeline orchestration for turning uploaded
// files into searchable knowledge points.
//
// The Pipeline type manages the ingestion workflow for documents, including:
//   - Validating files against the intake allow-list
//   - Parsing files to plain text via an external parser service
//   - Chunking text and syncing one vector-store point per chunk
//   - Extracting entities and recording counts on the document
//
// Each document is processed as an independent unit of work on a shared
// worker pool. One document's failure never aborts its siblings; failures
// are recorded on the document and surfaced through the task record.
package ingestion
