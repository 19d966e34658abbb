package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrTaskRepositoryRequired is returned when a task repository is not provided.
	ErrTaskRepositoryRequired = errors.New("task repository required")

	// ErrContentStoreRequired is returned when a content store is not provided.
	ErrContentStoreRequired = errors.New("content store required")

	// ErrParserRequired is returned when a parser client is not provided.
	ErrParserRequired = errors.New("parser client required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrVectorStoreRequired is returned when a vector store is not provided.
	ErrVectorStoreRequired = errors.New("vector store required")

	// ErrDocumentNotFailed is returned when reprocessing is requested for a
	// document that is not in the failed state.
	ErrDocumentNotFailed = errors.New("document is not in failed state")

	// ErrDocumentProcessing is returned when deletion is requested for a
	// document that is still being processed.
	ErrDocumentProcessing = errors.New("document is still processing")
)
