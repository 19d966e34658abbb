package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/docflow/core"
)

// Key prefixes for different data types
const (
	documentRecordPrefix     = "docrec"
	documentRecordDatePrefix = "docrecd"
	taskRecordPrefix         = "taskrec"
	taskDocumentPrefix       = "taskdoc"
	fileBlobPrefix           = "filerec"
	rawTextPrefix            = "rawtext"
)

// makeDocumentKey generates a key for a document record by ID.
func makeDocumentKey(id core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentRecordPrefix, id))
}

// makeDocumentDateKey generates a composite key for the creation-date index.
// Format: prefix:timestamp:id
func makeDocumentDateKey(createdAt time.Time, id core.DocumentID) []byte {
	prefix := documentRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	idBytes := []byte(id)
	buf := make([]byte, len(prefixBytes)+8+len(idBytes))
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], idBytes)
	return buf
}

// makeTaskKey generates a key for a task record by ID.
func makeTaskKey(id core.TaskID) []byte {
	return []byte(fmt.Sprintf("%s:%s", taskRecordPrefix, id))
}

// makeTaskDocumentKey generates a key for the document-to-task index.
func makeTaskDocumentKey(docID core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%s", taskDocumentPrefix, docID))
}

// makeFileKey generates a key for a document's original file bytes.
func makeFileKey(id core.DocumentID) []byte {
	return []byte(fmt.Sprintf("%s:%s", fileBlobPrefix, id))
}

// makeRawTextKey generates a key for content-addressed parsed text.
func makeRawTextKey(ref string) []byte {
	return []byte(fmt.Sprintf("%s:%s", rawTextPrefix, ref))
}
