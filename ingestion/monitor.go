package ingestion

import (
	"github.com/poiesic/docflow/core"
)

// Monitor provides hooks to observe pipeline progress.
// Implement this interface to track documents as they move through the
// stages. Callbacks are invoked from the worker goroutine owning the
// document; implementations must be safe for concurrent use across
// documents.
type Monitor interface {
	DocumentQueued(document *core.Document)
	TaskUpdated(task *core.Task)
	DocumentCompleted(document *core.Document)
	DocumentFailed(document *core.Document, err error)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) DocumentQueued(_ *core.Document)          {}
func (n *noopMonitor) TaskUpdated(_ *core.Task)                 {}
func (n *noopMonitor) DocumentCompleted(_ *core.Document)       {}
func (n *noopMonitor) DocumentFailed(_ *core.Document, _ error) {}
