package ingestion

import "github.com/poiesic/bookrag/core"

// Monitor provides hooks to observe an ingestion run.
type Monitor interface {
	// Start is called once documents are loaded, with their count.
	Start(total int)
	// DocumentIngested is called after each document, including those
	// that produced no chunks.
	DocumentIngested(page string, chunks int)
	// Finish is called with the summary of a successful run.
	Finish(summary *core.IngestSummary)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ int)                      {}
func (n *noopMonitor) DocumentIngested(_ string, _ int) {}
func (n *noopMonitor) Finish(_ *core.IngestSummary)     {}
