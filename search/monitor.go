package search

import "github.com/poiesic/bookrag/core"

// QueryMonitor provides hooks to observe the query process.
// Implement this interface to track intermediate steps and results.
type QueryMonitor interface {
	Start(question string, topK int)
	AfterEmbedding(vector []float32)
	AfterSearch(hits []core.ScoredPoint)
	Finish(results []core.QueryResult)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)            {}
func (n *noopMonitor) AfterEmbedding(_ []float32)       {}
func (n *noopMonitor) AfterSearch(_ []core.ScoredPoint) {}
func (n *noopMonitor) Finish(_ []core.QueryResult)      {}
