package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/bookrag/core"
)

// ProgressMonitor is a Monitor that writes a single updating progress line.
type ProgressMonitor struct {
	writer         io.Writer
	total          int
	current        int
	chunks         int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

var _ Monitor = (*ProgressMonitor)(nil)

// NewProgressMonitor creates a progress monitor.
// writer: where to write progress output (typically os.Stderr)
// reportInterval: report progress every N documents
func NewProgressMonitor(writer io.Writer, reportInterval int) *ProgressMonitor {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressMonitor{
		writer:         writer,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress over total documents.
func (p *ProgressMonitor) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.total = total
	p.current = 0
	p.chunks = 0
	p.lastReported = 0
}

// DocumentIngested advances progress by one document.
func (p *ProgressMonitor) DocumentIngested(_ string, chunks int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current++
	if p.current > p.total {
		p.current = p.total
	}
	p.chunks += chunks

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish prints final progress.
func (p *ProgressMonitor) Finish(_ *core.IngestSummary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressMonitor) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressMonitor) report() {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(p.current) / secs
	}

	percentage := 100.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %d chunks - %.1f docs/s",
		p.current, p.total, percentage, p.chunks, rate)
}
