package ingestion

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressMonitor_Basic(t *testing.T) {
	var buf bytes.Buffer
	monitor := NewProgressMonitor(&buf, 2)

	monitor.Start(4)
	assert.True(t, monitor.started, "should be started")

	for range 4 {
		monitor.DocumentIngested("page.md", 3)
	}

	time.Sleep(time.Millisecond)
	assert.Greater(t, monitor.Elapsed(), time.Duration(0), "elapsed time should be positive")

	output := buf.String()
	assert.Contains(t, output, "2/4", "should report at interval")
	assert.Contains(t, output, "4/4", "should show completion")
	assert.Contains(t, output, "12 chunks")
}

func TestProgressMonitor_Finish(t *testing.T) {
	var buf bytes.Buffer
	monitor := NewProgressMonitor(&buf, 10)

	monitor.Start(5)
	monitor.DocumentIngested("a.md", 1)
	monitor.Finish(nil)

	output := buf.String()
	assert.Contains(t, output, "5/5", "finish should set to total")
	assert.Contains(t, output, "100.0%", "finish should show 100%")
	assert.True(t, strings.HasSuffix(output, "\n"), "finish should print newline")
}

func TestProgressMonitor_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	monitor := NewProgressMonitor(&buf, 1)

	monitor.DocumentIngested("a.md", 1)
	monitor.Finish(nil)

	assert.Empty(t, buf.String(), "should not output before start")
	assert.Equal(t, time.Duration(0), monitor.Elapsed())
}

func TestProgressMonitor_EmptyRun(t *testing.T) {
	var buf bytes.Buffer
	monitor := NewProgressMonitor(&buf, 0)

	monitor.Start(0)
	monitor.Finish(nil)

	assert.Contains(t, buf.String(), "0/0 (100.0%)")
}
