package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/doyt-lang/doyt/output"
)

// TimingCollector collects hierarchical timing data.
// Every Start opens a new top-level tree; Child timers nest below it.
type TimingCollector struct {
	mu    sync.Mutex
	roots []*timerNode
}

// timerNode represents a single timed operation in the tree.
type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return time.Since(n.start)
	}
	return n.end.Sub(n.start)
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing a top-level operation.
func (c *TimingCollector) Start(name string) Timer {
	node := &timerNode{name: name, start: time.Now()}

	c.mu.Lock()
	c.roots = append(c.roots, node)
	c.mu.Unlock()

	return &timingTimer{collector: c, node: node}
}

// Report outputs every timing tree to w. Implemented in format.go.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		formatTimingTree(w, root, styles)
	}
}

// timingTimer records into a TimingCollector.
type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer. Ending twice keeps the first end time.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if t.node.end.IsZero() {
		t.node.end = time.Now()
	}
}

// Child creates a nested timer.
func (t *timingTimer) Child(name string) Timer {
	node := &timerNode{name: name, start: time.Now()}

	t.collector.mu.Lock()
	t.node.children = append(t.node.children, node)
	t.collector.mu.Unlock()

	return &timingTimer{collector: t.collector, node: node}
}
