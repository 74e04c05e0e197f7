package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/ledgercalc/output"
)

// TimingCollector records one run as a tree of timers. The first timer
// started is the root; later calls to Start attach directly below it.
type TimingCollector struct {
	mu   sync.Mutex
	root *timerNode
}

// timerNode is one timed step. count is the amount of work done in the
// step, in unit (lines, directives, variables).
type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	count    int
	unit     string
	children []*timerNode
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing a step of the run.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now()}
	if c.root == nil {
		c.root = node
	} else {
		c.root.children = append(c.root.children, node)
	}
	return &timingTimer{collector: c, node: node}
}

// Report writes the timing tree. Timers that never ended are reported up
// to now.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	formatTimingTree(w, c.root, styles)
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if t.node.end.IsZero() {
		t.node.end = time.Now()
	}
}

func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: time.Now()}
	t.node.children = append(t.node.children, node)
	return &timingTimer{collector: t.collector, node: node}
}

func (t *timingTimer) Count(n int, unit string) {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.count += n
	t.node.unit = unit
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return time.Since(n.start)
	}
	return n.end.Sub(n.start)
}
