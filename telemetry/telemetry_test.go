package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestNoOpCollector(t *testing.T) {
	collector := noOpCollector{}

	timer := collector.Start("test")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	_, ok := FromContext(context.Background()).(noOpCollector)
	assert.True(t, ok)
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, retrieved == collector)
}

func TestStartTimerNestsUnderRoot(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	root := collector.Start("ledgercalc")
	ctx = WithRootTimer(ctx, root)

	StartTimer(ctx, "load journal").End()
	StartTimer(ctx, "evaluate taxes.calc").End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "ledgercalc: "))
	assert.True(t, strings.HasPrefix(lines[1], "├─ load journal: "))
	assert.True(t, strings.HasPrefix(lines[2], "└─ evaluate taxes.calc: "))
}

func TestTimingCollectorDeepNesting(t *testing.T) {
	collector := NewTimingCollector()

	t1 := collector.Start("Level 1")
	t2 := t1.Child("Level 2")
	t3 := t2.Child("Level 3")
	time.Sleep(time.Millisecond)
	t3.End()
	t2.End()
	t1.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Contains(t, buf.String(), "   └─ Level 3: ")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{1 * time.Millisecond, "1ms"},
		{999 * time.Millisecond, "999ms"},
		{1 * time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.duration))
	}
}

func TestTimingCollectorEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestTimingCollectorCounts(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	root := collector.Start("run books.ledger")
	ctx = WithRootTimer(ctx, root)

	timer := StartTimer(ctx, "commands budget.calc")
	timer.Count(2, "lines")
	timer.Count(3, "lines")
	timer.End()
	StartTimer(ctx, "report").End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[1], "├─ commands budget.calc: "))
	assert.True(t, strings.HasSuffix(lines[1], " (5 lines)"))
	assert.False(t, strings.Contains(lines[2], "("))
}

func TestTimingCollectorStartAttachesToRoot(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("run")
	collector.Start("load").End()
	collector.Start("report").End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Contains(t, buf.String(), "├─ load: ")
	assert.Contains(t, buf.String(), "└─ report: ")
}

func TestTimingCollectorReportsRunningTimers(t *testing.T) {
	collector := NewTimingCollector()
	timer := collector.Start("run")
	timer.Child("commands budget.calc")

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Contains(t, buf.String(), "└─ commands budget.calc: ")

	timer.End()
	timer.End()
}
