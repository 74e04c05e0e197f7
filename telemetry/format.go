package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/ledgercalc/output"
)

// slowOperation is the duration from which a timing is highlighted.
const slowOperation = 100 * time.Millisecond

// formatTimingTree outputs the timing tree, for example:
//
//	run main.ledger: 125ms
//	├─ load main.ledger: 80ms
//	├─ process journal: 5ms (1200 directives)
//	├─ commands taxes.calc: 40ms (12 lines)
//	└─ report: 0ms (4 variables)
func formatTimingTree(w io.Writer, root *timerNode, styles *output.Styles) {
	duration := root.duration()

	name := root.name
	if styles != nil {
		name = styles.Keyword(name)
	}
	_, _ = fmt.Fprintf(w, "%s: %s%s\n", name, formatDuration(duration), formatCount(root, styles))

	for i, child := range root.children {
		formatNode(w, child, "", i == len(root.children)-1, styles)
	}
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	duration := node.duration()

	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	if styles != nil {
		_, _ = fmt.Fprintf(w, "%s%s: %s%s\n",
			styles.Dim(prefix+branch),
			node.name,
			styles.Timing(formatDuration(duration), duration >= slowOperation),
			formatCount(node, styles),
		)
	} else {
		_, _ = fmt.Fprintf(w, "%s%s%s: %s%s\n", prefix, branch, node.name, formatDuration(duration), formatCount(node, nil))
	}

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// formatCount renders the work a step did, or nothing when it counted none.
func formatCount(node *timerNode, styles *output.Styles) string {
	if node.unit == "" {
		return ""
	}
	count := fmt.Sprintf("(%d %s)", node.count, node.unit)
	if styles != nil {
		count = styles.Dim(count)
	}
	return " " + count
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
