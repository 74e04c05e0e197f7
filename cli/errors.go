package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robinvdvleuten/ledgercalc/ast"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// positioned is implemented by journal and command errors.
type positioned interface {
	GetPosition() ast.Position
}

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	sources map[string][]byte
}

// NewErrorRenderer creates a renderer. Sources are read from disk on demand
// unless registered with AddSource.
func NewErrorRenderer() *ErrorRenderer {
	return &ErrorRenderer{sources: make(map[string][]byte)}
}

// AddSource registers the content of filename.
func (r *ErrorRenderer) AddSource(filename string, content []byte) {
	r.sources[filename] = content
}

func (r *ErrorRenderer) source(filename string) []byte {
	if content, ok := r.sources[filename]; ok {
		return content
	}
	if filename == "" {
		return nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil
	}
	r.sources[filename] = content
	return content
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var p positioned
	if errors.As(err, &p) {
		pos := p.GetPosition()
		if source := r.source(pos.Filename); source != nil && pos.Line > 0 {
			return r.renderWithSourceContext(pos, err.Error(), source)
		}
	}

	return errorStyle.Render(err.Error())
}

func (r *ErrorRenderer) renderWithSourceContext(pos ast.Position, message string, source []byte) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	lines := strings.Split(string(source), "\n")
	if pos.Line > len(lines) {
		return strings.TrimRight(buf.String(), "\n")
	}

	start := max(pos.Line-3, 0)
	for i := start; i < pos.Line; i++ {
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(strings.TrimRight(lines[i], "\r")))
		buf.WriteByte('\n')
	}

	if pos.Column > 0 {
		buf.WriteString("   ")
		buf.WriteString(strings.Repeat(" ", pos.Column-1))
		buf.WriteString(errCaretStyle.Render("^"))
		buf.WriteByte('\n')
	}

	return buf.String()
}
