package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledgercalc/ast"
	"github.com/robinvdvleuten/ledgercalc/calc"
	"github.com/robinvdvleuten/ledgercalc/parser"
)

func TestErrorRenderer_RenderCommandErrorWithSourceContext(t *testing.T) {
	source := "$food Expenses:Food =\n$rent $x + =\n$left 1 =\n"

	calcErr := &calc.Error{
		Kind:    calc.UnresolvedVariable,
		Pos:     ast.Position{Filename: "budget.calc", Line: 2, Column: 10},
		Cursor:  2,
		Length:  5,
		Token:   "+",
		Message: "variable $x is not assigned",
	}

	renderer := NewErrorRenderer()
	renderer.AddSource("budget.calc", []byte(source))
	output := renderer.Render(fmt.Errorf("run: %w", calcErr))

	assert.Contains(t, output, "budget.calc:2: UnresolvedVariableError")
	assert.Contains(t, output, "   $food Expenses:Food =\n")
	assert.Contains(t, output, "   $rent $x + =\n")
	assert.NotContains(t, output, "$left")

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	caret := lines[len(lines)-1]
	assert.Equal(t, strings.Repeat(" ", 3+9)+"^", caret)
}

func TestErrorRenderer_RenderParseErrorFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.ledger")
	assert.NoError(t, os.WriteFile(path, []byte("2020/01/01 Opening\n    Assets:Cash  $10 {lot}\n"), 0o644))

	parseErr := &parser.ParseError{
		Pos:     ast.Position{Filename: path, Line: 2, Column: 18},
		Message: "lot annotations are not supported",
	}

	output := NewErrorRenderer().Render(parseErr)
	assert.Contains(t, output, "lot annotations are not supported")
	assert.Contains(t, output, "Assets:Cash  $10 {lot}")
	assert.Contains(t, output, "^")
}

func TestErrorRenderer_RenderWithoutSource(t *testing.T) {
	parseErr := &parser.ParseError{
		Pos:     ast.Position{Filename: filepath.Join(t.TempDir(), "missing.ledger"), Line: 6, Column: 4},
		Message: "expected amount",
	}

	output := NewErrorRenderer().Render(parseErr)
	assert.Equal(t, parseErr.Error(), output)
}

func TestErrorRenderer_RenderPlainError(t *testing.T) {
	output := NewErrorRenderer().Render(errors.New("boom"))
	assert.Equal(t, "boom", output)
}

func TestErrorRenderer_LineOutOfRange(t *testing.T) {
	renderer := NewErrorRenderer()
	renderer.AddSource("short.calc", []byte("1 2 +\n"))

	output := renderer.Render(&calc.Error{
		Kind:    calc.ScannerError,
		Pos:     ast.Position{Filename: "short.calc", Line: 9, Column: 1},
		Message: "unrecognized input",
	})
	assert.Contains(t, output, "unrecognized input")
	assert.NotContains(t, output, "^")
}
