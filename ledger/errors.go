package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/ledgercalc/ast"
)

// ErrDivisionByZero is returned when a balance is divided by a zero amount.
var ErrDivisionByZero = errors.New("division by zero")

// IncommensurableError is returned when an operation needs amounts of a
// single commodity but is given different ones.
type IncommensurableError struct {
	Op          string
	Commodities []string
}

func (e *IncommensurableError) Error() string {
	symbols := make([]string, len(e.Commodities))
	for i, s := range e.Commodities {
		if s == "" {
			s = "<none>"
		}
		symbols[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("cannot %s: incommensurable commodities %s", e.Op, strings.Join(symbols, ", "))
}

// TransactionError is returned when a journal transaction cannot be applied.
type TransactionError struct {
	Pos     ast.Position
	Payee   string
	Message string
}

func (e *TransactionError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}
	return fmt.Sprintf("%s: %s (%q)", location, e.Message, e.Payee)
}

// GetPosition returns the position of the offending transaction.
func (e *TransactionError) GetPosition() ast.Position {
	return e.Pos
}

// PriceError is returned when a price directive cannot be recorded.
type PriceError struct {
	Pos     ast.Position
	Message string
}

func (e *PriceError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}
	return fmt.Sprintf("%s: %s", location, e.Message)
}

// GetPosition returns the position of the offending price.
func (e *PriceError) GetPosition() ast.Position {
	return e.Pos
}
