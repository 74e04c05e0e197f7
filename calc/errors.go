package calc

import (
	"errors"
	"fmt"

	"github.com/robinvdvleuten/ledgercalc/ast"
)

// ErrorKind classifies command errors.
type ErrorKind int

const (
	ScannerError ErrorKind = iota + 1
	InsufficientOperands
	InvalidOperandType
	UnresolvedVariable
	UnknownOperator
	InvalidAssignmentTarget
	IncommensurableCommodity
	DivisionByZero
	InvalidPattern
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrScanner                 = errors.New("unrecognized input")
	ErrInsufficientOperands    = errors.New("insufficient operands")
	ErrInvalidOperandType      = errors.New("invalid operand type")
	ErrUnresolvedVariable      = errors.New("unresolved variable")
	ErrUnknownOperator         = errors.New("unknown operator")
	ErrInvalidAssignmentTarget = errors.New("invalid assignment target")
	ErrIncommensurable         = errors.New("incommensurable commodities")
	ErrDivisionByZero          = errors.New("division by zero")
	ErrPattern                 = errors.New("invalid account pattern")
)

var kindSentinels = map[ErrorKind]error{
	ScannerError:             ErrScanner,
	InsufficientOperands:     ErrInsufficientOperands,
	InvalidOperandType:       ErrInvalidOperandType,
	UnresolvedVariable:       ErrUnresolvedVariable,
	UnknownOperator:          ErrUnknownOperator,
	InvalidAssignmentTarget:  ErrInvalidAssignmentTarget,
	IncommensurableCommodity: ErrIncommensurable,
	DivisionByZero:           ErrDivisionByZero,
	InvalidPattern:           ErrPattern,
}

var kindNames = map[ErrorKind]string{
	ScannerError:             "ScannerError",
	InsufficientOperands:     "InsufficientOperandsError",
	InvalidOperandType:       "InvalidOperandTypeError",
	UnresolvedVariable:       "UnresolvedVariableError",
	UnknownOperator:          "UnknownOperatorError",
	InvalidAssignmentTarget:  "InvalidAssignmentTargetError",
	IncommensurableCommodity: "IncommensurableCommodityError",
	DivisionByZero:           "DivisionByZeroError",
	InvalidPattern:           "PatternError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a fatal error raised while scanning or evaluating a command line.
// Pos carries the file and line of the command and the column of the
// offending token. Cursor is the index of the offending token and Length the
// number of tokens on the line; both are zero for scanner errors.
type Error struct {
	Kind    ErrorKind
	Pos     ast.Position
	Cursor  int
	Length  int
	Token   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Length > 0 {
		msg += fmt.Sprintf(" (token %d of %d)", e.Cursor+1, e.Length)
	}

	switch {
	case e.Pos.Filename != "":
		return fmt.Sprintf("%s:%d: %s", e.Pos.Filename, e.Pos.Line, msg)
	case e.Pos.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Pos.Line, msg)
	default:
		return msg
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// GetPosition returns the location of the offending command.
func (e *Error) GetPosition() ast.Position {
	return e.Pos
}

func newError(kind ErrorKind, tok Token, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Pos:     ast.Position{Column: tok.Column},
		Token:   tok.Text,
		Message: fmt.Sprintf(format, args...),
	}
}
