package calc

import (
	"fmt"

	"github.com/robinvdvleuten/ledgercalc/ledger"
)

// TokenType identifies the kind of a scanned token.
type TokenType uint8

const (
	ILLEGAL TokenType = iota

	// Value tokens
	ACCOUNT  // Expenses:Food or "Expenses:.*:Rent"
	VARIABLE // $name
	NUMBER   // 12.50

	// Operators
	ASSIGN   // =
	OPERATOR // + - * / max min subz
	SINGLEOP // abs neg usd

	// Markers
	EOL     // one or more newlines
	COMMENT // # to end of line
)

var tokenNames = map[TokenType]string{
	ILLEGAL:  "ILLEGAL",
	ACCOUNT:  "ACCT",
	VARIABLE: "VAR",
	NUMBER:   "NUM",
	ASSIGN:   "ASSIGN",
	OPERATOR: "OPERATOR",
	SINGLEOP: "SINGLEOP",
	EOL:      "EOL",
	COMMENT:  "COMMENT",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is a scanned element of a command line. Value tokens carry the
// balance they stand for; Value is nil for operators, markers and for
// variables that have not been assigned yet.
type Token struct {
	Type   TokenType
	Value  *ledger.Balance
	Text   string
	Column int // 1-indexed column of the token in its line
}

// IsValue reports whether the token can be an operand.
func (t Token) IsValue() bool {
	return t.Type == ACCOUNT || t.Type == VARIABLE || t.Type == NUMBER
}

// IsResolved reports whether a value token holds a balance.
func (t Token) IsResolved() bool {
	return t.IsValue() && t.Value != nil
}

// String formats the token for diagnostics and token dumps.
func (t Token) String() string {
	if t.IsValue() {
		value := "unset"
		if t.Value != nil {
			value = t.Value.String()
		}
		return fmt.Sprintf("%s(%s = %s)", t.Type, t.Text, value)
	}
	if t.Type == EOL {
		return t.Type.String()
	}
	return fmt.Sprintf("%s(%s)", t.Type, t.Text)
}

func valueToken(typ TokenType, value ledger.Balance, text string, column int) Token {
	return Token{Type: typ, Value: &value, Text: text, Column: column}
}
