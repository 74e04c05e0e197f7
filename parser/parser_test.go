package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledgercalc/ast"
)

func TestParseTransaction(t *testing.T) {
	tree, err := ParseString(context.Background(), `
; opening
2020/01/05=2020/01/06 * (1042) Grocery store  ; weekly
    Expenses:Food Court      $50.00
    ; a note
    Assets:Bank:Checking
`)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(tree.Directives))

	txn := tree.Directives[0].(*ast.Transaction)
	assert.Equal(t, "2020-01-05", txn.Date.String())
	assert.Equal(t, "*", txn.Flag)
	assert.Equal(t, "1042", txn.Code)
	assert.Equal(t, "Grocery store", txn.Payee)
	assert.Equal(t, 2, len(txn.Postings))
	assert.Equal(t, ast.Account("Expenses:Food Court"), txn.Postings[0].Account)
	assert.Equal(t, &ast.Amount{Value: "50.00", Commodity: "$"}, txn.Postings[0].Amount)
	assert.Equal(t, ast.Account("Assets:Bank:Checking"), txn.Postings[1].Account)
	assert.Zero(t, txn.Postings[1].Amount)
	assert.Equal(t, 4, txn.Postings[0].Pos.Line)
}

func TestParseAmountSpellings(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Amount
	}{
		{"$50.00", ast.Amount{Value: "50.00", Commodity: "$"}},
		{"-$5", ast.Amount{Value: "-5", Commodity: "$"}},
		{"$-5", ast.Amount{Value: "-5", Commodity: "$"}},
		{"1,234.56 EUR", ast.Amount{Value: "1234.56", Commodity: "EUR"}},
		{"EUR 10", ast.Amount{Value: "10", Commodity: "EUR"}},
		{`10 "M&M"`, ast.Amount{Value: "10", Commodity: "M&M"}},
		{"-3", ast.Amount{Value: "-3"}},
	}

	p := &Parser{interner: NewInterner(8)}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := p.parseAmount(tt.input, 1)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParsePostingPriceAndVirtual(t *testing.T) {
	tree, err := ParseString(context.Background(), `2021-03-01 Exchange
    (Budget:Travel)          100 EUR @ $1.10
    [Assets:Wallet]          10 GBP @@ $13
    Assets:Bank              $-123  = $500
`)
	assert.NoError(t, err)

	txn := tree.Directives[0].(*ast.Transaction)
	assert.True(t, txn.Postings[0].Virtual)
	assert.Equal(t, ast.Account("Budget:Travel"), txn.Postings[0].Account)
	assert.Equal(t, &ast.Price{Amount: ast.Amount{Value: "1.10", Commodity: "$"}}, txn.Postings[0].Price)
	assert.Equal(t, &ast.Price{Amount: ast.Amount{Value: "13", Commodity: "$"}, Total: true}, txn.Postings[1].Price)
	assert.Equal(t, &ast.Amount{Value: "-123", Commodity: "$"}, txn.Postings[2].Amount)
}

func TestParseDirectives(t *testing.T) {
	tree, err := ParseString(context.Background(), `account Expenses:Rent
    note monthly rent
commodity $
    format $1,000.00
include other.ledger
P 2020/01/01 12:00:00 EUR $1.10
payee Landlord
comment
this is ignored
end comment
`)
	assert.NoError(t, err)
	assert.Equal(t, ast.Account("Expenses:Rent"), tree.Accounts[0].Account)
	assert.Equal(t, "$", tree.Commodities[0].Symbol)
	assert.Equal(t, "other.ledger", tree.Includes[0].Filename)

	price := tree.Directives[0].(*ast.PriceDirective)
	assert.Equal(t, "EUR", price.Commodity)
	assert.Equal(t, &ast.Amount{Value: "1.10", Commodity: "$"}, price.Amount)
}

func TestParseDirectivesSortedByDate(t *testing.T) {
	tree, err := ParseString(context.Background(), `2021/01/01 Later
    A  $1
    B

2020/01/01 Earlier
    A  $1
    B
`)
	assert.NoError(t, err)
	assert.Equal(t, "Earlier", tree.Directives[0].(*ast.Transaction).Payee)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		msg   string
	}{
		{"indented outside transaction", "    Expenses:Food  $1\n", 1, "unexpected indented line"},
		{"bad date", "2020/13/45 Payee\n    A  $1\n", 1, "invalid date"},
		{"no postings", "\n2020/01/01 Payee\n", 2, "transaction has no postings"},
		{"bad amount", "2020/01/01 Payee\n    A  $1x2\n", 2, "invalid amount"},
		{"lot price", "2020/01/01 Payee\n    A  10 AAPL {$5}\n", 2, "lot prices are not supported"},
		{"unknown directive", "frobnicate\n", 1, `unsupported directive "frobnicate"`},
		{"unterminated comment", "comment\nfoo\n", 1, "missing end comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytesWithFilename(context.Background(), "test.ledger", []byte(tt.input))
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.line, parseErr.Pos.Line)
			assert.Equal(t, "test.ledger", parseErr.Pos.Filename)
			assert.Contains(t, parseErr.Message, tt.msg)
		})
	}
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ParseString(ctx, "2020/01/01 x\n    A  $1\n")
	assert.IsError(t, err, context.Canceled)
}

func TestInterner(t *testing.T) {
	i := NewInterner(4)
	a := i.Intern("Expenses:Food")
	b := i.Intern("Expenses:Food")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, i.Size())
}
