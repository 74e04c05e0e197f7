// Package ast defines the syntax tree of a ledger journal.
//
// The tree is intentionally shallow: a journal is a list of dated directives
// (transactions and prices) plus declarations (accounts, commodities and
// includes). Anything the calculator does not need, such as payee notes or
// posting metadata, is dropped by the parser.
package ast

import "sort"

// AST is the parsed content of one or more journal files.
type AST struct {
	Directives  []Directive
	Accounts    []*AccountDecl
	Commodities []*CommodityDecl
	Includes    []*Include
}

// Directive is a dated journal entry.
type Directive interface {
	Position() Position
	GetDate() *Date
	Kind() string
}

// Transaction is a dated set of postings.
type Transaction struct {
	Pos      Position
	Date     *Date
	Flag     string
	Code     string
	Payee    string
	Postings []*Posting
}

var _ Directive = &Transaction{}

func (t *Transaction) Position() Position { return t.Pos }
func (t *Transaction) GetDate() *Date     { return t.Date }
func (t *Transaction) Kind() string       { return "transaction" }

// Posting moves an amount into or out of an account. Amount is nil when the
// journal leaves it to be inferred from the rest of the transaction.
type Posting struct {
	Pos     Position
	Flag    string
	Account Account
	Virtual bool
	Amount  *Amount
	Price   *Price
}

// PriceDirective records the value of a commodity on a given day:
//
//	P 2020/01/01 EUR $1.10
type PriceDirective struct {
	Pos       Position
	Date      *Date
	Commodity string
	Amount    *Amount
}

var _ Directive = &PriceDirective{}

func (p *PriceDirective) Position() Position { return p.Pos }
func (p *PriceDirective) GetDate() *Date     { return p.Date }
func (p *PriceDirective) Kind() string       { return "price" }

// AccountDecl is an "account" declaration.
type AccountDecl struct {
	Pos     Position
	Account Account
}

// CommodityDecl is a "commodity" declaration.
type CommodityDecl struct {
	Pos    Position
	Symbol string
}

// Include references another journal file, relative to the including file.
type Include struct {
	Pos      Position
	Filename string
}

// SortDirectives orders directives by date. The sort is stable so entries on
// the same day keep their file order.
func SortDirectives(tree *AST) {
	sort.SliceStable(tree.Directives, func(i, j int) bool {
		return tree.Directives[i].GetDate().Before(tree.Directives[j].GetDate().Time)
	})
}
