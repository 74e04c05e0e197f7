// Package ledger holds the in-memory journal the calculator queries: the
// commodity pool, the account tree with its postings, the price graph and
// the multi-commodity Amount and Balance arithmetic.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robinvdvleuten/ledgercalc/ast"
	"github.com/robinvdvleuten/ledgercalc/loader"
	"github.com/robinvdvleuten/ledgercalc/telemetry"
	"github.com/shopspring/decimal"
)

// Journal is a read-only view of a processed journal.
type Journal struct {
	root        *Account
	commodities *CommodityPool
	prices      *PriceGraph
	logger      *slog.Logger
	postings    int
}

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(j *Journal) {
		j.logger = logger
	}
}

// WithCommodities shares a commodity pool with the journal.
func WithCommodities(pool *CommodityPool) Option {
	return func(j *Journal) {
		j.commodities = pool
	}
}

// New creates an empty journal.
func New(opts ...Option) *Journal {
	j := &Journal{
		root:        newRootAccount(),
		commodities: NewCommodityPool(),
		prices:      NewPriceGraph(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// ReadJournal loads filename, following includes, and processes it.
func ReadJournal(ctx context.Context, filename string, opts ...Option) (*Journal, error) {
	tree, err := loader.New(loader.WithFollowIncludes()).Load(ctx, filename)
	if err != nil {
		return nil, err
	}

	j := New(opts...)
	if err := j.Process(ctx, tree); err != nil {
		return nil, err
	}
	return j, nil
}

// Process applies the directives of tree to the journal. Directives are
// expected in date order, as the parser and loader produce them.
func (j *Journal) Process(ctx context.Context, tree *ast.AST) error {
	timer := telemetry.StartTimer(ctx, "process journal")
	defer timer.End()
	timer.Count(len(tree.Directives), "directives")

	for _, decl := range tree.Commodities {
		j.commodities.FindOrCreate(decl.Symbol)
	}
	for _, decl := range tree.Accounts {
		j.root.findOrCreate(decl.Account.Segments())
	}

	for _, directive := range tree.Directives {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch d := directive.(type) {
		case *ast.Transaction:
			err = j.processTransaction(d)
		case *ast.PriceDirective:
			err = j.processPrice(d)
		}
		if err != nil {
			return err
		}
	}

	j.logger.Debug("journal processed",
		slog.Int("directives", len(tree.Directives)),
		slog.Int("postings", j.postings),
		slog.Int("commodities", j.commodities.Len()),
		slog.Int("price_days", j.prices.Len()),
	)
	return nil
}

func (j *Journal) processTransaction(txn *ast.Transaction) error {
	var residual Balance
	var elided *ast.Posting
	amounts := make([]Amount, len(txn.Postings))

	for i, p := range txn.Postings {
		if p.Amount == nil {
			if elided != nil {
				return &TransactionError{Pos: p.Pos, Payee: txn.Payee, Message: "only one posting may omit its amount"}
			}
			elided = p
			continue
		}

		amount, err := ParseAmount(p.Amount, j.commodities)
		if err != nil {
			return &TransactionError{Pos: p.Pos, Payee: txn.Payee, Message: err.Error()}
		}
		amounts[i] = amount

		weight := amount
		if p.Price != nil {
			weight, err = j.applyPrice(txn.Date.Time, amount, p.Price)
			if err != nil {
				return &TransactionError{Pos: p.Pos, Payee: txn.Payee, Message: err.Error()}
			}
		}
		if !p.Virtual {
			residual = residual.AddAmount(weight)
		}
	}

	for i, p := range txn.Postings {
		account := j.root.findOrCreate(p.Account.Segments())
		if p == elided {
			for _, a := range residual.Neg().Amounts() {
				j.book(account, txn, a)
			}
			continue
		}
		j.book(account, txn, amounts[i])
	}
	return nil
}

// applyPrice records the price annotation in the price graph and returns
// the posting's weight in the price commodity.
func (j *Journal) applyPrice(date time.Time, amount Amount, price *ast.Price) (Amount, error) {
	priceAmount, err := ParseAmount(&price.Amount, j.commodities)
	if err != nil {
		return Amount{}, err
	}
	if amount.IsZero() {
		return NewAmount(decimal.Zero, priceAmount.Commodity), nil
	}

	var weight Amount
	if price.Total {
		weight = NewAmount(priceAmount.Quantity.Abs(), priceAmount.Commodity)
		if amount.Sign() < 0 {
			weight = weight.Neg()
		}
	} else {
		weight = NewAmount(amount.Quantity.Mul(priceAmount.Quantity), priceAmount.Commodity)
	}

	if amount.Commodity != nil && priceAmount.Commodity != nil && !priceAmount.IsZero() {
		rate := weight.Quantity.Div(amount.Quantity)
		if err := j.prices.AddPrice(date, amount.Commodity.Symbol(), priceAmount.Commodity.Symbol(), rate); err != nil {
			return Amount{}, err
		}
	}
	return weight, nil
}

func (j *Journal) book(account *Account, txn *ast.Transaction, amount Amount) {
	account.postings = append(account.postings, Posting{
		Date:   txn.Date.Time,
		Amount: amount,
		Payee:  txn.Payee,
	})
	j.postings++
}

func (j *Journal) processPrice(p *ast.PriceDirective) error {
	amount, err := ParseAmount(p.Amount, j.commodities)
	if err != nil {
		return &PriceError{Pos: p.Pos, Message: err.Error()}
	}
	if amount.Commodity == nil {
		return &PriceError{Pos: p.Pos, Message: fmt.Sprintf("price of %s has no commodity", p.Commodity)}
	}
	j.commodities.FindOrCreate(p.Commodity)

	if err := j.prices.AddPrice(p.Date.Time, p.Commodity, amount.Commodity.Symbol(), amount.Quantity); err != nil {
		return &PriceError{Pos: p.Pos, Message: err.Error()}
	}
	return nil
}

// Root returns the root of the account tree.
func (j *Journal) Root() *Account {
	return j.root
}

// FindAccount returns the account reached by following the exact segments of
// path. The empty path is the root. Nil is returned when no account matches.
func (j *Journal) FindAccount(path string) *Account {
	if path == "" {
		return j.root
	}
	return j.root.find(strings.Split(path, ":"))
}

// Commodities returns the journal's commodity pool.
func (j *Journal) Commodities() *CommodityPool {
	return j.commodities
}

// Prices returns the journal's price graph.
func (j *Journal) Prices() *PriceGraph {
	return j.prices
}

// Valuer values balances with the journal's prices as of date. A nil date
// uses the latest known prices.
func (j *Journal) Valuer(date *time.Time) Valuer {
	return &priceValuer{prices: j.prices, date: date}
}
