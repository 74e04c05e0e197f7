package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Balance is a multi-commodity sum of amounts. It is a value type: every
// operation returns a new Balance and leaves its operands untouched.
//
// Entries are kept sorted by commodity symbol and zero entries are dropped
// after every operation, so a zero quantity is never observably different
// from an absent commodity.
type Balance struct {
	entries []Amount
}

// NewBalance creates a balance holding the sum of amounts.
func NewBalance(amounts ...Amount) Balance {
	var b Balance
	for _, a := range amounts {
		b = b.AddAmount(a)
	}
	return b
}

// index returns the position of symbol in entries and whether it is present.
func (b Balance) index(symbol string) (int, bool) {
	i := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].Commodity.Symbol() >= symbol
	})
	return i, i < len(b.entries) && b.entries[i].Commodity.Symbol() == symbol
}

func (b Balance) clone() []Amount {
	entries := make([]Amount, len(b.entries), len(b.entries)+1)
	copy(entries, b.entries)
	return entries
}

// AddAmount returns b + a.
func (b Balance) AddAmount(a Amount) Balance {
	if a.IsZero() {
		return b
	}

	entries := b.clone()
	i, found := b.index(a.Commodity.Symbol())
	if !found {
		entries = append(entries, Amount{})
		copy(entries[i+1:], entries[i:])
		entries[i] = a
		return Balance{entries: entries}
	}

	sum := entries[i].Quantity.Add(a.Quantity)
	if sum.IsZero() {
		return Balance{entries: append(entries[:i], entries[i+1:]...)}
	}
	entries[i].Quantity = sum
	return Balance{entries: entries}
}

// Add returns b + other, merged commodity by commodity.
func (b Balance) Add(other Balance) Balance {
	result := b
	for _, a := range other.entries {
		result = result.AddAmount(a)
	}
	return result
}

// Sub returns b - other.
func (b Balance) Sub(other Balance) Balance {
	return b.Add(other.Neg())
}

// Neg negates every entry.
func (b Balance) Neg() Balance {
	return b.mapEntries(func(a Amount) Amount { return a.Neg() })
}

// Abs takes the absolute value of every entry.
func (b Balance) Abs() Balance {
	return b.mapEntries(func(a Amount) Amount { return a.Abs() })
}

// Mul scales every entry by the quantity of a. The commodity of a is not
// part of the result: balances are scaled, never squared.
func (b Balance) Mul(a Amount) Balance {
	return b.mapEntries(func(e Amount) Amount {
		return NewAmount(e.Quantity.Mul(a.Quantity), e.Commodity)
	})
}

// Div divides every entry by the quantity of a.
func (b Balance) Div(a Amount) (Balance, error) {
	if a.IsZero() {
		return Balance{}, ErrDivisionByZero
	}
	return b.mapEntries(func(e Amount) Amount {
		return NewAmount(e.Quantity.Div(a.Quantity), e.Commodity)
	}), nil
}

func (b Balance) mapEntries(fn func(Amount) Amount) Balance {
	entries := make([]Amount, 0, len(b.entries))
	for _, e := range b.entries {
		if mapped := fn(e); !mapped.IsZero() {
			entries = append(entries, mapped)
		}
	}
	return Balance{entries: entries}
}

// ToAmount reduces the balance to a single amount. An empty balance yields a
// zero amount without commodity; more than one commodity is an error.
func (b Balance) ToAmount() (Amount, error) {
	switch len(b.entries) {
	case 0:
		return Amount{}, nil
	case 1:
		return b.entries[0], nil
	default:
		return Amount{}, &IncommensurableError{Op: "reduce to amount", Commodities: b.Symbols()}
	}
}

// Compare orders two balances that each reduce to a single amount of the
// same commodity (or to zero).
func (b Balance) Compare(other Balance) (int, error) {
	left, err := b.ToAmount()
	if err != nil {
		return 0, err
	}
	right, err := other.ToAmount()
	if err != nil {
		return 0, err
	}
	cmp, err := left.Compare(right)
	if err != nil {
		return 0, &IncommensurableError{Op: "compare", Commodities: []string{left.Commodity.Symbol(), right.Commodity.Symbol()}}
	}
	return cmp, nil
}

// Equal reports whether both balances hold the same quantities.
func (b Balance) Equal(other Balance) bool {
	if len(b.entries) != len(other.entries) {
		return false
	}
	for i, e := range b.entries {
		o := other.entries[i]
		if e.Commodity.Symbol() != o.Commodity.Symbol() || !e.Quantity.Equal(o.Quantity) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the balance has no non-zero entries.
func (b Balance) IsEmpty() bool {
	return len(b.entries) == 0
}

// Get returns the quantity held in symbol.
func (b Balance) Get(symbol string) decimal.Decimal {
	if i, ok := b.index(symbol); ok {
		return b.entries[i].Quantity
	}
	return decimal.Zero
}

// Amounts returns the entries sorted by commodity symbol.
func (b Balance) Amounts() []Amount {
	return b.clone()
}

// Symbols returns the commodity symbols in the balance, sorted.
func (b Balance) Symbols() []string {
	symbols := make([]string, len(b.entries))
	for i, e := range b.entries {
		symbols[i] = e.Commodity.Symbol()
	}
	return symbols
}

// String returns the entries joined by ", ", or "0" for an empty balance.
func (b Balance) String() string {
	if len(b.entries) == 0 {
		return "0"
	}

	parts := make([]string, len(b.entries))
	for i, e := range b.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
