package ledger

import (
	"fmt"

	"github.com/robinvdvleuten/ledgercalc/ast"
	"github.com/shopspring/decimal"
)

// Amount is a quantity of a single commodity. An Amount with a nil commodity
// is a bare number; it combines with an amount of any commodity.
type Amount struct {
	Quantity  decimal.Decimal
	Commodity *Commodity
}

// NewAmount creates an amount.
func NewAmount(quantity decimal.Decimal, commodity *Commodity) Amount {
	return Amount{Quantity: quantity, Commodity: commodity}
}

// ParseAmount converts an ast.Amount, interning its commodity in pool.
func ParseAmount(amount *ast.Amount, pool *CommodityPool) (Amount, error) {
	if amount == nil {
		return Amount{}, fmt.Errorf("amount is nil")
	}

	d, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount value %q: %w", amount.Value, err)
	}

	var commodity *Commodity
	if amount.Commodity != "" {
		commodity = pool.FindOrCreate(amount.Commodity)
	}
	return NewAmount(d, commodity), nil
}

// IsZero reports whether the quantity is zero.
func (a Amount) IsZero() bool {
	return a.Quantity.IsZero()
}

// Sign returns -1, 0 or 1.
func (a Amount) Sign() int {
	return a.Quantity.Sign()
}

// commodityWith picks the commodity of a combination of a and b, failing
// when both carry different commodities. Zero amounts adopt the other side.
func (a Amount) commodityWith(b Amount) (*Commodity, error) {
	switch {
	case a.Commodity == nil || (a.IsZero() && b.Commodity != nil):
		return b.Commodity, nil
	case b.Commodity == nil || b.IsZero():
		return a.Commodity, nil
	case sameCommodity(a.Commodity, b.Commodity):
		return a.Commodity, nil
	default:
		return nil, &IncommensurableError{Op: "combine", Commodities: []string{a.Commodity.Symbol(), b.Commodity.Symbol()}}
	}
}

// Add returns a + b.
func (a Amount) Add(b Amount) (Amount, error) {
	c, err := a.commodityWith(b)
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(a.Quantity.Add(b.Quantity), c), nil
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) (Amount, error) {
	return a.Add(b.Neg())
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return NewAmount(a.Quantity.Neg(), a.Commodity)
}

// Abs returns |a|.
func (a Amount) Abs() Amount {
	return NewAmount(a.Quantity.Abs(), a.Commodity)
}

// Compare returns -1, 0 or 1 as a is less than, equal to or greater than b.
func (a Amount) Compare(b Amount) (int, error) {
	if _, err := a.commodityWith(b); err != nil {
		return 0, err
	}
	return a.Quantity.Cmp(b.Quantity), nil
}

// String formats the amount as "<quantity> <symbol>".
func (a Amount) String() string {
	if a.Commodity == nil {
		return a.Quantity.String()
	}
	return a.Quantity.String() + " " + a.Commodity.Symbol()
}
