package ledger

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestBalanceMergesByCommodity(t *testing.T) {
	b := NewBalance(usd("10"), eur("5"), usd("2.5"))
	assert.Equal(t, []string{"$", "EUR"}, b.Symbols())
	assert.Equal(t, "12.5 $, 5 EUR", b.String())
	assert.Equal(t, "12.5", b.Get("$").String())
	assert.True(t, b.Get("GBP").IsZero())
}

func TestBalanceZeroEntriesVanish(t *testing.T) {
	b := NewBalance(usd("10"), eur("5")).Sub(NewBalance(usd("10")))
	assert.Equal(t, []string{"EUR"}, b.Symbols())
	assert.True(t, b.Equal(NewBalance(eur("5"))))

	empty := NewBalance(usd("3")).Add(NewBalance(usd("-3")))
	assert.True(t, empty.IsEmpty())
	assert.True(t, empty.Equal(Balance{}))
	assert.True(t, NewBalance(usd("0")).IsEmpty())
	assert.Equal(t, "0", empty.String())
}

func TestBalanceIsAValue(t *testing.T) {
	a := NewBalance(usd("1"))
	b := a.AddAmount(usd("1"))
	assert.Equal(t, "1 $", a.String())
	assert.Equal(t, "2 $", b.String())
}

func TestBalanceNegAbs(t *testing.T) {
	b := NewBalance(usd("-10"), eur("5"))
	assert.Equal(t, "10 $, -5 EUR", b.Neg().String())
	assert.Equal(t, "10 $, 5 EUR", b.Abs().String())
}

func TestBalanceMulDiv(t *testing.T) {
	b := NewBalance(usd("10"), eur("4"))

	assert.Equal(t, "25 $, 10 EUR", b.Mul(usd("2.5")).String())

	q, err := b.Div(NewAmount(decimal.NewFromInt(4), nil))
	assert.NoError(t, err)
	assert.Equal(t, "2.5 $, 1 EUR", q.String())

	_, err = b.Div(usd("0"))
	assert.IsError(t, err, ErrDivisionByZero)

	assert.True(t, b.Mul(Amount{}).IsEmpty())
}

func TestBalanceToAmount(t *testing.T) {
	a, err := Balance{}.ToAmount()
	assert.NoError(t, err)
	assert.True(t, a.IsZero())
	assert.Zero(t, a.Commodity)

	a, err = NewBalance(eur("3")).ToAmount()
	assert.NoError(t, err)
	assert.Equal(t, "3 EUR", a.String())

	_, err = NewBalance(eur("3"), usd("1")).ToAmount()
	var incommensurable *IncommensurableError
	assert.True(t, errorAs(err, &incommensurable))
}

func TestBalanceCompare(t *testing.T) {
	tests := []struct {
		name  string
		left  Balance
		right Balance
		want  int
	}{
		{"less", NewBalance(usd("1")), NewBalance(usd("2")), -1},
		{"equal", NewBalance(usd("2")), NewBalance(usd("2")), 0},
		{"greater", NewBalance(usd("3")), NewBalance(usd("2")), 1},
		{"empty vs positive", Balance{}, NewBalance(eur("2")), -1},
		{"negative vs empty", NewBalance(eur("-2")), Balance{}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.left.Compare(tt.right)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NewBalance(usd("1")).Compare(NewBalance(eur("1")))
	assert.Error(t, err)

	_, err = NewBalance(usd("1"), eur("1")).Compare(Balance{})
	assert.Error(t, err)
}

func TestValuerProjectsWithPrices(t *testing.T) {
	j := journalFromString(t, `P 2020/01/01 EUR $1.10
P 2021/01/01 EUR $1.20
`)
	dollar := j.Commodities().FindOrCreate("$")
	b := NewBalance(usd("10"), eur("10"), NewAmount(decimal.NewFromInt(1), nil))

	jun := date(t, "2020-06-01")
	v, ok := j.Valuer(&jun).ValueIn(b, dollar)
	assert.True(t, ok)
	assert.Equal(t, "22 $", v.String())

	v, ok = j.Valuer(nil).ValueIn(b, dollar)
	assert.True(t, ok)
	assert.Equal(t, "23 $", v.String())

	v, ok = j.Valuer(nil).ValueIn(Balance{}, dollar)
	assert.True(t, ok)
	assert.True(t, v.IsZero())

	_, ok = j.Valuer(nil).ValueIn(NewBalance(NewAmount(decimal.NewFromInt(1), j.Commodities().FindOrCreate("GBP"))), dollar)
	assert.False(t, ok)
}
