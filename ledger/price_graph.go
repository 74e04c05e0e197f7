package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PriceGraph maintains a temporal index of commodity prices with
// forward-fill lookups (most recent price on or before a given date).
//
// Prices are stored in both directions: adding EUR -> $ at 1.10 also records
// $ -> EUR at 1/1.10. Same-commodity conversions always have a rate of 1.
type PriceGraph struct {
	// pricesByDate maps a day to from -> to -> rate.
	pricesByDate map[time.Time]map[string]map[string]decimal.Decimal
	// sortedDates keeps the days in chronological order.
	sortedDates []time.Time
}

// NewPriceGraph creates an empty price graph.
func NewPriceGraph() *PriceGraph {
	return &PriceGraph{
		pricesByDate: make(map[time.Time]map[string]map[string]decimal.Decimal),
	}
}

// AddPrice records the rate from one commodity to another on date.
// Zero rates are rejected.
func (pg *PriceGraph) AddPrice(date time.Time, from, to string, rate decimal.Decimal) error {
	if rate.IsZero() {
		return fmt.Errorf("price rate must be non-zero: %s %s %s on %s", from, to, rate, date.Format("2006-01-02"))
	}

	day := truncateDay(date)
	rates, exists := pg.pricesByDate[day]
	if !exists {
		rates = make(map[string]map[string]decimal.Decimal)
		pg.pricesByDate[day] = rates

		i := sort.Search(len(pg.sortedDates), func(i int) bool {
			return !pg.sortedDates[i].Before(day)
		})
		pg.sortedDates = append(pg.sortedDates, time.Time{})
		copy(pg.sortedDates[i+1:], pg.sortedDates[i:])
		pg.sortedDates[i] = day
	}

	if rates[from] == nil {
		rates[from] = make(map[string]decimal.Decimal)
	}
	if rates[to] == nil {
		rates[to] = make(map[string]decimal.Decimal)
	}

	rates[from][to] = rate
	rates[to][from] = decimal.NewFromInt(1).Div(rate)

	return nil
}

// LookupPrice returns the rate from one commodity to another using the most
// recent price on or before date. A nil date uses the latest known price.
// Without a direct price, one intermediate commodity is tried, so a stock
// priced in EUR can be valued in $ through the EUR rate.
func (pg *PriceGraph) LookupPrice(date *time.Time, from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if rate, ok := pg.latestRate(date, from, to); ok {
		return rate, true
	}

	seen := make(map[string]bool)
	for i := len(pg.sortedDates) - 1; i >= 0; i-- {
		day := pg.sortedDates[i]
		if date != nil && day.After(*date) {
			continue
		}
		for via := range pg.pricesByDate[day][from] {
			if via == to || seen[via] {
				continue
			}
			seen[via] = true

			first, _ := pg.latestRate(date, from, via)
			second, ok := pg.latestRate(date, via, to)
			if ok {
				return first.Mul(second), true
			}
		}
	}

	return decimal.Zero, false
}

// latestRate returns the most recent direct rate on or before date.
func (pg *PriceGraph) latestRate(date *time.Time, from, to string) (decimal.Decimal, bool) {
	for i := len(pg.sortedDates) - 1; i >= 0; i-- {
		day := pg.sortedDates[i]
		if date != nil && day.After(*date) {
			continue
		}
		if rate, found := pg.pricesByDate[day][from][to]; found {
			return rate, true
		}
	}
	return decimal.Zero, false
}

// Len returns the number of days with at least one price.
func (pg *PriceGraph) Len() int {
	return len(pg.sortedDates)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
