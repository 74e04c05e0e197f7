package ast

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the date spellings accepted in a ledger journal. Ledger
// itself prefers slashes but dashes and dots are equally common.
var dateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"2006.01.02",
}

// Date represents a calendar day of a transaction or price directive.
type Date struct {
	time.Time
}

// NewDate parses a date in any of the accepted journal layouts.
func NewDate(value string) (*Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &Date{Time: t}, nil
		}
	}
	return nil, fmt.Errorf("invalid date: %s", value)
}

// IsZero returns true if the Date is nil or represents the zero time.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}

// String formats the date as YYYY-MM-DD.
func (d *Date) String() string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}

// Account is a colon separated account path such as "Expenses:Food Court".
// Account segments may contain single spaces.
type Account string

// Segments splits the account into its path components.
func (a Account) Segments() []string {
	if a == "" {
		return nil
	}
	return strings.Split(string(a), ":")
}

// Amount is a quantity and commodity symbol exactly as written in the journal.
// The value is kept as a string so no precision is lost before the ledger
// converts it to a decimal.
type Amount struct {
	Value     string
	Commodity string
}

// String returns the amount as "<value> <commodity>".
func (a *Amount) String() string {
	if a == nil {
		return ""
	}
	if a.Commodity == "" {
		return a.Value
	}
	return a.Value + " " + a.Commodity
}

// Price is a per-unit (@) or total (@@) price annotation on a posting.
type Price struct {
	Amount
	Total bool
}
