package output

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

// Row is one variable of the final report.
type Row struct {
	Name      string
	Quantity  decimal.Decimal
	Commodity string
}

// FormatAmount renders a quantity the way journals write it: symbol
// commodities such as "$" are prefixed, named ones are suffixed.
func FormatAmount(quantity decimal.Decimal, commodity string) string {
	switch {
	case commodity == "":
		return quantity.String()
	case isSymbol(commodity):
		return commodity + quantity.String()
	default:
		return quantity.String() + " " + commodity
	}
}

func isSymbol(commodity string) bool {
	r, size := utf8.DecodeRuneInString(commodity)
	return size == len(commodity) && !unicode.IsLetter(r)
}

// ReportOption configures WriteReport.
type ReportOption func(*reportConfig)

type reportConfig struct {
	align  bool
	styles *Styles
}

// WithAlignment pads names and right-aligns amounts into columns.
func WithAlignment() ReportOption {
	return func(c *reportConfig) {
		c.align = true
	}
}

// WithStyles colors names and amounts.
func WithStyles(styles *Styles) ReportOption {
	return func(c *reportConfig) {
		c.styles = styles
	}
}

// WriteReport writes one "name = value" line per row, in the given order.
// Rows are already projected into one commodity, so values print as plain
// numbers.
func WriteReport(w io.Writer, rows []Row, opts ...ReportOption) error {
	var cfg reportConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	amounts := make([]string, len(rows))
	nameWidth, amountWidth := 0, 0
	for i, row := range rows {
		amounts[i] = row.Quantity.String()
		nameWidth = max(nameWidth, runewidth.StringWidth(row.Name))
		amountWidth = max(amountWidth, runewidth.StringWidth(amounts[i]))
	}

	var buf strings.Builder
	for i, row := range rows {
		name, amount := row.Name, amounts[i]
		namePad, amountPad := "", ""
		if cfg.align {
			namePad = strings.Repeat(" ", nameWidth-runewidth.StringWidth(name))
			amountPad = strings.Repeat(" ", amountWidth-runewidth.StringWidth(amount))
		}
		if cfg.styles != nil {
			name = cfg.styles.Variable(name)
			amount = cfg.styles.Amount(amount, row.Quantity.IsNegative())
		}

		fmt.Fprintf(&buf, "%s%s = %s%s\n", name, namePad, amountPad, amount)
	}

	_, err := io.WriteString(w, buf.String())
	return err
}
