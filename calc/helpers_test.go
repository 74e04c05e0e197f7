package calc

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledgercalc/ledger"
	"github.com/robinvdvleuten/ledgercalc/parser"
)

const testJournal = `2020/01/01 Opening balance
    Assets:Checking          $2000
    Equity:Opening

2020/01/05 Grocer
    Expenses:Food            $50
    Assets:Checking

2020/02/01 Landlord
    Expenses:Home:Rent       $800
    Assets:Checking

2020/03/01 Hotel
    Expenses:Travel:Rent     100 EUR @ $1.10
    Assets:Checking

2020/04/01 Broker
    Assets:Broker            10 AAPL
    Equity:Opening

P 2021/01/01 EUR $1.20

2021/06/01 Grocer
    Expenses:Food            $30
    Assets:Checking
`

func testLedger(t *testing.T) *ledger.Journal {
	t.Helper()
	tree, err := parser.ParseString(context.Background(), testJournal)
	assert.NoError(t, err)

	j := ledger.New()
	assert.NoError(t, j.Process(context.Background(), tree))
	return j
}

func newTestRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	return NewRunner(testLedger(t), opts...)
}

// run executes commands and fails the test on error.
func run(t *testing.T, r *Runner, commands string) {
	t.Helper()
	assert.NoError(t, r.Run(context.Background(), "commands", strings.NewReader(commands)))
}

// variable returns the string form of a bound variable.
func variable(t *testing.T, r *Runner, name string) string {
	t.Helper()
	value, ok := r.Environment().Get(name)
	assert.True(t, ok, "variable %q is not bound", name)
	return value.String()
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	assert.NoError(t, err)
	return d
}
