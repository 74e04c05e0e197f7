package parser

import (
	"context"
	"testing"
)

func FuzzParser(f *testing.F) {
	seeds := []string{
		"2020/01/05 * Grocer\n    Expenses:Food  $50\n    Assets:Checking",
		"2020-01-05 (42) Rent\n    Expenses:Home:Rent  800 EUR @ $1.10\n    Assets:Checking  $-880",
		"2020.01.05 Trip\n    (Budget:Travel)  10 GBP @@ $13\n    [Assets:Wallet]  -$13",
		"P 2020/01/01 EUR $1.10",
		"account Expenses:Food\n    note groceries",
		"commodity \"AAPL 2\"",
		"include other.ledger",
		"comment\nanything\nend comment",
		"; comment\n# comment\n% comment",
		"",
		"  \n\n  \n",
		"2020/01/05 Lot\n    Assets:Broker  10 AAPL {$100}\n    Assets:Checking",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, source string) {
		tree, err := ParseString(context.Background(), source)
		if err != nil {
			if _, ok := err.(*ParseError); !ok {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			return
		}
		if tree == nil {
			t.Fatal("nil AST without error")
		}
	})
}
