// Large journal generator
//
// This tool generates a large ledger journal and a matching command file for
// performance testing and profiling of journal loading and pattern
// resolution.
//
// Usage:
//
//	go run main.go > large.ledger
//	go run main.go 20000000 > large.ledger  # Specify target size in bytes
//	go run main.go -commands > large.calc
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	expenses = []string{
		"Expenses:Food:Groceries",
		"Expenses:Food:Restaurant",
		"Expenses:Home:Rent",
		"Expenses:Home:Utilities",
		"Expenses:Transport:Gas",
		"Expenses:Transport:Transit",
		"Expenses:Shopping:Clothing",
		"Expenses:Shopping:Electronics",
		"Expenses:Travel:Hotel",
		"Expenses:Travel:Rent",
		"Expenses:Healthcare:Medical",
		"Expenses:Taxes:Federal",
	}

	funding = []string{
		"Assets:Bank:Checking",
		"Assets:Bank:Savings",
		"Liabilities:Card:Visa",
	}

	payees = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "BART", "Landlord", "PG&E",
		"Amazon", "Target", "Best Buy", "Hotel du Nord",
	}

	currencies = []string{"EUR", "GBP", "CAD"}
)

const commands = `# Generated command file
$food Expenses:Food =
$home "Expenses:Home:.*" =
$rent ".*:.*:Rent" usd =
$travel Expenses:Travel usd =
$total Expenses usd =
$monthly $total 12 / =
$cash Assets:Bank =
$left $cash $total subz =
$biggest $food $home max =
`

func main() {
	if len(os.Args) > 1 && os.Args[1] == "-commands" {
		fmt.Print(commands)
		return
	}

	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	fmt.Print("; Generated journal\n\n")
	for _, account := range append(append([]string{}, expenses...), funding...) {
		fmt.Printf("account %s\n", account)
	}
	fmt.Println()

	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bytesWritten := 0
	transactions := 0

	for bytesWritten < targetSize {
		var out string
		switch rand.Intn(10) {
		case 0:
			out = priceDirective(date)
		case 1, 2:
			out = foreignTransaction(date)
			transactions++
		default:
			out = simpleTransaction(date)
			transactions++
		}
		fmt.Print(out)
		bytesWritten += len(out)

		if rand.Intn(4) == 0 {
			date = date.AddDate(0, 0, 1)
		}
	}

	fmt.Fprintf(os.Stderr, "Generated %d transactions (%d bytes) through %s\n",
		transactions, bytesWritten, date.Format("2006-01-02"))
}

func amount() string {
	return fmt.Sprintf("%d.%02d", rand.Intn(500)+1, rand.Intn(100))
}

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

func simpleTransaction(date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s * %s\n", date.Format("2006/01/02"), pick(payees))
	fmt.Fprintf(&b, "    %-40s $%s\n", pick(expenses), amount())
	if rand.Intn(3) == 0 {
		fmt.Fprintf(&b, "    %-40s $%s\n", pick(expenses), amount())
	}
	fmt.Fprintf(&b, "    %s\n\n", pick(funding))
	return b.String()
}

func foreignTransaction(date time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", date.Format("2006/01/02"), pick(payees))
	fmt.Fprintf(&b, "    %-40s %s %s @ $1.%02d\n", pick(expenses), amount(), pick(currencies), rand.Intn(40)+5)
	fmt.Fprintf(&b, "    %s\n\n", pick(funding))
	return b.String()
}

func priceDirective(date time.Time) string {
	return fmt.Sprintf("P %s %s $1.%02d\n\n", date.Format("2006/01/02"), pick(currencies), rand.Intn(40)+5)
}
