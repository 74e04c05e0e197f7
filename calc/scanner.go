package calc

import (
	"regexp"
	"strings"

	"github.com/robinvdvleuten/ledgercalc/ledger"
	"github.com/shopspring/decimal"
)

// AccountResolver resolves account patterns to balances.
type AccountResolver interface {
	Resolve(pattern string) (ledger.Balance, error)
}

// scanRule pairs an anchored pattern with the constructor for the tokens it
// matches. A constructor returning emit=false drops the match.
type scanRule struct {
	pattern *regexp.Regexp
	build   func(s *Scanner, text string, column int) (tok Token, emit bool, err error)
}

// scanRules are tried in order at each position; the first match wins.
var scanRules = []scanRule{
	{regexp.MustCompile(`^(?:max|min|subz)\b`), (*Scanner).operator},
	{regexp.MustCompile(`^(?:abs|neg|usd)\b`), (*Scanner).singleOperator},
	{regexp.MustCompile(`^[A-Za-z][\w:]*`), (*Scanner).account},
	{regexp.MustCompile(`^"[A-Za-z.][\w\s:\-.*]*"`), (*Scanner).account},
	{regexp.MustCompile(`^\$\w+`), (*Scanner).variable},
	{regexp.MustCompile(`^[-+*/]`), (*Scanner).operator},
	{regexp.MustCompile(`^=`), (*Scanner).assign},
	{regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?`), (*Scanner).number},
	{regexp.MustCompile(`^\n+`), (*Scanner).endOfLine},
	{regexp.MustCompile(`^#.*`), (*Scanner).comment},
	{regexp.MustCompile(`^[ \t\r\f\v]+`), (*Scanner).whitespace},
}

// Scanner turns command lines into tokens. Account tokens are resolved as
// soon as they are scanned; variables are left for the evaluator.
type Scanner struct {
	resolver  AccountResolver
	reporting *ledger.Commodity
}

// NewScanner creates a scanner resolving accounts with resolver. Number
// literals are amounts of the reporting commodity.
func NewScanner(resolver AccountResolver, reporting *ledger.Commodity) *Scanner {
	return &Scanner{resolver: resolver, reporting: reporting}
}

// Scan tokenizes line. Scanning stops at the first position no rule matches
// and the unmatched rest of the line is returned as remainder.
func (s *Scanner) Scan(line string) (tokens []Token, remainder string, err error) {
	pos := 0
	for pos < len(line) {
		rest := line[pos:]

		matched := false
		for _, rule := range scanRules {
			text := rule.pattern.FindString(rest)
			if text == "" {
				continue
			}

			tok, emit, err := rule.build(s, text, pos+1)
			if err != nil {
				return tokens, rest, err
			}
			if emit {
				tokens = append(tokens, tok)
			}
			pos += len(text)
			matched = true
			break
		}

		if !matched {
			return tokens, rest, nil
		}
	}
	return tokens, "", nil
}

func (s *Scanner) operator(text string, column int) (Token, bool, error) {
	return Token{Type: OPERATOR, Text: text, Column: column}, true, nil
}

func (s *Scanner) singleOperator(text string, column int) (Token, bool, error) {
	return Token{Type: SINGLEOP, Text: text, Column: column}, true, nil
}

func (s *Scanner) account(text string, column int) (Token, bool, error) {
	name := strings.ReplaceAll(text, `"`, "")
	balance, err := s.resolver.Resolve(name)
	if err != nil {
		return Token{}, false, err
	}
	return valueToken(ACCOUNT, balance, name, column), true, nil
}

func (s *Scanner) variable(text string, column int) (Token, bool, error) {
	return Token{Type: VARIABLE, Text: text, Column: column}, true, nil
}

func (s *Scanner) assign(text string, column int) (Token, bool, error) {
	return Token{Type: ASSIGN, Text: text, Column: column}, true, nil
}

func (s *Scanner) number(text string, column int) (Token, bool, error) {
	quantity, err := decimal.NewFromString(text)
	if err != nil {
		return Token{}, false, err
	}
	balance := ledger.NewBalance(ledger.NewAmount(quantity, s.reporting))
	return valueToken(NUMBER, balance, text, column), true, nil
}

func (s *Scanner) endOfLine(text string, column int) (Token, bool, error) {
	return Token{Type: EOL, Text: text, Column: column}, true, nil
}

func (s *Scanner) comment(text string, column int) (Token, bool, error) {
	return Token{Type: COMMENT, Text: text, Column: column}, false, nil
}

func (s *Scanner) whitespace(text string, column int) (Token, bool, error) {
	return Token{}, false, nil
}
