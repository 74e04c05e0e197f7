// Package parser reads ledger-cli style journals into an ast.AST.
//
// The supported subset covers what balance queries need:
//
//	; comment
//	account Expenses:Food
//	commodity $
//	include other.ledger
//	P 2020/01/01 EUR $1.10
//
//	2020/01/05 * (1042) Grocery store  ; note
//	    Expenses:Food            $50.00
//	    Assets:Bank:Checking
//
// Postings may carry a price (`10 EUR @ $1.10`, `10 EUR @@ $11`) and at most
// one posting per transaction may leave its amount out.
package parser

import (
	"bytes"
	"context"
	"strings"

	"github.com/robinvdvleuten/ledgercalc/ast"
)

// checkEvery is how many lines are parsed between context cancellation checks.
const checkEvery = 1024

// Parser holds the state of a single journal parse.
type Parser struct {
	filename string
	lines    []string
	line     int // index into lines of the line being parsed
	interner *Interner
	tree     *ast.AST
}

// ParseString parses journal source held in a string.
func ParseString(ctx context.Context, source string) (*ast.AST, error) {
	return ParseBytesWithFilename(ctx, "", []byte(source))
}

// ParseBytesWithFilename parses journal source, reporting positions against filename.
func ParseBytesWithFilename(ctx context.Context, filename string, source []byte) (*ast.AST, error) {
	p := &Parser{
		filename: filename,
		lines:    strings.Split(string(bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))), "\n"),
		interner: NewInterner(len(source)/40 + 64),
		tree:     &ast.AST{},
	}

	if err := p.parse(ctx); err != nil {
		return nil, err
	}

	ast.SortDirectives(p.tree)
	return p.tree, nil
}

func (p *Parser) parse(ctx context.Context) error {
	for p.line < len(p.lines) {
		if p.line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		text := p.lines[p.line]
		switch {
		case strings.TrimSpace(text) == "":
			p.line++
		case isSpace(text[0]):
			return p.errorAt(1, "unexpected indented line outside of a transaction")
		case strings.IndexByte(";#%|*", text[0]) >= 0:
			p.line++
		case isDigit(text[0]):
			if err := p.parseTransaction(); err != nil {
				return err
			}
		default:
			if err := p.parseDirective(); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseTransaction parses a transaction header and its indented postings.
func (p *Parser) parseTransaction() error {
	l := newLineLexer(p.lines[p.line])
	pos := p.position(1)

	dateText := l.word()
	if i := strings.IndexByte(dateText, '='); i >= 0 {
		dateText = dateText[:i] // auxiliary date
	}
	date, err := ast.NewDate(dateText)
	if err != nil {
		return p.errorAt(1, "invalid date %q", dateText)
	}

	txn := &ast.Transaction{Pos: pos, Date: date}

	l.skipSpaces()
	if ch := l.peek(); ch == '*' || ch == '!' {
		txn.Flag = string(l.advance())
		l.skipSpaces()
	}
	if l.peek() == '(' {
		l.advance()
		start := l.pos
		for !l.atEnd() && l.peek() != ')' {
			l.advance()
		}
		if l.atEnd() {
			return p.errorAt(start, "unterminated transaction code")
		}
		txn.Code = l.text[start:l.pos]
		l.advance()
	}
	txn.Payee = l.restBeforeComment()
	p.line++

	for p.line < len(p.lines) {
		text := p.lines[p.line]
		if strings.TrimSpace(text) == "" || !isSpace(text[0]) {
			break
		}
		if trimmed := strings.TrimSpace(text); trimmed[0] == ';' {
			p.line++
			continue
		}

		posting, err := p.parsePosting()
		if err != nil {
			return err
		}
		txn.Postings = append(txn.Postings, posting)
		p.line++
	}

	if len(txn.Postings) == 0 {
		return &ParseError{Pos: pos, Message: "transaction has no postings"}
	}

	p.tree.Directives = append(p.tree.Directives, txn)
	return nil
}

// parsePosting parses an indented posting line.
func (p *Parser) parsePosting() (*ast.Posting, error) {
	l := newLineLexer(p.lines[p.line])
	l.skipSpaces()
	posting := &ast.Posting{Pos: p.position(l.column())}

	if ch := l.peek(); ch == '*' || ch == '!' {
		posting.Flag = string(l.advance())
		l.skipSpaces()
	}

	var name string
	switch open := l.peek(); open {
	case '(', '[':
		closer := byte(')')
		if open == '[' {
			closer = ']'
		}
		l.advance()
		start := l.pos
		for !l.atEnd() && l.peek() != closer {
			l.advance()
		}
		if l.atEnd() {
			return nil, p.errorAt(start, "unterminated virtual account")
		}
		name = l.text[start:l.pos]
		l.advance()
		posting.Virtual = true
	default:
		name = l.accountName()
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, p.errorAt(l.column(), "expected account name")
	}
	posting.Account = ast.Account(p.interner.Intern(name))

	amountCol := l.column()
	text := l.restBeforeComment()
	if text == "" {
		return posting, nil
	}

	// Balance assertions ("= $100") are not checked.
	if i := strings.IndexByte(text, '='); i >= 0 {
		text = strings.TrimSpace(text[:i])
		if text == "" {
			return posting, nil
		}
	}

	amountText, priceText, total := splitPrice(text)
	amount, err := p.parseAmount(amountText, amountCol)
	if err != nil {
		return nil, err
	}
	posting.Amount = amount

	if priceText != "" {
		price, err := p.parseAmount(priceText, amountCol)
		if err != nil {
			return nil, err
		}
		posting.Price = &ast.Price{Amount: *price, Total: total}
	}

	return posting, nil
}

// splitPrice separates "10 EUR @ $1.10" into the amount and price parts.
func splitPrice(text string) (amount, price string, total bool) {
	i := strings.IndexByte(text, '@')
	if i < 0 {
		return text, "", false
	}
	amount = strings.TrimSpace(text[:i])
	rest := text[i+1:]
	if strings.HasPrefix(rest, "@") {
		rest = rest[1:]
		total = true
	}
	return amount, strings.TrimSpace(rest), total
}

// parseAmount parses the amount spellings ledger accepts: "$50.00", "-$5",
// "$-5", "50 EUR", "EUR 50" and quoted symbols such as `10 "M&M"`.
func (p *Parser) parseAmount(text string, col int) (*ast.Amount, error) {
	l := newLineLexer(text)
	negative := false
	if l.peek() == '-' {
		negative = true
		l.advance()
		l.skipSpaces()
	}

	var quantity, commodity string
	var err error
	if isDigit(l.peek()) {
		quantity = scanQuantity(l)
		l.skipSpaces()
		if commodity, err = scanCommodity(l); err != nil {
			return nil, p.errorAt(col, "%v", err)
		}
	} else {
		if commodity, err = scanCommodity(l); err != nil {
			return nil, p.errorAt(col, "%v", err)
		}
		l.skipSpaces()
		if l.peek() == '-' {
			negative = !negative
			l.advance()
		}
		quantity = scanQuantity(l)
	}

	l.skipSpaces()
	if l.peek() == '{' {
		return nil, p.errorAt(col+l.pos, "lot prices are not supported")
	}
	if quantity == "" || !l.atEnd() {
		return nil, p.errorAt(col, "invalid amount %q", text)
	}

	if negative {
		quantity = "-" + quantity
	}
	return &ast.Amount{
		Value:     quantity,
		Commodity: p.interner.Intern(commodity),
	}, nil
}

// scanQuantity scans digits with optional thousands separators and a
// fractional part. Separators are dropped from the result.
func scanQuantity(l *lineLexer) string {
	var b strings.Builder
	seenDot := false
	for !l.atEnd() {
		ch := l.peek()
		switch {
		case isDigit(ch):
			b.WriteByte(ch)
		case ch == ',':
		case ch == '.' && !seenDot:
			seenDot = true
			b.WriteByte(ch)
		default:
			return b.String()
		}
		l.advance()
	}
	return b.String()
}

// scanCommodity scans a quoted or bare commodity symbol. A missing symbol
// yields the empty string.
func scanCommodity(l *lineLexer) (string, error) {
	if l.peek() == '"' {
		l.advance()
		start := l.pos
		for !l.atEnd() && l.peek() != '"' {
			l.advance()
		}
		if l.atEnd() {
			return "", errUnterminatedCommodity
		}
		symbol := l.text[start:l.pos]
		l.advance()
		return symbol, nil
	}

	start := l.pos
	for !l.atEnd() && isCommodityByte(l.peek()) {
		l.advance()
	}
	return l.text[start:l.pos], nil
}

// parseDirective parses a top-level keyword line.
func (p *Parser) parseDirective() error {
	l := newLineLexer(p.lines[p.line])
	pos := p.position(1)
	keyword := l.word()
	l.skipSpaces()

	switch keyword {
	case "P":
		return p.parsePrice(l, pos)

	case "account":
		name := l.restBeforeComment()
		if name == "" {
			return p.errorAt(l.column(), "expected account name")
		}
		p.tree.Accounts = append(p.tree.Accounts, &ast.AccountDecl{
			Pos:     pos,
			Account: ast.Account(p.interner.Intern(name)),
		})
		p.skipBlock()

	case "commodity":
		symbol, err := scanCommodity(l)
		if err != nil || symbol == "" {
			return p.errorAt(l.column(), "expected commodity symbol")
		}
		p.tree.Commodities = append(p.tree.Commodities, &ast.CommodityDecl{
			Pos:    pos,
			Symbol: p.interner.Intern(symbol),
		})
		p.skipBlock()

	case "include", "!include":
		filename := strings.Trim(l.rest(), `"`)
		if filename == "" {
			return p.errorAt(l.column(), "expected filename")
		}
		p.tree.Includes = append(p.tree.Includes, &ast.Include{Pos: pos, Filename: filename})
		p.line++

	case "comment", "test":
		return p.skipUntil("end " + keyword)

	case "payee", "tag", "alias", "apply", "end", "year", "Y", "D", "N", "define", "bucket", "A":
		p.skipBlock()

	default:
		return p.errorAt(1, "unsupported directive %q", keyword)
	}
	return nil
}

// parsePrice parses "P DATE [TIME] SYMBOL AMOUNT".
func (p *Parser) parsePrice(l *lineLexer, pos ast.Position) error {
	dateText := l.word()
	date, err := ast.NewDate(dateText)
	if err != nil {
		return p.errorAt(pos.Column+2, "invalid date %q", dateText)
	}
	l.skipSpaces()

	// Optional time of day.
	if isDigit(l.peek()) && strings.Contains(l.text[l.pos:], ":") {
		save := l.pos
		if word := l.word(); strings.Count(word, ":") >= 1 && isDigit(word[len(word)-1]) {
			l.skipSpaces()
		} else {
			l.pos = save
		}
	}

	symbol, err := scanCommodity(l)
	if err != nil || symbol == "" {
		return p.errorAt(l.column(), "expected commodity symbol")
	}

	col := l.column()
	text := l.restBeforeComment()
	amount, err := p.parseAmount(text, col)
	if err != nil {
		return err
	}

	p.tree.Directives = append(p.tree.Directives, &ast.PriceDirective{
		Pos:       pos,
		Date:      date,
		Commodity: p.interner.Intern(symbol),
		Amount:    amount,
	})
	p.line++
	return nil
}

// skipBlock skips the current line and any indented lines below it.
func (p *Parser) skipBlock() {
	p.line++
	for p.line < len(p.lines) {
		text := p.lines[p.line]
		if text == "" || !isSpace(text[0]) {
			return
		}
		p.line++
	}
}

// skipUntil skips lines up to and including the terminator line.
func (p *Parser) skipUntil(terminator string) error {
	start := p.position(1)
	for p.line++; p.line < len(p.lines); p.line++ {
		if strings.TrimSpace(p.lines[p.line]) == terminator {
			p.line++
			return nil
		}
	}
	return &ParseError{Pos: start, Message: "missing " + terminator}
}

func (p *Parser) position(col int) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Line:     p.line + 1,
		Column:   col,
	}
}

func (p *Parser) errorAt(col int, format string, args ...interface{}) error {
	return newErrorf(p.position(col), format, args...)
}
