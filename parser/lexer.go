package parser

import (
	"strings"
)

// lineLexer walks a single journal line byte by byte. Ledger syntax is
// whitespace sensitive (indentation starts a posting, two spaces end an
// account name) so the parser works line by line instead of on a flat
// token stream.
type lineLexer struct {
	text string
	pos  int
}

func newLineLexer(text string) *lineLexer {
	return &lineLexer{text: strings.TrimRight(text, "\r")}
}

func (l *lineLexer) atEnd() bool {
	return l.pos >= len(l.text)
}

func (l *lineLexer) peek() byte {
	if l.pos >= len(l.text) {
		return 0
	}
	return l.text[l.pos]
}

func (l *lineLexer) advance() byte {
	if l.pos >= len(l.text) {
		return 0
	}
	ch := l.text[l.pos]
	l.pos++
	return ch
}

// column returns the 1-indexed column of the cursor.
func (l *lineLexer) column() int {
	return l.pos + 1
}

func (l *lineLexer) skipSpaces() {
	for l.pos < len(l.text) && isSpace(l.text[l.pos]) {
		l.pos++
	}
}

// word scans up to the next whitespace.
func (l *lineLexer) word() string {
	start := l.pos
	for l.pos < len(l.text) && !isSpace(l.text[l.pos]) {
		l.pos++
	}
	return l.text[start:l.pos]
}

// rest returns the remainder of the line with surrounding whitespace removed.
func (l *lineLexer) rest() string {
	s := strings.TrimSpace(l.text[l.pos:])
	l.pos = len(l.text)
	return s
}

// restBeforeComment returns the remainder of the line up to a ';' comment.
func (l *lineLexer) restBeforeComment() string {
	s := l.text[l.pos:]
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	l.pos = len(l.text)
	return strings.TrimSpace(s)
}

// accountName scans an account name. Names may contain single spaces; two
// consecutive spaces, a tab or the end of line terminate the name.
func (l *lineLexer) accountName() string {
	start := l.pos
	for l.pos < len(l.text) {
		ch := l.text[l.pos]
		if ch == '\t' || ch == ';' {
			break
		}
		if ch == ' ' && l.pos+1 < len(l.text) && isSpace(l.text[l.pos+1]) {
			break
		}
		l.pos++
	}
	return strings.TrimRight(l.text[start:l.pos], " ")
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isCommodityByte reports whether ch may appear in an unquoted commodity symbol.
func isCommodityByte(ch byte) bool {
	if isSpace(ch) || isDigit(ch) {
		return false
	}
	switch ch {
	case '.', ',', ';', ':', '?', '!', '-', '+', '*', '/', '^', '&', '|', '=', '<', '>', '{', '}', '[', ']', '(', ')', '@', '"':
		return false
	}
	return true
}
