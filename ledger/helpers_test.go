package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/ledgercalc/parser"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	assert.NoError(t, err)
	return d
}

func errorAs(err error, target any) bool {
	return errors.As(err, target)
}

// journalFromString parses and processes journal source.
func journalFromString(t *testing.T, source string) *Journal {
	t.Helper()
	tree, err := parser.ParseString(context.Background(), source)
	assert.NoError(t, err)

	j := New()
	assert.NoError(t, j.Process(context.Background(), tree))
	return j
}
