// Package resolver turns account patterns into balances.
//
// A pattern is a colon separated account path. Paths made only of letters,
// colons, underscores, hyphens and spaces are looked up literally. Any
// other pattern is matched segment by segment, each segment being a regular
// expression searched (unanchored) in the names of the child accounts:
//
//	Expenses:Food        the Expenses:Food subtree
//	Expenses:.*:Rent     every Rent account two levels below Expenses
//	.*:Rent.*            every account below a top-level account whose
//	                     name contains "Rent"
//
// Postings are summed over the matched subtrees and filtered by an optional
// inclusive date range. Patterns that match nothing yield an empty balance.
package resolver

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/robinvdvleuten/ledgercalc/ledger"
)

// Tree is the read-only account tree a Resolver walks.
type Tree interface {
	// FindAccount returns the account at the exact path, the root for "",
	// or nil.
	FindAccount(path string) *ledger.Account
}

var literalPattern = regexp.MustCompile(`^[A-Za-z:_\- ]*$`)

// wildcardSegment selects every top-level account when it leads a pattern.
const wildcardSegment = ".*"

// Resolver resolves account patterns against a Tree.
type Resolver struct {
	tree   Tree
	start  *time.Time
	end    *time.Time
	logger *slog.Logger
	cache  map[string]*regexp.Regexp
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStart excludes postings dated before start.
func WithStart(start time.Time) Option {
	return func(r *Resolver) {
		r.start = &start
	}
}

// WithEnd excludes postings dated after end.
func WithEnd(end time.Time) Option {
	return func(r *Resolver) {
		r.end = &end
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a resolver over tree.
func New(tree Tree, opts ...Option) *Resolver {
	r := &Resolver{
		tree:   tree,
		logger: slog.Default(),
		cache:  make(map[string]*regexp.Regexp),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PatternError is returned when a pattern segment is not a valid regular
// expression.
type PatternError struct {
	Pattern string
	Segment string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid account pattern %q: segment %q: %v", e.Pattern, e.Segment, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// IsLiteral reports whether pattern is resolved by exact lookup.
func IsLiteral(pattern string) bool {
	return literalPattern.MatchString(pattern)
}

// Resolve returns the summed balance of every account matching pattern.
func (r *Resolver) Resolve(pattern string) (ledger.Balance, error) {
	var (
		balance ledger.Balance
		err     error
	)
	if IsLiteral(pattern) {
		balance = r.Aggregate(r.tree.FindAccount(pattern))
	} else {
		balance, err = r.resolvePattern(pattern)
		if err != nil {
			return ledger.Balance{}, err
		}
	}

	r.logger.Debug("resolved account", slog.String("pattern", pattern), slog.String("balance", balance.String()))
	return balance, nil
}

func (r *Resolver) resolvePattern(pattern string) (ledger.Balance, error) {
	segments := strings.Split(pattern, ":")

	var top *ledger.Account
	if segments[0] == wildcardSegment {
		// The wildcard stays in the list and matches every top-level account.
		top = r.tree.FindAccount("")
	} else {
		top = r.tree.FindAccount(segments[0])
		segments = segments[1:]
	}

	return r.matchSegments(pattern, top, segments)
}

// matchSegments consumes segments below account, summing the balances of
// every matching path.
func (r *Resolver) matchSegments(pattern string, account *ledger.Account, segments []string) (ledger.Balance, error) {
	if account == nil {
		return ledger.Balance{}, nil
	}
	if len(segments) == 0 {
		return r.Aggregate(account), nil
	}

	re, err := r.compile(pattern, segments[0])
	if err != nil {
		return ledger.Balance{}, err
	}

	var total ledger.Balance
	for _, child := range account.Children() {
		if !re.MatchString(child.Name()) {
			continue
		}
		balance, err := r.matchSegments(pattern, child, segments[1:])
		if err != nil {
			return ledger.Balance{}, err
		}
		total = total.Add(balance)
	}
	return total, nil
}

func (r *Resolver) compile(pattern, segment string) (*regexp.Regexp, error) {
	if re, ok := r.cache[segment]; ok {
		return re, nil
	}
	re, err := regexp.Compile(segment)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Segment: segment, Err: err}
	}
	r.cache[segment] = re
	return re, nil
}

// Aggregate sums the postings of account and all of its descendants that
// fall inside the resolver's date range. A nil account yields an empty
// balance.
func (r *Resolver) Aggregate(account *ledger.Account) ledger.Balance {
	var total ledger.Balance
	if account == nil {
		return total
	}

	account.Walk(func(a *ledger.Account) bool {
		for _, p := range a.Postings() {
			if r.inRange(p.Date) {
				total = total.AddAmount(p.Amount)
			}
		}
		return true
	})
	return total
}

func (r *Resolver) inRange(date time.Time) bool {
	if r.start != nil && date.Before(*r.start) {
		return false
	}
	if r.end != nil && date.After(*r.end) {
		return false
	}
	return true
}
