// Package calc implements the command language: a postfix notation over
// account balances, numbers and variables.
//
//	$food Expenses:Food =
//	$rent "Expenses:.*:Rent" 12 / =
//	$left Assets:Checking $food $rent + subz =
//
// Command files are processed line by line. Every line is scanned into
// tokens, account patterns are resolved against the journal at scan time,
// and the tokens are evaluated on an operand stack that is reset per line.
// Variables persist across lines and files.
package calc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/robinvdvleuten/ledgercalc/ast"
	"github.com/robinvdvleuten/ledgercalc/ledger"
	"github.com/robinvdvleuten/ledgercalc/resolver"
	"github.com/robinvdvleuten/ledgercalc/telemetry"
)

// DefaultCommodity is the reporting commodity when none is configured.
const DefaultCommodity = "$"

// Journal is what a Runner needs from a processed journal.
type Journal interface {
	resolver.Tree
	Commodities() *ledger.CommodityPool
	Valuer(date *time.Time) ledger.Valuer
}

// Result is a variable projected into the reporting commodity.
type Result struct {
	Name  string
	Value ledger.Amount
}

// Runner executes command files against a journal.
type Runner struct {
	reporting *ledger.Commodity
	valuer    ledger.Valuer
	scanner   *Scanner
	evaluator *Evaluator
	env       *Environment
	logger    *slog.Logger
}

type runnerConfig struct {
	commodity string
	start     *time.Time
	end       *time.Time
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*runnerConfig)

// WithCommodity sets the reporting commodity symbol.
func WithCommodity(symbol string) Option {
	return func(c *runnerConfig) {
		c.commodity = symbol
	}
}

// WithStart excludes postings dated before start.
func WithStart(start time.Time) Option {
	return func(c *runnerConfig) {
		c.start = &start
	}
}

// WithEnd excludes postings dated after end. Prices are taken as of end.
func WithEnd(end time.Time) Option {
	return func(c *runnerConfig) {
		c.end = &end
	}
}

// WithLogger sets the logger for resolution and assignment diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runnerConfig) {
		c.logger = logger
	}
}

// NewRunner creates a runner over journal with a fresh environment.
func NewRunner(journal Journal, opts ...Option) *Runner {
	cfg := runnerConfig{commodity: DefaultCommodity, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	resolverOpts := []resolver.Option{resolver.WithLogger(cfg.logger)}
	if cfg.start != nil {
		resolverOpts = append(resolverOpts, resolver.WithStart(*cfg.start))
	}
	if cfg.end != nil {
		resolverOpts = append(resolverOpts, resolver.WithEnd(*cfg.end))
	}

	reporting := journal.Commodities().FindOrCreate(cfg.commodity)
	valuer := journal.Valuer(cfg.end)
	env := NewEnvironment()

	return &Runner{
		reporting: reporting,
		valuer:    valuer,
		scanner:   NewScanner(resolver.New(journal, resolverOpts...), reporting),
		evaluator: NewEvaluator(env, reporting, valuer, cfg.logger),
		env:       env,
		logger:    cfg.logger,
	}
}

// Environment returns the runner's variable bindings.
func (r *Runner) Environment() *Environment {
	return r.env
}

// Reporting returns the reporting commodity.
func (r *Runner) Reporting() *ledger.Commodity {
	return r.reporting
}

// RunFile executes the command file at filename.
func (r *Runner) RunFile(ctx context.Context, filename string) error {
	timer := telemetry.StartTimer(ctx, "commands "+filename)
	defer timer.End()

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open command file: %w", err)
	}
	defer f.Close()

	lines, err := eachLine(ctx, filename, f, r.RunLine)
	timer.Count(lines, "lines")
	return err
}

// Run executes the commands read from rd. name is used in error positions.
// The first failing line stops the run.
func (r *Runner) Run(ctx context.Context, name string, rd io.Reader) error {
	_, err := eachLine(ctx, name, rd, r.RunLine)
	return err
}

// Tokenize scans the commands read from rd without evaluating them, calling
// fn with the tokens of every line.
func (r *Runner) Tokenize(ctx context.Context, name string, rd io.Reader, fn func(lineNo int, tokens []Token) error) error {
	lineNo := 0
	_, err := eachLine(ctx, name, rd, func(line string) error {
		lineNo++
		tokens, err := r.ScanLine(line)
		if err != nil {
			return err
		}
		return fn(lineNo, tokens)
	})
	return err
}

// eachLine calls fn for every line of rd, newline included, and returns the
// number of lines handled. Errors of kind *Error get the file name and line
// number set.
func eachLine(ctx context.Context, name string, rd io.Reader, fn func(line string) error) (int, error) {
	br := bufio.NewReader(rd)
	handled := 0
	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return handled, err
		}

		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return handled, fmt.Errorf("failed to read %s: %w", name, readErr)
		}

		if line != "" {
			if err := fn(line); err != nil {
				var calcErr *Error
				if errors.As(err, &calcErr) {
					calcErr.Pos.Filename = name
					calcErr.Pos.Line = lineNo
				}
				return handled, err
			}
			handled++
		}

		if readErr != nil {
			return handled, nil
		}
	}
}

// RunLine scans and evaluates a single command line.
func (r *Runner) RunLine(line string) error {
	tokens, err := r.ScanLine(line)
	if err != nil {
		return err
	}
	return r.evaluator.Eval(tokens)
}

// ScanLine tokenizes a command line, resolving its account patterns.
// Unmatched input is a ScannerError.
func (r *Runner) ScanLine(line string) ([]Token, error) {
	tokens, remainder, err := r.scanner.Scan(line)
	if err != nil {
		var patternErr *resolver.PatternError
		if errors.As(err, &patternErr) {
			e := newError(InvalidPattern, Token{Column: len(line) - len(remainder) + 1, Text: patternErr.Pattern}, "%s", err)
			e.Err = err
			return nil, e
		}
		return nil, err
	}
	if remainder != "" {
		return nil, r.scanError(line, remainder)
	}
	return tokens, nil
}

func (r *Runner) scanError(line, remainder string) *Error {
	column := len(line) - len(remainder) + 1
	rest := strings.TrimRight(remainder, "\r\n")
	return &Error{
		Kind:    ScannerError,
		Token:   rest,
		Message: fmt.Sprintf("unrecognized input %q in %q", rest, strings.TrimRight(line, "\r\n")),
		Pos:     ast.Position{Column: column},
	}
}

// Results projects every variable into the reporting commodity, sorted by
// name. A variable without value in the reporting commodity is an error.
func (r *Runner) Results() ([]Result, error) {
	names := r.env.Names()
	results := make([]Result, 0, len(names))
	for _, name := range names {
		value, _ := r.env.Get(name)
		amount, ok := r.valuer.ValueIn(value, r.reporting)
		if !ok {
			return nil, &Error{
				Kind:    IncommensurableCommodity,
				Token:   "$" + name,
				Message: fmt.Sprintf("cannot value $%s = %s in %q", name, value, r.reporting.Symbol()),
			}
		}
		results = append(results, Result{Name: name, Value: amount})
	}
	return results, nil
}
