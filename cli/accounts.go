package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/ledgercalc/config"
	"github.com/robinvdvleuten/ledgercalc/ledger"
	"github.com/robinvdvleuten/ledgercalc/output"
	"github.com/robinvdvleuten/ledgercalc/resolver"
)

type AccountsCmd struct {
	JournalFlags

	Patterns []string `arg:"" optional:"" help:"Account patterns to resolve instead of printing the tree."`
	Empty    bool     `help:"Include accounts without postings in range."`
}

func (cmd *AccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := cmd.settings(globals, nil, false)
	if err != nil {
		return err
	}
	logger, err := newLogger(ctx.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	journal, err := ledger.ReadJournal(context.Background(), cfg.Journal, ledger.WithLogger(logger))
	if err != nil {
		_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer().Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "failed to read journal")
		return NewCommandError(1)
	}

	res, err := newResolver(journal, cfg)
	if err != nil {
		return err
	}

	styles := stylesFor(ctx.Stdout)
	if len(cmd.Patterns) > 0 {
		return writePatterns(ctx.Stdout, res, cmd.Patterns, styles)
	}
	return writeTree(ctx.Stdout, journal.Root(), res, cmd.Empty, styles)
}

func newResolver(journal *ledger.Journal, cfg *config.Config) (*resolver.Resolver, error) {
	var opts []resolver.Option
	if cfg.Begin != "" {
		start, err := config.ParseBound(cfg.Begin)
		if err != nil {
			return nil, err
		}
		opts = append(opts, resolver.WithStart(start))
	}
	if cfg.End != "" {
		end, err := config.ParseEnd(cfg.End)
		if err != nil {
			return nil, err
		}
		opts = append(opts, resolver.WithEnd(end))
	}
	return resolver.New(journal, opts...), nil
}

// formatBalance renders every commodity of b, or "0" when it is empty.
func formatBalance(b ledger.Balance) string {
	amounts := b.Amounts()
	if len(amounts) == 0 {
		return "0"
	}
	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = output.FormatAmount(a.Quantity, a.Commodity.Symbol())
	}
	return strings.Join(parts, ", ")
}

func writePatterns(w io.Writer, res *resolver.Resolver, patterns []string, styles *output.Styles) error {
	for _, pattern := range patterns {
		balance, err := res.Resolve(pattern)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s = %s\n", styles.Account(pattern), formatBalance(balance))
		if err != nil {
			return err
		}
	}
	return nil
}

// writeTree prints every account indented by depth with its aggregated
// balance in a second column.
func writeTree(w io.Writer, root *ledger.Account, res *resolver.Resolver, includeEmpty bool, styles *output.Styles) error {
	type line struct {
		label   string
		balance string
	}

	var lines []line
	width := 0
	root.Walk(func(a *ledger.Account) bool {
		if a.IsRoot() {
			return true
		}
		balance := res.Aggregate(a)
		if balance.IsEmpty() && !includeEmpty {
			return false
		}
		label := strings.Repeat("  ", a.Depth()-1) + a.Name()
		width = max(width, runewidth.StringWidth(label))
		lines = append(lines, line{label: label, balance: formatBalance(balance)})
		return true
	})

	for _, l := range lines {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(l.label))
		if _, err := fmt.Fprintf(w, "%s%s  %s\n", styles.Account(l.label), pad, l.balance); err != nil {
			return err
		}
	}
	return nil
}
