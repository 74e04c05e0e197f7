package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/ledgercalc/calc"
	"github.com/robinvdvleuten/ledgercalc/ledger"
)

type TokensCmd struct {
	JournalFlags

	Files []string `arg:"" help:"Command files to scan." type:"existingfile"`
}

// tokenDump is the printed form of a token.
type tokenDump struct {
	Type   string
	Text   string
	Column int
	Value  string
}

func (cmd *TokensCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := cmd.settings(globals, cmd.Files, false)
	if err != nil {
		return err
	}
	logger, err := newLogger(ctx.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	opts, err := runnerOptions(cfg)
	if err != nil {
		return err
	}

	runCtx := context.Background()
	journal, err := ledger.ReadJournal(runCtx, cfg.Journal, ledger.WithLogger(logger))
	if err != nil {
		return cmd.fail(ctx, err)
	}
	runner := calc.NewRunner(journal, append(opts, calc.WithLogger(logger))...)

	for _, file := range cfg.Files {
		if err := cmd.dump(runCtx, ctx, runner, file); err != nil {
			return cmd.fail(ctx, err)
		}
	}
	return nil
}

func (cmd *TokensCmd) dump(runCtx context.Context, ctx *kong.Context, runner *calc.Runner, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	return runner.Tokenize(runCtx, file, f, func(lineNo int, tokens []calc.Token) error {
		dumps := make([]tokenDump, len(tokens))
		for i, tok := range tokens {
			dumps[i] = tokenDump{Type: tok.Type.String(), Text: tok.Text, Column: tok.Column}
			if tok.Value != nil {
				dumps[i].Value = tok.Value.String()
			}
		}
		_, err := fmt.Fprintf(ctx.Stdout, "%s:%d %s\n", file, lineNo, repr.String(dumps, repr.Indent("  "), repr.OmitEmpty(true)))
		return err
	})
}

func (cmd *TokensCmd) fail(ctx *kong.Context, err error) error {
	_, _ = fmt.Fprintln(ctx.Stderr, NewErrorRenderer().Render(err))
	_, _ = fmt.Fprintln(ctx.Stderr)
	printError(ctx.Stderr, "scan failed")
	return NewCommandError(1)
}
