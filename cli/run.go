package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/ledgercalc/calc"
	"github.com/robinvdvleuten/ledgercalc/config"
	"github.com/robinvdvleuten/ledgercalc/ledger"
	"github.com/robinvdvleuten/ledgercalc/output"
	"github.com/robinvdvleuten/ledgercalc/telemetry"
)

type RunCmd struct {
	JournalFlags

	Files []string `arg:"" optional:"" help:"Command files, evaluated in order." type:"existingfile"`
	Align bool     `help:"Align variable names and amounts in columns." env:"LEDGERCALC_ALIGN"`
	XLSX  string   `name:"xlsx" help:"Also write the variables to an Excel workbook." type:"path"`
	Watch bool     `short:"w" help:"Evaluate again whenever the journal or a command file changes."`
}

func (cmd *RunCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := cmd.settings(globals, cmd.Files, cmd.Align)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(ctx.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	if !cmd.Watch {
		return cmd.evaluate(context.Background(), ctx.Stdout, ctx.Stderr, cfg, logger, globals.Telemetry)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_ = cmd.evaluate(runCtx, ctx.Stdout, ctx.Stderr, cfg, logger, globals.Telemetry)

	files := append([]string{cfg.Journal}, cfg.Files...)
	return watchFiles(runCtx, files, logger, func() {
		printInfof(ctx.Stderr, "change detected, evaluating again")
		_ = cmd.evaluate(runCtx, ctx.Stdout, ctx.Stderr, cfg, logger, globals.Telemetry)
	})
}

// evaluate runs the calculation once and prints either the report or the
// rendered error.
func (cmd *RunCmd) evaluate(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, logger *slog.Logger, withTelemetry bool) error {
	var collector telemetry.Collector
	var runTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				runTimer.End()
				_, _ = fmt.Fprintln(stderr)
				collector.Report(stderr, stylesFor(stderr))
			}
		})
	}

	if withTelemetry {
		collector = telemetry.NewTimingCollector()
		ctx = telemetry.WithCollector(ctx, collector)

		runTimer = collector.Start(fmt.Sprintf("run %s", filepath.Base(cfg.Journal)))
		ctx = telemetry.WithRootTimer(ctx, runTimer)

		defer reportTelemetry()
	}

	rows, err := calculate(ctx, cfg, logger)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, NewErrorRenderer().Render(err))
		_, _ = fmt.Fprintln(stderr)
		printError(stderr, "evaluation failed")
		return NewCommandError(1)
	}

	timer := telemetry.StartTimer(ctx, "report")
	opts := []output.ReportOption{output.WithStyles(stylesFor(stdout))}
	if cfg.Align {
		opts = append(opts, output.WithAlignment())
	}
	err = output.WriteReport(stdout, rows, opts...)
	timer.Count(len(rows), "variables")
	timer.End()
	if err != nil {
		return err
	}

	if cmd.XLSX != "" {
		if err := writeWorkbook(cmd.XLSX, rows); err != nil {
			return err
		}
		printSuccess(stderr, "wrote "+pathStyle.Render(cmd.XLSX))
	}
	return nil
}

// calculate loads the journal, runs every command file and projects the
// variables into the reporting commodity.
func calculate(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]output.Row, error) {
	journal, err := ledger.ReadJournal(ctx, cfg.Journal, ledger.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	opts, err := runnerOptions(cfg)
	if err != nil {
		return nil, err
	}
	runner := calc.NewRunner(journal, append(opts, calc.WithLogger(logger))...)

	for _, file := range cfg.Files {
		if err := runner.RunFile(ctx, file); err != nil {
			return nil, err
		}
	}

	results, err := runner.Results()
	if err != nil {
		return nil, err
	}

	rows := make([]output.Row, len(results))
	for i, result := range results {
		rows[i] = output.Row{
			Name:      result.Name,
			Quantity:  result.Value.Quantity,
			Commodity: result.Value.Commodity.Symbol(),
		}
	}
	return rows, nil
}

func writeWorkbook(path string, rows []output.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := output.WriteXLSX(f, rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return f.Close()
}
