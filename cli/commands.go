package cli

import (
	"fmt"
	"time"

	"github.com/robinvdvleuten/ledgercalc/calc"
	"github.com/robinvdvleuten/ledgercalc/config"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""
)

// BuildVersion returns the version shown by --version.
func BuildVersion() string {
	version := Version
	if version == "" {
		version = "dev"
	}
	if CommitSHA == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, CommitSHA)
}

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Diagnostics level (debug, info, warn, error)." env:"LEDGERCALC_LOG_LEVEL"`
	Config    string `help:"YAML file with default settings." env:"LEDGERCALC_CONFIG" type:"existingfile"`
}

type Commands struct {
	Globals

	Run      RunCmd      `cmd:"" default:"withargs" help:"Evaluate command files against a journal and print the variables."`
	Tokens   TokensCmd   `cmd:"" help:"Print the tokens of command files without evaluating them."`
	Accounts AccountsCmd `cmd:"" help:"Print the account tree or the balances of account patterns."`
}

// JournalFlags select the journal and the postings taken into account.
type JournalFlags struct {
	Journal   string `short:"j" help:"Ledger journal file." env:"LEDGERCALC_JOURNAL" type:"path"`
	Begin     string `short:"b" help:"Include postings on or after this date (YYYY means January 1)." env:"LEDGERCALC_BEGIN"`
	End       string `short:"e" help:"Include postings on or before this date (YYYY means December 31)." env:"LEDGERCALC_END"`
	Commodity string `short:"c" help:"Reporting commodity (default \"$\")." env:"LEDGERCALC_COMMODITY"`
}

// settings merges the flags with the config file named by globals.
func (f *JournalFlags) settings(globals *Globals, files []string, align bool) (*config.Config, error) {
	cfg := &config.Config{
		Journal:   f.Journal,
		Commodity: f.Commodity,
		Begin:     f.Begin,
		End:       f.End,
		Files:     files,
		Align:     align,
		LogLevel:  globals.LogLevel,
	}

	var file *config.Config
	if globals.Config != "" {
		var err error
		if file, err = config.LoadFile(globals.Config); err != nil {
			return nil, err
		}
	}
	if err := cfg.Merge(file); err != nil {
		return nil, err
	}
	if cfg.Journal == "" {
		return nil, fmt.Errorf("no journal given: use --journal or LEDGERCALC_JOURNAL")
	}
	return cfg, nil
}

// runnerOptions translates settings into calculator options.
func runnerOptions(cfg *config.Config) ([]calc.Option, error) {
	opts := []calc.Option{calc.WithCommodity(cfg.Commodity)}
	for _, bound := range []struct {
		value string
		parse func(string) (time.Time, error)
		opt   func(time.Time) calc.Option
	}{
		{cfg.Begin, config.ParseBound, calc.WithStart},
		{cfg.End, config.ParseEnd, calc.WithEnd},
	} {
		if bound.value == "" {
			continue
		}
		t, err := bound.parse(bound.value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bound.opt(t))
	}
	return opts, nil
}
