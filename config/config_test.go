package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "ledgercalc.yaml", `journal: books.ledger
commodity: EUR
begin: "2020"
end: "2021"
files:
  - budget.calc
  - taxes.calc
align: true
log_level: debug
`)

	cfg, err := LoadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, &Config{
		Journal:   "books.ledger",
		Commodity: "EUR",
		Begin:     "2020",
		End:       "2021",
		Files:     []string{"budget.calc", "taxes.calc"},
		Align:     true,
		LogLevel:  "debug",
	}, cfg)
}

func TestLoadFileEmpty(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "empty.yaml", ""))
	assert.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadFileUnknownKey(t *testing.T) {
	_, err := LoadFile(writeFile(t, "bad.yaml", "jurnal: books.ledger\n"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "jurnal")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.IsError(t, err, os.ErrNotExist)
}

func TestMergeKeepsCommandLineValues(t *testing.T) {
	cfg := &Config{Journal: "cli.ledger", Begin: "2019"}
	file := &Config{
		Journal: "file.ledger",
		Begin:   "2020",
		End:     "2021",
		Files:   []string{"budget.calc"},
		Align:   true,
	}

	assert.NoError(t, cfg.Merge(file))
	assert.Equal(t, "cli.ledger", cfg.Journal)
	assert.Equal(t, "2019", cfg.Begin)
	assert.Equal(t, "2021", cfg.End)
	assert.Equal(t, []string{"budget.calc"}, cfg.Files)
	assert.True(t, cfg.Align)
	assert.Equal(t, DefaultCommodity, cfg.Commodity)
}

func TestMergeWithoutFile(t *testing.T) {
	cfg := &Config{Commodity: "EUR"}
	assert.NoError(t, cfg.Merge(nil))
	assert.Equal(t, "EUR", cfg.Commodity)
}

func TestValidate(t *testing.T) {
	valid := Config{Journal: "books.ledger", Begin: "2020", End: "2020", Files: []string{"budget.calc"}}
	assert.NoError(t, valid.Validate())

	missing := Config{Journal: "books.ledger"}
	err := missing.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin, end, files")

	reversed := valid
	reversed.Begin = "2021"
	assert.Error(t, reversed.Validate())

	badLevel := valid
	badLevel.LogLevel = "loud"
	assert.Error(t, badLevel.Validate())
}

func TestParseBound(t *testing.T) {
	year, err := ParseBound("2020")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), year)

	day, err := ParseBound("2020-06-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), day)

	for _, bad := range []string{"", "20", "2020/06/15", "June"} {
		_, err := ParseBound(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseEnd(t *testing.T) {
	year, err := ParseEnd("2020")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC), year)

	day, err := ParseEnd("2020-06-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseEnd("June")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	assert.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("debug")
	assert.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	const key = "LEDGERCALC_TEST_JOURNAL"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=books.ledger\n")
	assert.NoError(t, LoadEnv(path))
	assert.Equal(t, "books.ledger", os.Getenv(key))

	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}
