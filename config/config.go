// Package config loads calculator settings from .env files, an optional
// YAML file and the command line. Command-line values (flags and their
// environment variables) win over the YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultCommodity is the reporting commodity when none is configured.
const DefaultCommodity = "$"

// Config holds the settings of a calculator run.
type Config struct {
	Journal   string   `yaml:"journal"`
	Commodity string   `yaml:"commodity"`
	Begin     string   `yaml:"begin"`
	End       string   `yaml:"end"`
	Files     []string `yaml:"files"`
	Align     bool     `yaml:"align"`
	LogLevel  string   `yaml:"log_level"`
}

// LoadEnv loads environment files without overriding variables that are
// already set. Without paths it loads ./.env when present.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// LoadFile reads a YAML config file. Unknown keys are an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge fills the zero fields of cfg from file and applies defaults.
func (c *Config) Merge(file *Config) error {
	if file != nil {
		if err := mergo.Merge(c, file); err != nil {
			return fmt.Errorf("merge config: %w", err)
		}
	}
	if c.Commodity == "" {
		c.Commodity = DefaultCommodity
	}
	return nil
}

// Validate checks that the settings describe a runnable calculation.
func (c *Config) Validate() error {
	var missing []string
	if c.Journal == "" {
		missing = append(missing, "journal")
	}
	if c.Begin == "" {
		missing = append(missing, "begin")
	}
	if c.End == "" {
		missing = append(missing, "end")
	}
	if len(c.Files) == 0 {
		missing = append(missing, "files")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	begin, err := ParseBound(c.Begin)
	if err != nil {
		return err
	}
	end, err := ParseEnd(c.End)
	if err != nil {
		return err
	}
	if end.Before(begin) {
		return fmt.Errorf("end %s is before begin %s", c.End, c.Begin)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseBound parses a start bound. A bare year means January 1 of that
// year; full dates are accepted as YYYY-MM-DD.
func ParseBound(s string) (time.Time, error) {
	t, _, err := parseDate(s)
	return t, err
}

// ParseEnd parses an end bound. A bare year covers the whole year and
// means December 31; full dates are taken as given.
func ParseEnd(s string) (time.Time, error) {
	t, year, err := parseDate(s)
	if err != nil || !year {
		return t, err
	}
	return t.AddDate(1, 0, -1), nil
}

func parseDate(s string) (time.Time, bool, error) {
	if year, err := strconv.Atoi(s); err == nil && len(s) == 4 {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q: want YYYY or YYYY-MM-DD", s)
	}
	return t, false, nil
}

// ParseLevel maps a level name to a slog level. The empty string is warn.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
