// Package logging builds the log15 logger every decision record goes through.
// JSON output is the default so CloudWatch Logs can index the fields.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/inconshreveable/log15"
)

type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, logfmt, terminal
	Output string // stdout, stderr or a file path
}

// New returns a root logger; callers derive component loggers with New(ctx...)
func New(cfg Config) (log15.Logger, error) {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	w, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	logger := log15.New()
	logger.SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(w, format)))
	return logger, nil
}

// Discard returns a logger that drops every record
func Discard() log15.Logger {
	logger := log15.New()
	logger.SetHandler(log15.DiscardHandler())
	return logger
}

func parseLevel(level string) (log15.Lvl, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return log15.LvlInfo, nil
	case "debug":
		return log15.LvlDebug, nil
	case "warn":
		return log15.LvlWarn, nil
	case "error":
		return log15.LvlError, nil
	default:
		return log15.LvlInfo, fmt.Errorf("invalid log level: %s (expected: debug, info, warn, error)", level)
	}
}

func parseFormat(format string) (log15.Format, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return log15.JsonFormat(), nil
	case "logfmt":
		return log15.LogfmtFormat(), nil
	case "terminal":
		return log15.TerminalFormat(), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s (expected: json, logfmt, terminal)", format)
	}
}

func openOutput(output string) (io.Writer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	path := filepath.Clean(output)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file, nil
}
