package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "VNDA_LOG_LEVEL"
	EnvLogTimestamp = "VNDA_LOG_TIMESTAMP"
	EnvLogNoColor   = "VNDA_LOG_NOCOLOR"
	EnvLogFormat    = "VNDA_LOG_FORMAT"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type Options struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Format    string
	Writer    io.Writer
}

func DefaultOptions(profile Profile) Options {
	opts := Options{Format: FormatConsole, Writer: os.Stderr}
	switch profile {
	case ProfileTest:
		opts.Level = zerolog.DebugLevel
		opts.Timestamp = false
		opts.NoColor = true
	default:
		opts.Level = zerolog.InfoLevel
		opts.Timestamp = true
		opts.NoColor = !isTerminal(os.Stderr)
	}
	return opts
}

// New builds the process logger. level is the configured level name; the
// VNDA_LOG_* environment variables override it and the other options.
func New(profile Profile, level string, w io.Writer) zerolog.Logger {
	opts := DefaultOptions(profile)
	if w != nil {
		opts.Writer = w
		opts.NoColor = opts.NoColor || !isTerminal(w)
	}
	if lvl, ok := ParseLevel(level); ok {
		opts.Level = lvl
	}
	ApplyEnvOverrides(&opts)
	return Build(opts)
}

func Build(opts Options) zerolog.Logger {
	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}
	if opts.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    opts.NoColor,
			TimeFormat: time.TimeOnly,
			PartsExclude: func() []string {
				if opts.Timestamp {
					return nil
				}
				return []string{zerolog.TimestampFieldName}
			}(),
		}
	}

	ctx := zerolog.New(out).Level(opts.Level).With()
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

func ApplyEnvOverrides(opts *Options) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		opts.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		opts.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		opts.NoColor = v
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat))) {
	case FormatJSON:
		opts.Format = FormatJSON
	case FormatConsole:
		opts.Format = FormatConsole
	}
}

func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// isTerminal accepts any writer exposing a file descriptor, so wrappers
// around os.Stderr keep their colour.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
