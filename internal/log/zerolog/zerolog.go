// SPDX-License-Identifier: Apache-2.0

package zerolog

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	loglib "github.com/xataio/searchadapter/pkg/log"
	zerologlib "github.com/xataio/searchadapter/pkg/log/zerolog"
)

type Config struct {
	LogLevel string
	// Format is either console (default) or json.
	Format string
	// Output defaults to stderr.
	Output io.Writer
}

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"
	zerolog.ErrorFieldName = "error.message"
	zerolog.ErrorStackFieldName = "error.stack"
	// zerolog already emits the level
	zerologr.VerbosityFieldName = ""

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return path.Base(file) + ":" + strconv.Itoa(line)
	}
}

// NewLogger builds the process logger. Trace logs are capped at 100 per
// minute, and debug logs are sampled 1 in 5 once 1000 per minute have been
// emitted.
func NewLogger(cfg *Config) (*zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	switch cfg.Format {
	case "", FormatConsole:
		dst := out
		out = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = time.RFC3339Nano
			w.Out = dst
		})
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	logger := zerolog.New(out).
		Sample(zerolog.LevelSampler{
			TraceSampler: &zerolog.BurstSampler{
				Burst:  100,
				Period: time.Minute,
			},
			DebugSampler: &zerolog.BurstSampler{
				Burst:       1000,
				Period:      time.Minute,
				NextSampler: &zerolog.BasicSampler{N: 5},
			},
		}).
		With().
		Timestamp().
		Caller().
		Stack().
		Logger().
		Level(level)

	return &logger, nil
}

// NewStdLogger wraps the zerolog logger into the adapter logger interface.
func NewStdLogger(l *zerolog.Logger) loglib.Logger {
	return zerologlib.NewLogger(l)
}

// SetGlobalLogger routes the stdlib log package and the zerolog globals
// through the logger on input, so that dependencies share the same output.
func SetGlobalLogger(logger *zerolog.Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(logger)
	log.Logger = *logger
	zerolog.DefaultContextLogger = logger
}

