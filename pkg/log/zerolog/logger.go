// SPDX-License-Identifier: Apache-2.0

package zerolog

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	loglib "github.com/xataio/searchadapter/pkg/log"
)

// Logger implements loglib.Logger on top of a zerolog logger.
type Logger struct {
	zerologger *zerolog.Logger
	fields     loglib.Fields
}

// values longer than this are truncated, large search documents would
// otherwise make the log unreadable
const logMaxBytes = 10000

func NewLogger(zl *zerolog.Logger) *Logger {
	return &Logger{
		zerologger: zl,
	}
}

func (l *Logger) Trace(msg string, fields ...loglib.Fields) {
	l.send(l.zerologger.Trace(), msg, fields)
}

func (l *Logger) Debug(msg string, fields ...loglib.Fields) {
	l.send(l.zerologger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...loglib.Fields) {
	l.send(l.zerologger.Info(), msg, fields)
}

func (l *Logger) Warn(err error, msg string, fields ...loglib.Fields) {
	l.send(l.zerologger.Warn().Err(err), msg, fields)
}

func (l *Logger) Error(err error, msg string, fields ...loglib.Fields) {
	l.send(l.zerologger.Error().Err(err), msg, fields)
}

func (l *Logger) Panic(msg string, fields ...loglib.Fields) {
	l.send(l.zerologger.Panic(), msg, fields)
}

func (l *Logger) WithFields(fields loglib.Fields) loglib.Logger {
	return &Logger{
		zerologger: l.zerologger,
		fields:     loglib.MergeFields(l.fields, fields),
	}
}

// send writes the event with the logger fields first, so that call specific
// fields take precedence when keys collide.
func (l *Logger) send(event *zerolog.Event, msg string, fields []loglib.Fields) {
	if event == nil {
		return
	}
	addFields(event, l.fields)
	for _, f := range fields {
		addFields(event, f)
	}
	event.Msg(msg)
}

func addFields(event *zerolog.Event, fields loglib.Fields) {
	for key, value := range fields {
		switch v := value.(type) {
		case string:
			event.Str(key, truncate(v))
		case []string:
			event.Strs(key, v)
		case int:
			event.Int(key, v)
		case int64:
			event.Int64(key, v)
		case uint:
			event.Uint(key, v)
		case float64:
			event.Float64(key, v)
		case bool:
			event.Bool(key, v)
		case []byte:
			if len(v) > logMaxBytes {
				v = v[:logMaxBytes]
			}
			event.Bytes(key, v)
		case time.Time:
			event.Time(key, v)
		case time.Duration:
			event.Dur(key, v)
		case error:
			event.AnErr(key, v)
		case fmt.Stringer:
			event.Stringer(key, v)
		default:
			event.Interface(key, v)
		}
	}
}

func truncate(s string) string {
	if len(s) > logMaxBytes {
		return s[:logMaxBytes]
	}
	return s
}
