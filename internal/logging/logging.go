// Package logging provides a process-global, level-filtered structured
// logger. Levels are ordered Debug < Info < Warning < Error < Silent;
// the threshold is inclusive and Silent suppresses every record. Each
// record is written as a single line formatted "[LEVEL] [HH:MM:SS.mmm]
// message".
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Level is one of the five ordered severities a record can be logged at
// or the sink can be filtered to.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
	Silent
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warning:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

var (
	mu    sync.Mutex
	level = Info
	sink  = io.Writer(os.Stderr)
	z     = build(Info, os.Stderr)
)

func build(lvl Level, w io.Writer) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	writer.FormatLevel = func(i interface{}) string {
		s, _ := i.(string)
		return "[" + levelLabel(s) + "]"
	}
	writer.FormatTimestamp = func(i interface{}) string {
		return fmt.Sprintf("[%v]", i)
	}
	writer.PartsOrder = []string{zerolog.LevelFieldName, zerolog.TimestampFieldName, zerolog.MessageFieldName}
	return zerolog.New(writer).Level(lvl.zerolog()).With().Timestamp().Logger()
}

func levelLabel(zerologLevel string) string {
	switch zerologLevel {
	case "debug":
		return "DEBUG"
	case "warn":
		return "WARNING"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}

// SetLevel changes the global filter threshold.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
	z = build(level, sink)
}

// SetSink redirects where formatted records are written, preserving the
// current level.
func SetSink(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sink = w
	z = build(level, sink)
}

func current() *zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	l := z
	return &l
}

// Debugf logs at Debug level. Formatting is skipped entirely when the
// current level filters it out.
func Debugf(format string, args ...interface{}) {
	if e := current().Debug(); e.Enabled() {
		e.Msg(fmt.Sprintf(format, args...))
	}
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	if e := current().Info(); e.Enabled() {
		e.Msg(fmt.Sprintf(format, args...))
	}
}

// Warnf logs at Warning level.
func Warnf(format string, args ...interface{}) {
	if e := current().Warn(); e.Enabled() {
		e.Msg(fmt.Sprintf(format, args...))
	}
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	if e := current().Error(); e.Enabled() {
		e.Msg(fmt.Sprintf(format, args...))
	}
}

// ParseLevel converts "debug"/"info"/"warning"/"error"/"silent"
// (lower-case, capitalized or upper-case; "warn"/"WARN" accepted as a
// synonym for "warning") into a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "Debug", "debug", "DEBUG":
		return Debug, nil
	case "Info", "info", "INFO":
		return Info, nil
	case "Warning", "warning", "WARNING", "warn", "WARN":
		return Warning, nil
	case "Error", "error", "ERROR":
		return Error, nil
	case "Silent", "silent", "SILENT":
		return Silent, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", s)
	}
}
