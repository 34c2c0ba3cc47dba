/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package logging wraps github.com/rs/zerolog behind the small,
// injectable seam the rest of wavecast depends on, playing the role the
// teacher's DebugLogger interface used to play.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level mirrors zerolog's levels but keeps the rest of the module from
// importing zerolog directly.
type Level int

const (
	LevelDisabled Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// ParseLevel maps a config/CLI string onto a Level, defaulting to Info
// on anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "disabled", "off":
		return LevelDisabled
	case "error":
		return LevelError
	case "warn", "warning":
		return LevelWarn
	case "debug":
		return LevelDebug
	case "trace":
		return LevelTrace
	default:
		return LevelInfo
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDisabled:
		return zerolog.Disabled
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is the component-level logging seam injected into Station,
// Server, the SHOUTcast request handler and the file-provider cache.
type Logger struct {
	zl zerolog.Logger
}

// New creates a Logger writing to w (os.Stderr if nil) at the given level.
func New(level Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	zl := zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// With returns a child logger tagged with component for every subsequent
// line, the same way the teacher scoped a DebugLogger per request.
func (l *Logger) With(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// IsDebugEnabled reports whether Debug-level lines are actually emitted,
// letting callers skip expensive formatting the way
// IsDebugOutputEnabled() did for the teacher's DebugLogger.
func (l *Logger) IsDebugEnabled() bool {
	return l.zl.GetLevel() <= zerolog.DebugLevel
}

func (l *Logger) event(e *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		if key == "" {
			continue
		}
		if err, ok := kv[i+1].(error); ok {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

// Trace logs at trace level with alternating key/value pairs.
func (l *Logger) Trace(msg string, kv ...interface{}) { l.event(l.zl.Trace(), msg, kv) }

// Debug logs at debug level with alternating key/value pairs.
func (l *Logger) Debug(msg string, kv ...interface{}) { l.event(l.zl.Debug(), msg, kv) }

// Info logs at info level with alternating key/value pairs.
func (l *Logger) Info(msg string, kv ...interface{}) { l.event(l.zl.Info(), msg, kv) }

// Warn logs at warn level with alternating key/value pairs.
func (l *Logger) Warn(msg string, kv ...interface{}) { l.event(l.zl.Warn(), msg, kv) }

// Error logs at error level with alternating key/value pairs.
func (l *Logger) Error(msg string, kv ...interface{}) { l.event(l.zl.Error(), msg, kv) }
