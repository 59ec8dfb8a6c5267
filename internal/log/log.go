// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package log is a small leveled logger, the same shape as the
// github.com/saferwall/pe/log package: a Logger interface any backend can
// satisfy, a level Filter that wraps one, and a Helper that adds the
// printf-style convenience methods call sites actually use.
package log

import (
	"fmt"
	"io"
	"log"
	"time"
)

// Level is a logging severity.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink every backend implements: a leveled message
// plus free-form key/value pairs.
type Logger interface {
	Log(level Level, keyvals ...interface{}) error
}

// stdLogger writes to an *log.Logger backed by w.
type stdLogger struct {
	l *log.Logger
}

// NewStdLogger returns a Logger that writes one line per call to w, in
// "TIME [LEVEL] key=value ..." form with an RFC 3339 timestamp.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{l: log.New(w, "", 0)}
}

func (s *stdLogger) Log(level Level, keyvals ...interface{}) error {
	line := fmt.Sprintf("%s [%s]", time.Now().Format(time.RFC3339), level)
	for i := 0; i+1 < len(keyvals); i += 2 {
		line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	s.l.Println(line)
	return nil
}

// FilterLevel sets the minimum level a Filter lets through.
func FilterLevel(l Level) func(*filter) {
	return func(f *filter) { f.level = l }
}

type filter struct {
	next  Logger
	level Level
}

// NewFilter wraps next, discarding any Log call below the configured
// minimum level (default LevelDebug, i.e. nothing filtered).
func NewFilter(next Logger, opts ...func(*filter)) Logger {
	f := &filter{next: next, level: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, keyvals ...interface{}) error {
	if level < f.level {
		return nil
	}
	return f.next.Log(level, keyvals...)
}

// Helper adds printf-style convenience methods over a Logger, matching
// the call sites every caller in this module actually uses.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with printf-style convenience methods.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) log(level Level, msg string) {
	h.logger.Log(level, "msg", msg)
}

func (h *Helper) Debug(args ...interface{}) { h.log(LevelDebug, fmt.Sprint(args...)) }
func (h *Helper) Info(args ...interface{})  { h.log(LevelInfo, fmt.Sprint(args...)) }
func (h *Helper) Warn(args ...interface{})  { h.log(LevelWarn, fmt.Sprint(args...)) }
func (h *Helper) Error(args ...interface{}) { h.log(LevelError, fmt.Sprint(args...)) }

func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (h *Helper) Infof(format string, args ...interface{})  { h.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (h *Helper) Warnf(format string, args ...interface{})  { h.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, fmt.Sprintf(format, args...)) }
