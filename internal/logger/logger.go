// Copyright 2026 The eduos Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides package-level structured logging on top of
// log/slog, with optional file rotation via lumberjack. Call sites elsewhere
// in the module use the level functions directly (logger.Infof(...)) rather
// than threading a *slog.Logger through every constructor.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity levels as configured via cfg.Config.Log.Severity.
const (
	LevelTraceName   = "TRACE"
	LevelDebugName   = "DEBUG"
	LevelInfoName    = "INFO"
	LevelWarningName = "WARNING"
	LevelErrorName   = "ERROR"
	LevelOffName     = "OFF"
)

// slog.Level values. TRACE sits below slog's built-in Debug; OFF sits above
// Error so that nothing passes the threshold.
const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelOff   slog.Level = 12
)

// RotateConfig mirrors the knobs lumberjack exposes, kept here instead of
// importing cfg so that logger does not depend on cfg.
type RotateConfig struct {
	MaxFileSizeMB   int
	BackupFileCount int
	Compress        bool
}

func DefaultRotateConfig() RotateConfig {
	return RotateConfig{MaxFileSizeMB: 10, BackupFileCount: 5, Compress: false}
}

type loggerFactory struct {
	file        *lumberjack.Logger
	sysWriter   io.Writer
	format      string
	level       string
	programLvl  *slog.LevelVar
	rotateCfg   RotateConfig
}

var defaultLoggerFactory = &loggerFactory{
	sysWriter:  os.Stderr,
	level:      LevelInfoName,
	format:     "text",
	programLvl: new(slog.LevelVar),
	rotateCfg:  DefaultRotateConfig(),
}

func levelFromName(name string) slog.Level {
	switch name {
	case LevelTraceName:
		return LevelTrace
	case LevelDebugName:
		return LevelDebug
	case LevelInfoName:
		return LevelInfo
	case LevelWarningName:
		return LevelWarn
	case LevelErrorName:
		return LevelError
	default:
		return LevelOff
	}
}

func setLoggingLevel(level string, programLevel *slog.LevelVar) {
	programLevel.Set(levelFromName(level))
}

// textHandler and jsonHandler are a fixed severity-vocabulary, single-
// message-attribute rendering — narrower than a general slog.Handler, so
// they implement the local handler interface below instead of slog's.
type textHandler struct {
	w      io.Writer
	level  *slog.LevelVar
	prefix string
}

type jsonHandler struct {
	w      io.Writer
	level  *slog.LevelVar
	prefix string
}

func severityName(l slog.Level) string {
	switch {
	case l < LevelDebug:
		return LevelTraceName
	case l < LevelInfo:
		return LevelDebugName
	case l < LevelWarn:
		return LevelInfoName
	case l < LevelError:
		return LevelWarningName
	default:
		return LevelErrorName
	}
}

func (h *textHandler) write(l slog.Level, msg string) {
	if l < h.level.Level() {
		return
	}
	fmt.Fprintf(h.w, "time=%q severity=%s message=%q\n",
		time.Now().Format("2006/01/02 15:04:05.000000"), severityName(l), h.prefix+msg)
}

func (h *jsonHandler) write(l slog.Level, msg string) {
	if l < h.level.Level() {
		return
	}
	now := time.Now()
	fmt.Fprintf(h.w, "{\"timestamp\":{\"seconds\":%d,\"nanos\":%d},\"severity\":%q,\"message\":%q}\n",
		now.Unix(), now.Nanosecond(), severityName(l), h.prefix+msg)
}

func (f *loggerFactory) createJsonOrTextHandler(w io.Writer, level *slog.LevelVar, prefix string) handler {
	if f.format == "json" {
		return &jsonHandler{w: w, level: level, prefix: prefix}
	}
	return &textHandler{w: w, level: level, prefix: prefix}
}

// handler is the narrow interface defaultLogger actually needs; it is not
// slog.Handler because severity vocabulary and message shape are fixed.
type handler interface {
	write(level slog.Level, msg string)
}

type facade struct {
	h handler
}

func (f *facade) log(l slog.Level, format string, args ...any) {
	f.h.write(l, fmt.Sprintf(format, args...))
}

func currentFacade() *facade {
	return &facade{h: defaultLoggerFactory.createJsonOrTextHandler(currentWriter(), defaultLoggerFactory.programLvl, "")}
}

func currentWriter() io.Writer {
	if defaultLoggerFactory.file != nil {
		return defaultLoggerFactory.file
	}
	return defaultLoggerFactory.sysWriter
}

// Tracef logs at TRACE severity.
func Tracef(format string, args ...any) { currentFacade().log(LevelTrace, format, args...) }

// Debugf logs at DEBUG severity.
func Debugf(format string, args ...any) { currentFacade().log(LevelDebug, format, args...) }

// Infof logs at INFO severity.
func Infof(format string, args ...any) { currentFacade().log(LevelInfo, format, args...) }

// Warnf logs at WARNING severity.
func Warnf(format string, args ...any) { currentFacade().log(LevelWarn, format, args...) }

// Errorf logs at ERROR severity.
func Errorf(format string, args ...any) { currentFacade().log(LevelError, format, args...) }

// SetLogFormat switches between "text" and "json" output. An empty or
// unrecognized format falls back to json (the factory itself starts out
// as text).
func SetLogFormat(format string) {
	if format != "text" {
		format = "json"
	}
	defaultLoggerFactory.format = format
	setLoggingLevel(defaultLoggerFactory.level, defaultLoggerFactory.programLvl)
}

// SetLogLevel changes the active severity threshold at runtime.
func SetLogLevel(level string) {
	defaultLoggerFactory.level = level
	setLoggingLevel(level, defaultLoggerFactory.programLvl)
}

// InitLogFile redirects logging to a rotating file at path, sized and
// retained per rotateCfg.
func InitLogFile(path string, level string, format string, rotateCfg RotateConfig) error {
	if path == "" {
		return fmt.Errorf("logger: empty log file path")
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotateCfg.MaxFileSizeMB,
		MaxBackups: rotateCfg.BackupFileCount,
		Compress:   rotateCfg.Compress,
	}
	defaultLoggerFactory.file = lj
	defaultLoggerFactory.sysWriter = nil
	defaultLoggerFactory.format = format
	defaultLoggerFactory.level = level
	defaultLoggerFactory.rotateCfg = rotateCfg
	setLoggingLevel(level, defaultLoggerFactory.programLvl)
	return nil
}
