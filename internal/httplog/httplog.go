/*
 *
 *  MIT License
 *
 *  (C) Copyright 2022 Hewlett Packard Enterprise Development LP
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a
 *  copy of this software and associated documentation files (the "Software"),
 *  to deal in the Software without restriction, including without limitation
 *  the rights to use, copy, modify, merge, publish, distribute, sublicense,
 *  and/or sell copies of the Software, and to permit persons to whom the
 *  Software is furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included
 *  in all copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 *  THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 *  OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 *  ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 *  OTHER DEALINGS IN THE SOFTWARE.
 *
 */

// Package httplog routes retryablehttp's logging into zap at the right level.
package httplog

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Logger satisfies both retryablehttp.Logger and retryablehttp.LeveledLogger.
// The client prefers the leveled methods when they exist.
type Logger struct {
	logger *zap.Logger
}

var (
	_ retryablehttp.LeveledLogger = (*Logger)(nil)
	_ retryablehttp.Logger        = (*Logger)(nil)
)

func New(parent *zap.Logger) *Logger {
	return &Logger{logger: parent.WithOptions(zap.AddCallerSkip(1))}
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues)...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues)...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues)...)
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues)...)
}

// Printf handles the unleveled format, where the level is a "[DEBUG]" style
// prefix on the message.
func (l *Logger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	switch {
	case strings.HasPrefix(message, "[DEBUG]"):
		l.logger.Debug(strings.TrimSpace(strings.TrimPrefix(message, "[DEBUG]")))
	case strings.HasPrefix(message, "[WARN]"):
		l.logger.Warn(strings.TrimSpace(strings.TrimPrefix(message, "[WARN]")))
	case strings.HasPrefix(message, "[ERR]"):
		l.logger.Error(strings.TrimSpace(strings.TrimPrefix(message, "[ERR]")))
	default:
		l.logger.Info(strings.TrimSpace(message))
	}
}

// fields turns alternating key/value pairs into zap fields. A trailing key
// without a value is kept under its own name.
func fields(keysAndValues []interface{}) []zap.Field {
	out := make([]zap.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		if i+1 >= len(keysAndValues) {
			out = append(out, zap.Any(key, nil))
			break
		}
		out = append(out, zap.Any(key, keysAndValues[i+1]))
	}
	return out
}
