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
package httplog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), logs
}

func TestLeveled(t *testing.T) {
	l, logs := newObserved()

	l.Debug("performing request", "method", "GET", "url", "http://pdns/api")
	l.Warn("retrying", "attempt", 2, "dangling")
	l.Error("request failed", "error", "boom")

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "performing request", entries[0].Message)
	assert.Equal(t, map[string]interface{}{"method": "GET", "url": "http://pdns/api"}, entries[0].ContextMap())

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(2), entries[1].ContextMap()["attempt"])
	assert.Contains(t, entries[1].ContextMap(), "dangling")

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestPrintf(t *testing.T) {
	tests := []struct {
		line    string
		level   zapcore.Level
		message string
	}{
		{"[DEBUG] GET http://pdns", zapcore.DebugLevel, "GET http://pdns"},
		{"[WARN] slow", zapcore.WarnLevel, "slow"},
		{"[ERR] GET http://pdns request failed", zapcore.ErrorLevel, "GET http://pdns request failed"},
		{"plain message ", zapcore.InfoLevel, "plain message"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			l, logs := newObserved()
			l.Printf("%s", tt.line)

			entries := logs.AllUntimed()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			assert.Equal(t, tt.message, entries[0].Message)
		})
	}
}
