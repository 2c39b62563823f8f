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

// Package trueup keeps re-running the sync pass: once at start, then on a
// timer and whenever someone asks for it.
package trueup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-topology-dns-manager/internal/syncer"
)

// PassFunc runs one reconcile pass.
type PassFunc func(ctx context.Context) (*syncer.Result, error)

// Status is a snapshot of the loop, as served by the API.
type Status struct {
	InProgress   bool           `json:"in_progress"`
	Passes       int            `json:"passes"`
	Failures     int            `json:"failures"`
	LastStarted  time.Time      `json:"last_started"`
	LastFinished time.Time      `json:"last_finished"`
	LastError    string         `json:"last_error,omitempty"`
	LastResult   *syncer.Result `json:"last_result,omitempty"`
}

type Loop struct {
	interval time.Duration
	pass     PassFunc
	logger   *zap.Logger

	runNow chan struct{}

	mu     sync.Mutex
	status Status
}

func New(interval time.Duration, pass PassFunc, logger *zap.Logger) *Loop {
	return &Loop{
		interval: interval,
		pass:     pass,
		logger:   logger,
		runNow:   make(chan struct{}, 1),
	}
}

// Trigger schedules a pass. It returns false, and schedules nothing, while a
// pass is already running.
func (l *Loop) Trigger() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status.InProgress {
		return false
	}
	select {
	case l.runNow <- struct{}{}:
	default:
		// One is already queued.
	}
	return true
}

func (l *Loop) InProgress() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status.InProgress
}

func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Run blocks until ctx is cancelled. Pass errors are logged and recorded in
// the status; the next pass starts from scratch.
func (l *Loop) Run(ctx context.Context) {
	// Seed the first run since the loop starts with the select block.
	l.Trigger()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Loop shutting down...")
			return
		case <-l.runNow:
		case <-time.After(l.interval):
			l.logger.Debug("Running loop")
		}

		l.runPass(ctx)
	}
}

func (l *Loop) runPass(ctx context.Context) {
	l.mu.Lock()
	l.status.InProgress = true
	l.status.LastStarted = time.Now()
	l.mu.Unlock()

	result, err := l.pass(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.status.InProgress = false
	l.status.LastFinished = time.Now()
	l.status.Passes++
	l.status.LastResult = result
	if err != nil {
		l.status.Failures++
		l.status.LastError = err.Error()
		l.logger.Error("True up pass failed.", zap.Error(err))
	} else {
		l.status.LastError = ""
	}
}
