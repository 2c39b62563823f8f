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
package topology

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 250 * time.Millisecond

// Watcher owns the zone loaded from a topology file and swaps in a new one
// whenever the file changes. Readers always see a complete zone.
type Watcher struct {
	path     string
	logger   *zap.Logger
	onChange func(*Zone)

	mu   sync.RWMutex
	zone *Zone
}

// NewWatcher loads the file once. A zone that fails to load here is fatal,
// later reload failures keep the last good zone.
func NewWatcher(path string, logger *zap.Logger, onChange func(*Zone)) (*Watcher, error) {
	zone, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     path,
		logger:   logger,
		onChange: onChange,
		zone:     zone,
	}, nil
}

func (w *Watcher) Zone() *Zone {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.zone
}

// Reload re-reads the file and, on success, replaces the current zone and
// fires the change callback.
func (w *Watcher) Reload() error {
	zone, err := Load(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.zone = zone
	w.mu.Unlock()

	w.logger.Info("Reloaded topology.",
		zap.String("path", w.path), zap.Int("networks", len(zone.Networks)))
	for _, issue := range Lint(zone) {
		w.logger.Warn("Topology issue.", zap.String("issue", issue.String()))
	}

	if w.onChange != nil {
		w.onChange(zone)
	}
	return nil
}

// Watch blocks until ctx is cancelled. The parent directory is watched so
// editors and config-map updates that replace the file by rename are seen.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	absPath, _ := filepath.Abs(w.path)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			absEvent, _ := filepath.Abs(event.Name)
			if absEvent != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				if err := w.Reload(); err != nil {
					w.logger.Error("Failed to reload topology, keeping previous version.",
						zap.String("path", w.path), zap.Error(err))
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("fsnotify error", zap.Error(err))
		}
	}
}
