/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"bmcanvas/internal/domain"
	applog "bmcanvas/internal/log"
)

// ErrWatchUnsupported is returned by Watch for backends without change notification.
var ErrWatchUnsupported = errors.New("storage backend does not support watching")

// watchDebounce coalesces the bursts of events one atomic write produces.
const watchDebounce = 50 * time.Millisecond

// Watch calls fn with the freshly loaded canvas whenever the persisted blob
// changes on disk, e.g. when another process saves. It blocks until ctx is done.
// Only the file backend supports watching.
func (s *Store) Watch(ctx context.Context, fn func(domain.CanvasData)) error {
	fb, ok := s.blobs.(*FileBlobStore)
	if !ok {
		return ErrWatchUnsupported
	}
	target, err := fb.Path(StorageKey)
	if err != nil {
		return err
	}
	l := applog.WithOperation(s.log, "watch").With(slog.String("path", target))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	// Writes replace the file by rename, so the directory is watched rather than the file.
	if err := watcher.Add(fb.Dir); err != nil {
		return fmt.Errorf("watch data dir: %w", err)
	}
	l.Debug("watching canvas")

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(target) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch error", slog.Any("err", err))
		case <-timer.C:
			fn(s.Load(ctx))
		}
	}
}
