/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"bmcanvas/internal/canvas"
	applog "bmcanvas/internal/log"
	"bmcanvas/internal/storage"
)

// session is one opened canvas: the store over the configured blob backend and
// the controller holding the in-memory copy.
type session struct {
	store *storage.Store
	ctrl  *canvas.Controller
}

func openSession(ctx context.Context) (*session, error) {
	dir := cfg.Storage.DataDir
	if cfg.Storage.Backend != storage.BackendMemory {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
	}
	blobs, err := storage.OpenBlobStore(cfg.Storage.Backend, dir)
	if err != nil {
		return nil, err
	}
	if fb, ok := blobs.(*storage.FileBlobStore); ok {
		fb.Backups = cfg.Storage.Backups
	}
	st := storage.NewStore(blobs)
	s := &session{store: st, ctrl: canvas.New(ctx, st)}
	crashTarget.Canvas = s.ctrl
	return s, nil
}

func (s *session) Close() {
	if err := s.store.Blobs().Close(); err != nil {
		applog.WithComponent("cli").Warn("close storage", slog.Any("err", err))
	}
}

// commandContext tags log records emitted while running name.
func commandContext(name string) context.Context {
	return applog.ContextWith(context.Background(), slog.String("cmd", name))
}
