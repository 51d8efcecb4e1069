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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmcanvas/internal/domain"
)

func TestWatchReportsExternalSaves(t *testing.T) {
	dir := t.TempDir()
	fb, err := NewFileBlobStore(dir)
	require.NoError(t, err)
	watched := NewStore(fb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan domain.CanvasData, 4)
	done := make(chan error, 1)
	go func() {
		done <- watched.Watch(ctx, func(d domain.CanvasData) {
			select {
			case got <- d:
			default:
			}
		})
	}()
	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	// a second store over the same directory plays the other writer
	other, err := NewFileBlobStore(dir)
	require.NoError(t, err)
	NewStore(other).Save(context.Background(), sampleCanvas())

	select {
	case d := <-got:
		assert.Equal(t, sampleCanvas(), d)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
	cancel()
	assert.NoError(t, <-done)
}

func TestWatchUnsupportedBackend(t *testing.T) {
	err := NewStore(NewMemoryBlobStore()).Watch(context.Background(), func(domain.CanvasData) {})
	assert.True(t, errors.Is(err, ErrWatchUnsupported))
}
