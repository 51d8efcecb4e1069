/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas holds the editing session: one in-memory canvas, mutated only
// through Controller methods, with every change written through to storage.
package canvas

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"bmcanvas/internal/domain"
	applog "bmcanvas/internal/log"
	"bmcanvas/internal/storage"
)

// Store is the persistence the controller writes through to.
type Store interface {
	Load(ctx context.Context) domain.CanvasData
	Save(ctx context.Context, data domain.CanvasData)
	Clear(ctx context.Context)
	Import(ctx context.Context, r io.Reader) (domain.CanvasData, error)
	ImportFile(ctx context.Context, path string) (domain.CanvasData, error)
}

var _ Store = (*storage.Store)(nil)

// Controller owns the authoritative canvas of a session. All methods are safe
// for concurrent use; each is one read-modify-write of the whole canvas followed
// by a save.
type Controller struct {
	mu    sync.Mutex
	data  domain.CanvasData
	store Store
	newID func() string
	log   *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithIDGenerator replaces the default UUIDv7 id source.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New creates a controller holding the canvas loaded from store.
func New(ctx context.Context, store Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		newID: newItemID,
		log:   applog.WithComponent("canvas"),
	}
	for _, o := range opts {
		o(c)
	}
	c.data = store.Load(ctx)
	return c
}

// newItemID returns a UUIDv7: a millisecond timestamp followed by random bits.
func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Snapshot returns a deep copy of the current canvas.
func (c *Controller) Snapshot() domain.CanvasData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// Items returns a copy of the list under bt.
func (c *Controller) Items(bt domain.BlockType) []domain.CanvasItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	src := c.data.Items(bt)
	if src == nil {
		return nil
	}
	out := make([]domain.CanvasItem, len(src))
	copy(out, src)
	return out
}

// Item looks up id inside bt.
func (c *Controller) Item(bt domain.BlockType, id string) (domain.CanvasItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.data.Items(bt) {
		if it.ID == id {
			return it, true
		}
	}
	return domain.CanvasItem{}, false
}

// AddItem appends a new item with trimmed text to bt and saves. It does nothing
// and reports false when bt is unknown or the trimmed text is empty.
func (c *Controller) AddItem(ctx context.Context, bt domain.BlockType, text string) (domain.CanvasItem, bool) {
	text = strings.TrimSpace(text)
	if !bt.Valid() || text == "" {
		c.log.DebugContext(ctx, "add rejected", slog.String("block", string(bt)), slog.Bool("empty", text == ""))
		return domain.CanvasItem{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.uniqueID()
	item := domain.CanvasItem{ID: id, Text: text, BlockType: bt}
	cur := c.data.Items(bt)
	next := make([]domain.CanvasItem, len(cur), len(cur)+1)
	copy(next, cur)
	c.data.SetItems(bt, append(next, item))

	c.store.Save(ctx, c.data)
	c.log.InfoContext(ctx, "item added", slog.String("block", string(bt)), slog.String("id", id))
	return item, true
}

// maxIDRedraws bounds how often a colliding id from the configured generator is
// redrawn before falling back to newItemID.
const maxIDRedraws = 8

func (c *Controller) uniqueID() string {
	id := c.newID()
	for i := 0; c.hasID(id); i++ {
		if i < maxIDRedraws {
			id = c.newID()
			continue
		}
		c.log.Warn("id generator keeps colliding, using UUIDv7", slog.String("id", id))
		id = newItemID()
	}
	return id
}

func (c *Controller) hasID(id string) bool {
	_, ok := c.data.Find(id)
	return ok
}

// RemoveItem drops the item with id from bt and saves. A missing item leaves the
// canvas unchanged; the result reports whether anything was removed.
func (c *Controller) RemoveItem(ctx context.Context, bt domain.BlockType, id string) bool {
	if !bt.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.data.Items(bt)
	next := make([]domain.CanvasItem, 0, len(cur))
	for _, it := range cur {
		if it.ID != id {
			next = append(next, it)
		}
	}
	removed := len(next) != len(cur)
	c.data.SetItems(bt, next)
	c.store.Save(ctx, c.data)
	if removed {
		c.log.InfoContext(ctx, "item removed", slog.String("block", string(bt)), slog.String("id", id))
	}
	return removed
}

// ClearAll resets the in-memory canvas and erases the persisted copy together.
func (c *Controller) ClearAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = domain.EmptyCanvas()
	c.store.Clear(ctx)
	c.log.InfoContext(ctx, "canvas cleared")
}

// ReplaceAll swaps in data wholesale. The caller vouches that data is valid and
// already persisted, as Store.Import guarantees.
func (c *Controller) ReplaceAll(data domain.CanvasData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data.Clone()
}

// Import runs Store.Import and ReplaceAll as one critical section, so no add or
// remove can interleave between the read of r and the swap. On failure the
// in-memory canvas is unchanged and the *storage.ImportError is returned.
func (c *Controller) Import(ctx context.Context, r io.Reader) (domain.CanvasData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := c.store.Import(ctx, r)
	if err != nil {
		return domain.CanvasData{}, err
	}
	c.data = data.Clone()
	c.log.InfoContext(ctx, "canvas replaced by import", slog.Int("items", data.Len()))
	return data, nil
}

// ImportFile is Import reading from the file at path. A file that cannot be
// opened is reported as an *storage.ImportError of kind ImportFailed.
func (c *Controller) ImportFile(ctx context.Context, path string) (domain.CanvasData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := c.store.ImportFile(ctx, path)
	if err != nil {
		return domain.CanvasData{}, err
	}
	c.data = data.Clone()
	c.log.InfoContext(ctx, "canvas replaced by import", slog.String("path", path), slog.Int("items", data.Len()))
	return data, nil
}
