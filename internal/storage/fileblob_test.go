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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileBlobStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	fb, err := NewFileBlobStore(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileBlobStore error: %v", err)
	}
	if _, err := fb.Get(ctx, StorageKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}
	if err := fb.Put(ctx, StorageKey, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	b, err := fb.Get(ctx, StorageKey)
	if err != nil || string(b) != `{"a":1}` {
		t.Fatalf("Get = %q, %v", b, err)
	}
	p, _ := fb.Path(StorageKey)
	if filepath.Base(p) != StorageKey+BlobFileExt {
		t.Fatalf("unexpected blob file name %s", p)
	}
	if err := fb.Delete(ctx, StorageKey); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := fb.Delete(ctx, StorageKey); err != nil {
		t.Fatalf("Delete of missing key should not fail: %v", err)
	}
	if _, err := fb.Get(ctx, StorageKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestFileBlobStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fb, _ := NewFileBlobStore(dir)
	for i := 0; i < 3; i++ {
		if err := fb.Put(ctx, StorageKey, []byte("x")); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range ents {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileBlobStoreRejectsPathKeys(t *testing.T) {
	fb, _ := NewFileBlobStore(t.TempDir())
	for _, k := range []string{"", "../x", `a\b`, ".."} {
		if err := fb.Put(context.Background(), k, []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", k)
		}
	}
	if _, err := NewFileBlobStore("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestFileBlobStoreKeepsRollingBackups(t *testing.T) {
	ctx := context.Background()
	fb, _ := NewFileBlobStore(t.TempDir())
	fb.Backups = 2
	for _, v := range []string{"v1", "v2", "v3", "v4"} {
		if err := fb.Put(ctx, StorageKey, []byte(v)); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}
	baks, err := fb.ListBackups(StorageKey)
	if err != nil {
		t.Fatalf("ListBackups error: %v", err)
	}
	if len(baks) != 2 {
		t.Fatalf("expected 2 backups, found %d", len(baks))
	}
	latest, err := os.ReadFile(baks[len(baks)-1])
	if err != nil {
		t.Fatalf("read latest backup: %v", err)
	}
	if string(latest) != "v3" {
		t.Fatalf("latest backup = %q, want v3", latest)
	}
}

func TestFileBlobStoreNoBackupsByDefault(t *testing.T) {
	ctx := context.Background()
	fb, _ := NewFileBlobStore(t.TempDir())
	_ = fb.Put(ctx, StorageKey, []byte("a"))
	_ = fb.Put(ctx, StorageKey, []byte("b"))
	baks, err := fb.ListBackups(StorageKey)
	if err != nil || len(baks) != 0 {
		t.Fatalf("expected no backups, got %v (%v)", baks, err)
	}
}
