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
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func TestSQLiteBlobStoreUpsertAndPersist(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), SQLiteFileName)
	s, err := OpenSQLiteBlobStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteBlobStore error: %v", err)
	}
	if _, err := s.Get(ctx, StorageKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on fresh db = %v, want ErrNotFound", err)
	}
	for _, v := range []string{"first", "second"} {
		if err := s.Put(ctx, StorageKey, []byte(v)); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	// Reopen and expect the last value
	s, err = OpenSQLiteBlobStore(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	b, err := s.Get(ctx, StorageKey)
	if err != nil || string(b) != "second" {
		t.Fatalf("Get = %q, %v; want second", b, err)
	}
	if err := s.Delete(ctx, StorageKey); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, StorageKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
	v, err := s.SchemaVersion(ctx)
	if err != nil || v != schemaVersion {
		t.Fatalf("SchemaVersion = %d, %v; want %d", v, err, schemaVersion)
	}
}

// TestMigrations_UpgradeV1ToV2 ensures that a v1 database (blobs without updated_at)
// is migrated and its data kept.
func TestMigrations_UpgradeV1ToV2(t *testing.T) {
	path := filepath.Join(t.TempDir(), SQLiteFileName)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	stmts := []string{
		`CREATE TABLE meta (key TEXT PRIMARY KEY, value TEXT NOT NULL);`,
		`CREATE TABLE version (id INTEGER PRIMARY KEY CHECK(id=1), schema INTEGER NOT NULL, app TEXT, created_at TEXT NOT NULL, updated_at TEXT NOT NULL);`,
		`INSERT INTO version(id, schema, app, created_at, updated_at) VALUES(1, 1, 'test', '2020-01-01T00:00:00Z', '2020-01-01T00:00:00Z');`,
		`CREATE TABLE blobs (key TEXT PRIMARY KEY, value BLOB NOT NULL);`,
		`INSERT INTO blobs(key, value) VALUES('businessModelCanvas', X'7B7D');`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			t.Fatalf("seed v1 schema: %v (q=%s)", err, q)
		}
	}
	_ = db.Close()

	s, err := OpenSQLiteBlobStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteBlobStore error: %v", err)
	}
	defer s.Close()
	v, err := s.SchemaVersion(ctx)
	if err != nil || v != schemaVersion {
		t.Fatalf("SchemaVersion = %d, %v; want %d", v, err, schemaVersion)
	}
	b, err := s.Get(ctx, StorageKey)
	if err != nil || string(b) != "{}" {
		t.Fatalf("pre-migration blob lost: %q, %v", b, err)
	}
	if err := s.Put(ctx, StorageKey, []byte("[]")); err != nil {
		t.Fatalf("Put after migration: %v", err)
	}
}
