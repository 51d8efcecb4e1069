/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bmcanvas/internal/domain"
	applog "bmcanvas/internal/log"
	"bmcanvas/internal/schema"
)

const (
	// StorageKey is the single key under which the canvas blob lives.
	StorageKey = "businessModelCanvas"

	ExportFileName = "business_model_canvas.json"
	ExportMIMEType = "application/json"
)

// utf8BOM is dropped from the start of imported files, as editors on Windows
// often write one.
var utf8BOM = []byte("\xEF\xBB\xBF")

// ImportErrorKind classifies why an import failed.
type ImportErrorKind int

const (
	ImportFailed ImportErrorKind = iota
	ImportInvalidJSON
	ImportSchemaMismatch
)

func (k ImportErrorKind) String() string {
	switch k {
	case ImportInvalidJSON:
		return "invalid JSON"
	case ImportSchemaMismatch:
		return "schema mismatch"
	default:
		return "import error"
	}
}

// ImportError is the only error Store.Import returns.
type ImportError struct {
	Kind ImportErrorKind
	Err  error
}

// Error leads with the kind unless the cause already does.
func (e *ImportError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	msg := e.Err.Error()
	if strings.HasPrefix(msg, e.Kind.String()) {
		return msg
	}
	return e.Kind.String() + ": " + msg
}

func (e *ImportError) Unwrap() error { return e.Err }

// Store reads and writes the canvas under StorageKey.
// It is safe for concurrent use as far as the underlying BlobStore is.
type Store struct {
	blobs BlobStore
	log   *slog.Logger
}

func NewStore(blobs BlobStore) *Store {
	return &Store{blobs: blobs, log: applog.WithComponent("storage")}
}

// Blobs exposes the backing BlobStore.
func (s *Store) Blobs() BlobStore { return s.blobs }

// EmptyCanvas returns the canonical all-empty canvas.
func (s *Store) EmptyCanvas() domain.CanvasData { return domain.EmptyCanvas() }

// Load returns the persisted canvas. A missing, unreadable, malformed or invalid
// blob yields the empty canvas; the cause is logged.
func (s *Store) Load(ctx context.Context) domain.CanvasData {
	l := applog.WithOperation(s.log, "load")
	raw, err := s.blobs.Get(ctx, StorageKey)
	if errors.Is(err, ErrNotFound) {
		l.DebugContext(ctx, "no saved canvas")
		return domain.EmptyCanvas()
	}
	if err != nil {
		l.ErrorContext(ctx, "error loading canvas data", slog.Any("err", err))
		return domain.EmptyCanvas()
	}
	data, err := schema.ValidateBytes(raw)
	if err != nil {
		l.ErrorContext(ctx, "error loading canvas data", slog.Any("err", err))
		return domain.EmptyCanvas()
	}
	l.DebugContext(ctx, "canvas loaded", slog.Int("items", data.Len()))
	return data
}

// Save writes data over any previous value. Failures are logged and dropped.
func (s *Store) Save(ctx context.Context, data domain.CanvasData) {
	l := applog.WithOperation(s.log, "save")
	raw, err := json.Marshal(data)
	if err != nil {
		l.ErrorContext(ctx, "error saving canvas data", slog.Any("err", err))
		return
	}
	if err := s.blobs.Put(ctx, StorageKey, raw); err != nil {
		l.ErrorContext(ctx, "error saving canvas data", slog.Any("err", err))
		return
	}
	l.DebugContext(ctx, "canvas saved", slog.Int("items", data.Len()), slog.Int("bytes", len(raw)))
}

// Clear deletes the persisted canvas. In-memory copies held by callers are untouched.
func (s *Store) Clear(ctx context.Context) {
	if err := s.blobs.Delete(ctx, StorageKey); err != nil {
		applog.WithOperation(s.log, "clear").ErrorContext(ctx, "error clearing canvas data", slog.Any("err", err))
	}
}

// Export writes data as JSON indented by two spaces, the interchange format
// Import accepts.
func (s *Store) Export(w io.Writer, data domain.CanvasData) error {
	b, err := EncodeExport(data)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// EncodeExport returns the export artifact bytes for data.
func EncodeExport(data domain.CanvasData) ([]byte, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal canvas: %w", err)
	}
	return append(b, '\n'), nil
}

// ExportFile writes the export artifact as dir/business_model_canvas.json and
// returns its path.
func (s *Store) ExportFile(dir string, data domain.CanvasData) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure export dir: %w", err)
	}
	var buf bytes.Buffer
	if err := s.Export(&buf, data); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ExportFileName)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	s.log.Info("canvas exported", slog.String("path", path), slog.String("mime", ExportMIMEType))
	return path, nil
}

// Import reads a whole document from r, validates it and on success saves and
// returns it. Every failure is an *ImportError.
func (s *Store) Import(ctx context.Context, r io.Reader) (data domain.CanvasData, err error) {
	l := applog.WithOperation(s.log, "import")
	defer func() {
		if rec := recover(); rec != nil {
			err = &ImportError{Kind: ImportFailed, Err: fmt.Errorf("panic: %v", rec)}
		}
		if err != nil {
			l.ErrorContext(ctx, "error importing canvas data", slog.Any("err", err))
		}
	}()
	if r == nil {
		return domain.CanvasData{}, &ImportError{Kind: ImportFailed, Err: errors.New("no input")}
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return domain.CanvasData{}, &ImportError{Kind: ImportFailed, Err: fmt.Errorf("read input: %w", err)}
	}
	data, err = schema.ValidateBytes(bytes.TrimPrefix(raw, utf8BOM))
	if err != nil {
		var pe *schema.ParseError
		var ve *schema.ValidationError
		switch {
		case errors.As(err, &pe):
			return domain.CanvasData{}, &ImportError{Kind: ImportInvalidJSON, Err: err}
		case errors.As(err, &ve):
			return domain.CanvasData{}, &ImportError{Kind: ImportSchemaMismatch, Err: err}
		default:
			return domain.CanvasData{}, &ImportError{Kind: ImportFailed, Err: err}
		}
	}
	s.Save(ctx, data)
	l.InfoContext(ctx, "canvas imported", slog.Int("items", data.Len()))
	return data, nil
}

// ImportFile opens path and imports it.
func (s *Store) ImportFile(ctx context.Context, path string) (domain.CanvasData, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.CanvasData{}, &ImportError{Kind: ImportFailed, Err: fmt.Errorf("open import file: %w", err)}
	}
	defer func() { _ = f.Close() }()
	return s.Import(ctx, f)
}
