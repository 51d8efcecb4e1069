/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a crash report plus a last-chance copy of the
// canvas that was being edited.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"bmcanvas/internal/domain"
	applog "bmcanvas/internal/log"
	"bmcanvas/internal/storage"
	"bmcanvas/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// CrashDirName is the folder under the data dir that receives reports and snapshots.
const CrashDirName = "crash"

// Snapshotter is anything that can hand out the canvas being edited, such as
// *canvas.Controller.
type Snapshotter interface {
	Snapshot() domain.CanvasData
}

// Target tells Recover where to write and what to save. Fields are read when a
// panic is handled, so a Target can be deferred before the canvas is opened.
type Target struct {
	DataDir string
	Canvas  Snapshotter
}

// Recover captures a panic, logs an error with stacktrace, writes an error report
// under DataDir/crash and saves a snapshot of the canvas (if any) in the export
// format so it can be re-imported. It must be deferred directly:
//
//	defer crash.Recover(target)
func Recover(t *Target) {
	if r := recover(); r != nil {
		if t == nil {
			t = &Target{}
		}
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(t.DataDir, r, stack)
		if err != nil {
			l.Error("crash report failed", slog.Any("err", err))
		}
		if data, ok := snapshotOf(t.Canvas); ok {
			if path, err := writeSnapshot(t.DataDir, data); err != nil {
				l.Error("crash snapshot failed", slog.Any("err", err))
			} else {
				l.Info("crash snapshot written", slog.String("path", path))
				_, _ = fmt.Fprintf(os.Stderr, "Your canvas was saved to: %s (restore with: bmcanvas import %s)\n", path, path)
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

// snapshotOf reports false for a missing source, including a typed nil pointer.
func snapshotOf(s Snapshotter) (data domain.CanvasData, ok bool) {
	if s == nil {
		return data, false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return s.Snapshot(), true
}

func crashDir(dataDir string) string {
	if dataDir == "" {
		return os.TempDir()
	}
	dir := filepath.Join(dataDir, CrashDirName)
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func stamp() string { return time.Now().Format("20060102-150405") }

func writeReport(dataDir string, panicVal any, stack []byte) (string, error) {
	path := filepath.Join(crashDir(dataDir), fmt.Sprintf("crash-%s.log", stamp()))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Business Model Canvas Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if dataDir != "" {
		_, _ = fmt.Fprintf(&buf, "DataDir: %s\n", dataDir)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}

func writeSnapshot(dataDir string, data domain.CanvasData) (string, error) {
	b, err := storage.EncodeExport(data)
	if err != nil {
		return "", err
	}
	path := filepath.Join(crashDir(dataDir), fmt.Sprintf("crash-%s.canvas.json", stamp()))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}
