/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lastJSONLine(t *testing.T, b []byte) map[string]any {
	t.Helper()
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	return m
}

// TestInitAndStructuredLoggingToFile verifies that Init with a file handler writes JSON logs
// and that static and contextual attributes are present.
func TestInitAndStructuredLoggingToFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "bmcanvas.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "json", File: fpath, Output: &console})
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })

	l := WithOperation(WithComponent("storage"), "save")
	l.Info("canvas saved", slog.Int("items", 3))

	// Give a brief moment for the filesystem to settle (Windows)
	time.Sleep(50 * time.Millisecond)

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	m := lastJSONLine(t, b)
	if m["app"] != "bmcanvas" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "storage" || m["op"] != "save" {
		t.Fatalf("component/op mismatch: %v %v", m["component"], m["op"])
	}
	if m["msg"] != "canvas saved" {
		t.Fatalf("msg mismatch: %v", m["msg"])
	}
	// console receives the same record
	if cm := lastJSONLine(t, console.Bytes()); cm["msg"] != "canvas saved" {
		t.Fatalf("console msg mismatch: %v", cm["msg"])
	}
}

func TestContextAttrsAreAdded(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })

	ctx := ContextWith(context.Background(), slog.String("cmd", "add"))
	ctx = ContextWith(ctx, slog.String("backend", "file"))
	WithComponent("canvas").InfoContext(ctx, "item added")

	m := lastJSONLine(t, buf.Bytes())
	if m["cmd"] != "add" || m["backend"] != "file" {
		t.Fatalf("context attrs missing: %v", m)
	}

	// Records without the context stay unchanged
	buf.Reset()
	WithComponent("canvas").Info("plain")
	if _, ok := lastJSONLine(t, buf.Bytes())["cmd"]; ok {
		t.Fatalf("cmd attr leaked into record without context")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })

	L().Info("hidden")
	L().Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "WRN shown") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestFromEnvAndGetenv(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	t.Setenv(EnvFormat, "json")
	t.Setenv(EnvSource, "true")
	t.Setenv(EnvFile, "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
	if v := getenv("BMC_SOME_UNSET_VAR", "fallback"); v != "fallback" {
		t.Fatalf("getenv fallback failed: %q", v)
	}
}

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	h := newConsoleHandler(&buf, slog.LevelWarn, false)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should not be enabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should be enabled at warn level")
	}

	h2 := h.WithAttrs([]slog.Attr{
		slog.String("app", "bmcanvas"),
		slog.String("component", "storage"),
		slog.String("k", "v"),
	}).WithGroup("grp")
	r := slog.NewRecord(time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC), slog.LevelError, "boom", 0)
	r.AddAttrs(slog.Int("n", 42), slog.Float64("pi", 3.14), slog.Bool("ok", true), slog.String("text", "two words"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "15:04:05 ERR [storage] boom k=v") {
		t.Fatalf("unexpected line start: %q", out)
	}
	for _, want := range []string{"grp.n=42", "grp.pi=3.14", "grp.ok=true", `grp.text="two words"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "app=") {
		t.Fatalf("app attr should be hidden on console: %q", out)
	}
}

func TestFanoutRespectsLevels(t *testing.T) {
	var lo, hi bytes.Buffer
	f := fanout{
		newConsoleHandler(&lo, slog.LevelDebug, false),
		newConsoleHandler(&hi, slog.LevelError, false),
	}
	l := slog.New(f)
	l.Debug("detail")
	l.Error("failure")
	if !strings.Contains(lo.String(), "detail") || !strings.Contains(lo.String(), "failure") {
		t.Fatalf("debug sink missing records: %q", lo.String())
	}
	if strings.Contains(hi.String(), "detail") || !strings.Contains(hi.String(), "failure") {
		t.Fatalf("error sink mismatch: %q", hi.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug, " WARNING ": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
