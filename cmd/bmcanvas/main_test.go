/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bmcanvas/internal/config"
	"bmcanvas/internal/schema"
	"bmcanvas/internal/storage"
)

// isolate points config, data and export dirs at a fresh temp tree.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(root, "config.yaml"))
	t.Setenv(config.EnvDataDir, filepath.Join(root, "data"))
	t.Setenv(config.EnvExportDir, filepath.Join(root, "out"))
	t.Setenv(config.EnvExportPage, "")
	t.Setenv(config.EnvStorageBackend, "")
	t.Setenv(config.EnvBackups, "")
	t.Setenv(config.EnvLogLevel, "error")
	return root
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

var addedID = regexp.MustCompile(`Added (\S+) to`)

func TestAddListRemove(t *testing.T) {
	isolate(t)

	out, err := run(t, "add", "channels", "Partner", "X")
	require.NoError(t, err)
	m := addedID.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	id := m[1]

	out, err = run(t, "list", "Channels")
	require.NoError(t, err)
	assert.Contains(t, out, "Channels (1)")
	assert.Contains(t, out, id+"  Partner X")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Key Partners (0)")
	assert.Contains(t, out, "Revenue Streams (0)")

	_, err = run(t, "remove", "channels", id)
	require.NoError(t, err)
	_, err = run(t, "remove", "channels", id)
	assert.Error(t, err)
}

func TestAddRejectsUnknownBlockAndBlankText(t *testing.T) {
	isolate(t)
	_, err := run(t, "add", "partners", "x")
	assert.ErrorContains(t, err, "unknown block")
	_, err = run(t, "add", "channels", "   ")
	assert.Error(t, err)
}

func TestClearNeedsConfirmation(t *testing.T) {
	root := isolate(t)
	_, err := run(t, "add", "cost-structure", "Hosting")
	require.NoError(t, err)

	_, err = run(t, "clear")
	assert.Error(t, err)
	_, err = os.Stat(filepath.Join(root, "data", storage.StorageKey+storage.BlobFileExt))
	require.NoError(t, err)

	_, err = run(t, "clear", "--yes")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "data", storage.StorageKey+storage.BlobFileExt))
	assert.True(t, os.IsNotExist(err))
}

func TestExportImportRoundTrip(t *testing.T) {
	root := isolate(t)
	_, err := run(t, "add", "value-propositions", "Cheaper")
	require.NoError(t, err)

	_, err = run(t, "export")
	require.NoError(t, err)
	exported := filepath.Join(root, "out", storage.ExportFileName)
	b, err := os.ReadFile(exported)
	require.NoError(t, err)
	data, err := schema.ValidateBytes(b)
	require.NoError(t, err)
	require.Len(t, data.ValuePropositions, 1)

	_, err = run(t, "clear", "--yes")
	require.NoError(t, err)
	out, err := run(t, "import", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 notes")

	out, err = run(t, "list", "value-propositions")
	require.NoError(t, err)
	assert.Contains(t, out, "Cheaper")
}

func TestImportReportsKindAndKeepsCanvas(t *testing.T) {
	root := isolate(t)
	_, err := run(t, "add", "channels", "Web")
	require.NoError(t, err)

	bad := filepath.Join(root, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"channels":[{"id":"1","text":"","blockType":"channels"}]}`), 0o644))
	_, err = run(t, "import", bad)
	assert.ErrorContains(t, err, "schema mismatch")

	garbage := filepath.Join(root, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte(`{nope`), 0o644))
	_, err = run(t, "import", garbage)
	assert.ErrorContains(t, err, "invalid JSON")

	out, err := run(t, "list", "channels")
	require.NoError(t, err)
	assert.Contains(t, out, "Web")
}

func TestSQLiteBackendFlag(t *testing.T) {
	root := isolate(t)
	_, err := run(t, "--backend", "sqlite", "add", "key-resources", "Team")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "data", storage.SQLiteFileName))
	require.NoError(t, err)

	out, err := run(t, "--backend", "sqlite", "list", "key-resources")
	require.NoError(t, err)
	assert.Contains(t, out, "Team")
}

func TestRestoreLatestBackup(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvBackups, "3")
	_, err := run(t, "add", "customer-segments", "SMEs")
	require.NoError(t, err)
	_, err = run(t, "add", "customer-segments", "Students")
	require.NoError(t, err)

	out, err := run(t, "restore", "--list")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	_, err = run(t, "restore")
	require.NoError(t, err)
	out, err = run(t, "list", "customer-segments")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer Segments (1)")
	assert.NotContains(t, out, "Students")
}

func TestPDFAndInfoCommands(t *testing.T) {
	root := isolate(t)
	out := filepath.Join(root, "canvas.pdf")
	_, err := run(t, "pdf", "--page", "letter", out)
	require.NoError(t, err)
	_, err = run(t, "pdf", "--page", "tabloid", filepath.Join(root, "x.pdf"))
	assert.ErrorContains(t, err, "unknown page preset")
	st, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, st.Size())

	txt, err := run(t, "blocks")
	require.NoError(t, err)
	assert.Equal(t, 9, strings.Count(txt, "\n"))

	txt, err = run(t, "schema")
	require.NoError(t, err)
	assert.Equal(t, string(schema.Document()), txt)

	txt, err = run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(txt, "bmcanvas version "))
}

func TestWatchNeedsFileBackend(t *testing.T) {
	isolate(t)
	_, err := run(t, "--backend", "memory", "watch")
	assert.ErrorContains(t, err, "file backend")
}

func TestConfigSetAndShow(t *testing.T) {
	root := isolate(t)

	out, err := run(t, "config", "set", "storage.backups", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "storage.backups = 2")
	b, err := os.ReadFile(filepath.Join(root, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "backups: 2")
	assert.NotContains(t, string(b), filepath.Join(root, "data"), "env override must not be persisted")

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Regexp(t, `storage\.backups\s+2\n`, out)
	assert.Contains(t, out, "(from "+config.EnvDataDir+")")

	_, err = run(t, "config", "set", "export.page", "tabloid")
	assert.ErrorContains(t, err, "unknown page preset")
	_, err = run(t, "config", "set", "no.such", "x")
	assert.ErrorContains(t, err, "unknown config key")
}

func TestImportMissingFileIsImportError(t *testing.T) {
	root := isolate(t)
	_, err := run(t, "import", filepath.Join(root, "missing.json"))
	assert.ErrorContains(t, err, "import error")
}

func TestImportFromStdinWithBOM(t *testing.T) {
	isolate(t)
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader("\ufeff" + `{"key-partners":[{"id":"p","text":"Suppliers","blockType":"key-partners"}]}`))
	rootCmd.SetArgs([]string{"import", "-"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Imported 1 notes")
}
