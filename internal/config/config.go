/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	applog "bmcanvas/internal/log"
)

type StorageConfig struct {
	Backend string `yaml:"backend"`  // "file" | "sqlite" | "memory"
	DataDir string `yaml:"data_dir"` // empty means the per-user data directory
	Backups int    `yaml:"backups"`  // file backend only; previous versions kept
}

type ExportConfig struct {
	Dir  string `yaml:"dir"`  // where business_model_canvas.json goes; empty means cwd
	Page string `yaml:"page"` // PDF page preset: a4 | a3 | letter
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on load.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Storage       StorageConfig `yaml:"storage"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Storage:       StorageConfig{Backend: "file", DataDir: "", Backups: 0},
		Export:        ExportConfig{Dir: "", Page: "a4"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "BMC_CONFIG"
	EnvStorageBackend = "BMC_STORAGE_BACKEND"
	EnvDataDir        = "BMC_DATA_DIR"
	EnvBackups        = "BMC_BACKUPS"
	EnvExportDir      = "BMC_EXPORT_DIR"
	EnvExportPage     = "BMC_EXPORT_PAGE"
	EnvLogLevel       = applog.EnvLevel
	EnvLogFormat      = applog.EnvFormat
	EnvLogSource      = applog.EnvSource
	EnvLogFile        = applog.EnvFile
)

const appDirName = "bmcanvas"

// ConfigPath returns the per-user config file path, or BMC_CONFIG when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, appDirName, "config.yaml"), nil
}

// DefaultDataDir returns the per-user directory the canvas is stored in.
func DefaultDataDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("LocalAppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support")
	default: // linux and others
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			base = filepath.Join(os.Getenv("HOME"), ".local", "share")
		}
	}
	if strings.TrimSpace(base) == "" {
		return "", errors.New("cannot resolve data directory")
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads the user config file (if present), applies defaults, merges environment
// overrides and resolves an empty data dir to DefaultDataDir.
// A config file that exists but does not parse is an error.
func Load() (AppConfig, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	if cfg.Storage.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return cfg, err
		}
		cfg.Storage.DataDir = dir
	}
	return cfg, nil
}

// LoadFile returns defaults merged with the config file only: no environment
// overrides and no data dir resolution. This is what Save should write back.
func LoadFile() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// Keys lists the settable fields in display order.
func Keys() []string {
	return []string{
		"storage.backend", "storage.data_dir", "storage.backups",
		"export.dir", "export.page",
		"logging.level", "logging.format", "logging.source", "logging.file",
	}
}

// Get returns the field named by key as text.
func (c AppConfig) Get(key string) (string, error) {
	switch key {
	case "storage.backend":
		return c.Storage.Backend, nil
	case "storage.data_dir":
		return c.Storage.DataDir, nil
	case "storage.backups":
		return strconv.Itoa(c.Storage.Backups), nil
	case "export.dir":
		return c.Export.Dir, nil
	case "export.page":
		return c.Export.Page, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.source":
		return strconv.FormatBool(c.Logging.Source), nil
	case "logging.file":
		return c.Logging.File, nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set parses value into the field named by key.
func (c *AppConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "storage.backend":
		v := strings.ToLower(value)
		switch v {
		case "file", "sqlite", "memory":
		default:
			return fmt.Errorf("storage.backend must be file, sqlite or memory, got %q", value)
		}
		c.Storage.Backend = v
	case "storage.data_dir":
		c.Storage.DataDir = expandHome(value)
	case "storage.backups":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("storage.backups must be a non-negative integer, got %q", value)
		}
		c.Storage.Backups = n
	case "export.dir":
		c.Export.Dir = expandHome(value)
	case "export.page":
		c.Export.Page = strings.ToLower(value)
	case "logging.level":
		c.Logging.Level = strings.ToLower(value)
	case "logging.format":
		c.Logging.Format = strings.ToLower(value)
	case "logging.source":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("logging.source must be true or false, got %q", value)
		}
		c.Logging.Source = b
	case "logging.file":
		c.Logging.File = expandHome(value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LogOptions converts the logging section for applog.Init.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.Source,
		File:      c.Logging.File,
	}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.ToLower(strings.TrimSpace(src.Storage.Backend)); v != "" {
		dst.Storage.Backend = v
	}
	if v := strings.TrimSpace(src.Storage.DataDir); v != "" {
		dst.Storage.DataDir = expandHome(v)
	}
	if src.Storage.Backups > 0 {
		dst.Storage.Backups = src.Storage.Backups
	}
	if v := strings.TrimSpace(src.Export.Dir); v != "" {
		dst.Export.Dir = expandHome(v)
	}
	if v := strings.ToLower(strings.TrimSpace(src.Export.Page)); v != "" {
		dst.Export.Page = v
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = expandHome(strings.TrimSpace(src.Logging.File))
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvStorageBackend)); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		cfg.Storage.DataDir = expandHome(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackups)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Storage.Backups = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.Dir = expandHome(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportPage)); v != "" {
		cfg.Export.Page = strings.ToLower(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	envs := map[string]string{
		"storage.backend":  EnvStorageBackend,
		"storage.data_dir": EnvDataDir,
		"storage.backups":  EnvBackups,
		"export.dir":       EnvExportDir,
		"export.page":      EnvExportPage,
		"logging.level":    EnvLogLevel,
		"logging.format":   EnvLogFormat,
		"logging.source":   EnvLogSource,
		"logging.file":     EnvLogFile,
	}
	if name, ok := envs[key]; ok && os.Getenv(name) != "" {
		return name, true
	}
	return "", false
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
