// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stockroom.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Storage.Backend != "json" {
		t.Errorf("expected backend=json, got %s", cfg.Storage.Backend)
	}
	if len(cfg.Catalog) != 2 || cfg.Catalog[0].Name != "T-shirt" || cfg.Catalog[1].Name != "Shirt" {
		t.Errorf("unexpected default catalog: %+v", cfg.Catalog)
	}
	if cfg.Telegram.PollTimeout != 30 {
		t.Errorf("expected poll_timeout=30, got %d", cfg.Telegram.PollTimeout)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when STOCKROOM_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "STOCKROOM_CONFIG environment variable not set") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, `
environment: staging
storage:
  directory: /srv/stockroom
control:
  socket_path: /run/stockroom/control.sock
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}
	if cfg.Storage.LedgerFile != "/srv/stockroom/stock.json" {
		t.Errorf("ledger file = %s", cfg.Storage.LedgerFile)
	}
	if cfg.Storage.OperatorsFile != "/srv/stockroom/admins.json" {
		t.Errorf("operators file = %s", cfg.Storage.OperatorsFile)
	}
	if cfg.Storage.ImagesDirectory != "/srv/stockroom/images" {
		t.Errorf("images directory = %s", cfg.Storage.ImagesDirectory)
	}
	if cfg.Control.SocketPath != "/run/stockroom/control.sock" {
		t.Errorf("socket path = %s", cfg.Control.SocketPath)
	}
}

func TestLoadFile_AbsolutePathsKept(t *testing.T) {
	path := writeConfig(t, `
storage:
  directory: /srv/stockroom
  ledger_file: /var/lib/other/stock.json
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.LedgerFile != "/var/lib/other/stock.json" {
		t.Errorf("ledger file = %s", cfg.Storage.LedgerFile)
	}
}

func TestLoadFile_ProductionDefaults(t *testing.T) {
	path := writeConfig(t, "environment: production\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("production log format = %s, want json", cfg.Logging.Format)
	}
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: development
telegram:
  poll_timeout: 50
development:
  telegram:
    poll_timeout: 5
  storage:
    backend: sqlite
  logging:
    level: debug
production:
  storage:
    backend: json
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.PollTimeout != 5 {
		t.Errorf("poll_timeout = %d, want 5", cfg.Telegram.PollTimeout)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend = %s, want sqlite", cfg.Storage.Backend)
	}
	level, err := cfg.LogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("LogLevel = %v, %v", level, err)
	}
}

func TestLoadFile_VariableExpansion(t *testing.T) {
	t.Setenv("STOCKROOM_TEST_DATA", "/data/shop")
	t.Setenv("STOCKROOM_ROOT", "")
	path := writeConfig(t, `
storage:
  directory: ${STOCKROOM_TEST_DATA}
  sqlite_path: ${STOCKROOM_ROOT}/db/stock.db
telegram:
  token_file: ${STOCKROOM_TEST_MISSING:-/etc/stockroom/token}
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Directory != "/data/shop" {
		t.Errorf("directory = %s", cfg.Storage.Directory)
	}
	if cfg.Storage.SQLitePath != "/data/shop/db/stock.db" {
		t.Errorf("sqlite path = %s", cfg.Storage.SQLitePath)
	}
	if cfg.Telegram.TokenFile != "/etc/stockroom/token" {
		t.Errorf("token file = %s", cfg.Telegram.TokenFile)
	}
}

func TestLoadFile_CatalogReplacesDefault(t *testing.T) {
	path := writeConfig(t, `
catalog:
  - name: Trousers
    products: [Chino, Cargo]
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Catalog) != 1 || cfg.Catalog[0].Name != "Trousers" || len(cfg.Catalog[0].Products) != 2 {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"unknown environment", func(c *Config) { c.Environment = "qa" }, "invalid environment"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"zero poll timeout", func(c *Config) { c.Telegram.PollTimeout = 0 }, "poll_timeout"},
		{"negative concurrency", func(c *Config) { c.Telegram.MaxConcurrentEvents = -1 }, "max_concurrent_events"},
		{"sealed token without identity", func(c *Config) { c.Telegram.SealedToken = "age..." }, "identity_file"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad bootstrap id", func(c *Config) { c.BootstrapOperators = []int64{0} }, "bootstrap_operators"},
		{"duplicate category", func(c *Config) {
			c.Catalog = append(c.Catalog, c.Catalog[0])
		}, "duplicate category"},
		{"oversized product", func(c *Config) {
			c.Catalog[0].Products = append(c.Catalog[0].Products, strings.Repeat("x", 80))
		}, "catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.expandVariables()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnsurePaths(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Storage.Directory = filepath.Join(root, "data")
	cfg.Storage.ImagesDirectory = filepath.Join(root, "data", "images")
	if err := cfg.EnsurePaths(); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(cfg.Storage.ImagesDirectory); err != nil || !info.IsDir() {
		t.Errorf("images directory not created: %v", err)
	}
}

func TestResolve_DefaultsWithoutConfig(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	t.Setenv("STOCKROOM_ROOT", "/var/lib/stockroom")

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Storage.Directory != "/var/lib/stockroom" {
		t.Errorf("expected expanded directory, got %s", cfg.Storage.Directory)
	}
	if cfg.Storage.LedgerFile != "/var/lib/stockroom/stock.json" {
		t.Errorf("expected ledger file under the directory, got %s", cfg.Storage.LedgerFile)
	}
}

func TestResolve_PathWins(t *testing.T) {
	t.Setenv(EnvironmentVariable, writeConfig(t, "environment: staging\n"))
	path := writeConfig(t, "environment: production\n")

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Environment != Production {
		t.Errorf("expected production from the explicit path, got %s", cfg.Environment)
	}
}
