// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/stockroom/lib/catalog"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "STOCKROOM_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the master configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Control  ControlConfig  `yaml:"control"`
	Logging  LoggingConfig  `yaml:"logging"`

	// BootstrapOperators seeds the operator registry when it is empty
	// at startup. It is ignored once any operator exists.
	BootstrapOperators []int64 `yaml:"bootstrap_operators"`

	// Catalog is the ordered category menu. A file that sets catalog
	// replaces the default list entirely.
	Catalog []catalog.Category `yaml:"catalog"`

	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`
	Storage  *StorageConfig  `yaml:"storage,omitempty"`
	Control  *ControlConfig  `yaml:"control,omitempty"`
	Logging  *LoggingConfig  `yaml:"logging,omitempty"`
}

// TelegramConfig configures the Bot API transport.
type TelegramConfig struct {
	// APIURL is the Bot API base URL.
	// Default: https://api.telegram.org
	APIURL string `yaml:"api_url"`

	// The bot token comes from exactly one source, tried in this
	// order: SealedToken (age ciphertext, decrypted with
	// IdentityFile), TokenFile, then the TokenEnv variable.
	TokenEnv     string `yaml:"token_env"`
	TokenFile    string `yaml:"token_file"`
	SealedToken  string `yaml:"sealed_token"`
	IdentityFile string `yaml:"identity_file"`

	// PollTimeout is the getUpdates long-poll timeout in seconds.
	// Default: 30
	PollTimeout int `yaml:"poll_timeout"`

	// MaxConcurrentEvents bounds how many operators' events are
	// processed at once.
	// Default: 8
	MaxConcurrentEvents int `yaml:"max_concurrent_events"`
}

// StorageConfig configures where the ledger, registry and images live.
type StorageConfig struct {
	// Backend is "json" (default) or "sqlite".
	Backend string `yaml:"backend"`

	// Directory is the base directory. Relative paths below resolve
	// against it.
	Directory string `yaml:"directory"`

	LedgerFile      string `yaml:"ledger_file"`
	OperatorsFile   string `yaml:"operators_file"`
	ImagesDirectory string `yaml:"images_directory"`
	SQLitePath      string `yaml:"sqlite_path"`
}

// ControlConfig configures the local administration socket.
type ControlConfig struct {
	SocketPath string `yaml:"socket_path"`
}

// LoggingConfig configures the daemon's slog handler.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// Default returns the development configuration used as the base
// before a file is applied.
func Default() *Config {
	return &Config{
		Environment: Development,
		Telegram: TelegramConfig{
			APIURL:              "https://api.telegram.org",
			TokenEnv:            "STOCKROOM_TELEGRAM_TOKEN",
			PollTimeout:         30,
			MaxConcurrentEvents: 8,
		},
		Storage: StorageConfig{
			Backend:         "json",
			Directory:       "${STOCKROOM_ROOT:-.}",
			LedgerFile:      "stock.json",
			OperatorsFile:   "admins.json",
			ImagesDirectory: "images",
			SQLitePath:      "stockroom.db",
		},
		Control: ControlConfig{
			SocketPath: "${XDG_RUNTIME_DIR:-/tmp}/stockroom.sock",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Catalog: catalog.Default(),
	}
}

// Load loads configuration from the STOCKROOM_CONFIG environment
// variable. There is no fallback when it is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your stockroom.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// Resolve loads path when it is set, then the STOCKROOM_CONFIG file
// when that is set, and otherwise returns the expanded defaults.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	cfg := Default()
	if err := cfg.parse(nil); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// parse merges data into c, then applies overrides and expansion.
func (c *Config) parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	c.applyEnvironmentOverrides()
	c.expandVariables()
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &ConfigOverrides{
				Logging: &LoggingConfig{Format: "json"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if telegram := overrides.Telegram; telegram != nil {
		overrideString(&c.Telegram.APIURL, telegram.APIURL)
		overrideString(&c.Telegram.TokenEnv, telegram.TokenEnv)
		overrideString(&c.Telegram.TokenFile, telegram.TokenFile)
		overrideString(&c.Telegram.SealedToken, telegram.SealedToken)
		overrideString(&c.Telegram.IdentityFile, telegram.IdentityFile)
		if telegram.PollTimeout != 0 {
			c.Telegram.PollTimeout = telegram.PollTimeout
		}
		if telegram.MaxConcurrentEvents != 0 {
			c.Telegram.MaxConcurrentEvents = telegram.MaxConcurrentEvents
		}
	}

	if storage := overrides.Storage; storage != nil {
		overrideString(&c.Storage.Backend, storage.Backend)
		overrideString(&c.Storage.Directory, storage.Directory)
		overrideString(&c.Storage.LedgerFile, storage.LedgerFile)
		overrideString(&c.Storage.OperatorsFile, storage.OperatorsFile)
		overrideString(&c.Storage.ImagesDirectory, storage.ImagesDirectory)
		overrideString(&c.Storage.SQLitePath, storage.SQLitePath)
	}

	if overrides.Control != nil {
		overrideString(&c.Control.SocketPath, overrides.Control.SocketPath)
	}

	if overrides.Logging != nil {
		overrideString(&c.Logging.Level, overrides.Logging.Level)
		overrideString(&c.Logging.Format, overrides.Logging.Format)
	}
}

func overrideString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields
// and resolves relative storage paths against storage.directory.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Storage.Directory = expandVars(c.Storage.Directory, vars)
	vars["STOCKROOM_ROOT"] = c.Storage.Directory

	c.Storage.LedgerFile = c.resolve(expandVars(c.Storage.LedgerFile, vars))
	c.Storage.OperatorsFile = c.resolve(expandVars(c.Storage.OperatorsFile, vars))
	c.Storage.ImagesDirectory = c.resolve(expandVars(c.Storage.ImagesDirectory, vars))
	c.Storage.SQLitePath = c.resolve(expandVars(c.Storage.SQLitePath, vars))
	c.Control.SocketPath = expandVars(c.Control.SocketPath, vars)
	c.Telegram.TokenFile = expandVars(c.Telegram.TokenFile, vars)
	c.Telegram.IdentityFile = expandVars(c.Telegram.IdentityFile, vars)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Storage.Directory, path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Telegram.APIURL == "" {
		errs = append(errs, fmt.Errorf("telegram.api_url is required"))
	}
	if c.Telegram.PollTimeout <= 0 {
		errs = append(errs, fmt.Errorf("telegram.poll_timeout must be positive, got %d", c.Telegram.PollTimeout))
	}
	if c.Telegram.MaxConcurrentEvents <= 0 {
		errs = append(errs, fmt.Errorf("telegram.max_concurrent_events must be positive, got %d", c.Telegram.MaxConcurrentEvents))
	}
	if c.Telegram.SealedToken != "" && c.Telegram.IdentityFile == "" {
		errs = append(errs, fmt.Errorf("telegram.identity_file is required with telegram.sealed_token"))
	}

	backends := []string{"json", "sqlite"}
	if !slices.Contains(backends, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend must be one of: %v", backends))
	}
	if c.Storage.Directory == "" {
		errs = append(errs, fmt.Errorf("storage.directory is required"))
	}

	if c.Control.SocketPath == "" {
		errs = append(errs, fmt.Errorf("control.socket_path is required"))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	for _, id := range c.BootstrapOperators {
		if id <= 0 {
			errs = append(errs, fmt.Errorf("bootstrap_operators: %d is not a valid operator id", id))
		}
	}

	if _, err := catalog.New(c.Catalog); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// EnsurePaths creates the storage directories.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Storage.Directory, c.Storage.ImagesDirectory} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
