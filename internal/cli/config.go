package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/htable/pkg/htable"
)

// ConfigFileName is the default project config file name.
const ConfigFileName = ".htable.json"

const defaultCapacity = 16

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigFileRead     = errors.New("cannot read config file")
	errConfigInvalid      = errors.New("invalid config file")
)

// Config holds all configuration options.
//
// Pointer fields distinguish "not set" from an explicit zero so layered
// files can override each other.
type Config struct {
	Capacity    *int   `json:"capacity,omitempty"`
	Hash        string `json:"hash,omitempty"`
	Duplicates  string `json:"duplicates,omitempty"`
	HistoryFile string `json:"history_file,omitempty"` //nolint:tagliatelle // snake_case for config file

	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	capacity := defaultCapacity

	return Config{
		Capacity:   &capacity,
		Hash:       htable.HashDjb2,
		Duplicates: htable.Overwrite.String(),
	}
}

// CapacityOrDefault returns the configured capacity.
func (c Config) CapacityOrDefault() int {
	if c.Capacity == nil {
		return defaultCapacity
	}

	return *c.Capacity
}

// TableOptions converts the hash and duplicate settings into table options.
func (c Config) TableOptions() ([]htable.Option, error) {
	hash, err := htable.HashByName(c.Hash)
	if err != nil {
		return nil, err
	}

	policy, err := htable.ParseDuplicatePolicy(c.Duplicates)
	if err != nil {
		return nil, err
	}

	return []htable.Option{htable.WithHash(hash), htable.WithDuplicates(policy)}, nil
}

// globalConfigPath returns $XDG_CONFIG_HOME/htable/config.json, falling back
// to $HOME/.config/htable/config.json. Returns "" when neither is set.
func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "htable", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "htable", "config.json")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/htable/config.json)
// 3. Project config file at default location (.htable.json, if exists)
// 4. Explicit config file via configPath (replaces 3, must exist).
//
// CLI flag overrides are applied by the commands themselves.
func LoadConfig(workDir, configPath string, env map[string]string) (Config, error) {
	cfg := DefaultConfig()

	if globalPath := globalConfigPath(env); globalPath != "" {
		globalCfg, loaded, err := loadConfigFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = mergeConfig(cfg, globalCfg)
			cfg.Sources.Global = globalPath
		}
	}

	projectPath := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		projectPath = configPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		mustExist = true

		if _, statErr := os.Stat(projectPath); statErr != nil {
			return Config{}, fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
		}
	}

	projectCfg, loaded, err := loadConfigFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = mergeConfig(cfg, projectCfg)
		cfg.Sources.Project = projectPath
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errConfigInvalid, err)
	}

	return cfg, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files
// return a zero config and loaded=false.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", errConfigFileRead, path)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Capacity != nil {
		base.Capacity = overlay.Capacity
	}

	if overlay.Hash != "" {
		base.Hash = overlay.Hash
	}

	if overlay.Duplicates != "" {
		base.Duplicates = overlay.Duplicates
	}

	if overlay.HistoryFile != "" {
		base.HistoryFile = overlay.HistoryFile
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.CapacityOrDefault() < 0 {
		return fmt.Errorf("capacity must be >= 0, got %d: %w", cfg.CapacityOrDefault(), htable.ErrInvalidInput)
	}

	_, err := cfg.TableOptions()

	return err
}

// FormatConfig returns the config as formatted JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
