package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sansls/internal/diagnostics"

	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file looked up in the root.
const FileName = ".sansls.yaml"

var ErrUnknownCheck = errors.New("unknown diagnostic code")

type Config struct {
	FileExtensions      []string `json:"file_extensions"       yaml:"file_extensions"`
	DisabledChecks      []string `json:"disabled_checks"       yaml:"disabled_checks"`
	Index               bool     `json:"index"                 yaml:"index"`
	IndexPath           string   `json:"index_path"            yaml:"index_path"`
	GraphAddress        string   `json:"graph_address"         yaml:"graph_address"`
	MaxWorkspaceSymbols int      `json:"max_workspace_symbols" yaml:"max_workspace_symbols"`
}

var defaultConfig = Config{
	FileExtensions:      []string{".sans"},
	DisabledChecks:      []string{},
	Index:               true,
	IndexPath:           "",
	GraphAddress:        ":0",
	MaxWorkspaceSymbols: 128,
}

// Default returns a copy of the default configuration.
func Default() Config {
	return defaultConfig.clone()
}

func (c Config) clone() Config {
	c.FileExtensions = append([]string(nil), c.FileExtensions...)
	c.DisabledChecks = append([]string(nil), c.DisabledChecks...)
	return c
}

// Load overlays v, typically the client's initializationOptions, on top
// of base. Only fields present in v overwrite.
func Load(base Config, v any) (Config, error) {
	cfg := base.clone()
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML configuration file over the defaults. A missing
// file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unknown check codes and fills zero limits.
func (c *Config) Validate() error {
	for _, code := range c.DisabledChecks {
		if !diagnostics.IsCode(code) {
			return fmt.Errorf("%w: %q", ErrUnknownCheck, code)
		}
	}
	if len(c.FileExtensions) == 0 {
		c.FileExtensions = append([]string(nil), defaultConfig.FileExtensions...)
	}
	if c.MaxWorkspaceSymbols <= 0 {
		c.MaxWorkspaceSymbols = defaultConfig.MaxWorkspaceSymbols
	}
	return nil
}

// HasExtension reports whether name ends in one of the configured
// extensions.
func (c Config) HasExtension(name string) bool {
	for _, ext := range c.FileExtensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}
