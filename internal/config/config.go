package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	SourceCSV     = "csv"
	SourceGraphDB = "graphdb"
)

type ServerConfig struct {
	Port string `toml:"port" yaml:"port" validate:"required,numeric"`
	Mode string `toml:"mode" yaml:"mode" validate:"omitempty,oneof=debug release test"`
}

// SourceConfig selects where edge records come from.
type SourceConfig struct {
	Kind      string `toml:"kind" yaml:"kind" validate:"required,oneof=csv graphdb"`
	Path      string `toml:"path" yaml:"path" validate:"required_if=Kind csv"`
	Delimiter string `toml:"delimiter" yaml:"delimiter" validate:"omitempty,len=1"`
	// Query must return source, target and value columns. Empty selects the
	// built-in edge list query.
	Query string `toml:"query" yaml:"query"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri" yaml:"uri" validate:"omitempty,uri"`
	User     string `toml:"user" yaml:"user"`
	Password string `toml:"password" yaml:"password"`
}

type LimitsConfig struct {
	MaxBytes    int64 `toml:"max_bytes" yaml:"max_bytes" validate:"gt=0"`
	MaxRecords  int   `toml:"max_records" yaml:"max_records" validate:"gt=0"`
	FocusWindow int64 `toml:"focus_window" yaml:"focus_window" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" yaml:"format" validate:"oneof=json console"`
}

type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Source   SourceConfig   `toml:"source" yaml:"source"`
	Memgraph MemgraphConfig `toml:"memgraph" yaml:"memgraph"`
	Limits   LimitsConfig   `toml:"limits" yaml:"limits"`
	Log      LogConfig      `toml:"log" yaml:"log"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Mode: "release"},
		Source: SourceConfig{
			Kind:      SourceCSV,
			Path:      "static/data/result.csv",
			Delimiter: ",",
		},
		Memgraph: MemgraphConfig{URI: "bolt://localhost:7687"},
		Limits: LimitsConfig{
			MaxBytes:    32 << 20,
			MaxRecords:  1_000_000,
			FocusWindow: 1000,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Files ending in .yaml or .yml are YAML, anything else is TOML.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnv overrides file values with any environment variables that are set.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{"PORT", &c.Server.Port},
		{"GIN_MODE", &c.Server.Mode},
		{"LINKGRAPH_SOURCE", &c.Source.Kind},
		{"LINKGRAPH_DATA_PATH", &c.Source.Path},
		{"LINKGRAPH_DELIMITER", &c.Source.Delimiter},
		{"MEMGRAPH_URI", &c.Memgraph.URI},
		{"MEMGRAPH_USER", &c.Memgraph.User},
		{"MEMGRAPH_PASSWORD", &c.Memgraph.Password},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.target = v
		}
	}
	if c.Source.Delimiter == `\t` {
		c.Source.Delimiter = "\t"
	}
}

// Comma returns the field delimiter, defaulting to ','.
func (s SourceConfig) Comma() rune {
	if s.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	return r
}
