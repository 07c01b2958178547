package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendKuzu   = "kuzu"
	BackendNeo4j  = "neo4j"
	BackendMemory = "memory"
)

// PasswordEnv overrides store.neo4j.password when set.
const PasswordEnv = "DIRGRAPH_NEO4J_PASSWORD"

// Config holds settings loaded from dirgraph.yml.
type Config struct {
	RootPath string      `yaml:"rootPath,omitempty"`
	Store    StoreConfig `yaml:"store,omitempty"`
	Retry    RetryConfig `yaml:"retry,omitempty"`
	Log      LogConfig   `yaml:"log,omitempty"`
	Serve    ServeConfig `yaml:"serve,omitempty"`
}

// StoreConfig selects and locates the graph store.
type StoreConfig struct {
	Backend  string      `yaml:"backend,omitempty"`
	KuzuPath string      `yaml:"kuzuPath,omitempty"`
	Neo4j    Neo4jConfig `yaml:"neo4j,omitempty"`
}

// Neo4jConfig holds server connection settings.
type Neo4jConfig struct {
	URI      string `yaml:"uri,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
}

// RetryConfig bounds retries after the store is unavailable. Zero values keep
// the unbounded immediate retry.
type RetryConfig struct {
	MaxAttempts int           `yaml:"maxAttempts,omitempty"`
	Backoff     time.Duration `yaml:"backoff,omitempty"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ServeConfig holds listen addresses for the serve command.
type ServeConfig struct {
	Addr        string `yaml:"addr,omitempty"`
	MetricsAddr string `yaml:"metricsAddr,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load attempts to read dirgraph.yml or dirgraph.yaml from the given
// directory. Returns the default config (not an error) if no config file
// exists.
func Load(dir string) (*Config, error) {
	for _, name := range []string{"dirgraph.yml", "dirgraph.yaml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads the config file at path. A missing file is an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendKuzu, BackendNeo4j, BackendMemory:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("config: retry.maxAttempts must not be negative")
	}
	if c.Retry.Backoff < 0 {
		return fmt.Errorf("config: retry.backoff must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = BackendKuzu
	}
	if c.Store.KuzuPath == "" {
		c.Store.KuzuPath = filepath.Join(".dirgraph", "graph.kuzu")
	}
	if c.Store.Neo4j.URI == "" {
		c.Store.Neo4j.URI = "neo4j://localhost:7687"
	}
	if c.Store.Neo4j.Username == "" {
		c.Store.Neo4j.Username = "neo4j"
	}
	if c.Store.Neo4j.Database == "" {
		c.Store.Neo4j.Database = "neo4j"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = "localhost:8080"
	}
	if c.Serve.MetricsAddr == "" {
		c.Serve.MetricsAddr = "localhost:9090"
	}
}

func (c *Config) applyEnv() {
	if pw, ok := os.LookupEnv(PasswordEnv); ok {
		c.Store.Neo4j.Password = pw
	}
}
