// Package config loads the application configuration from a YAML file,
// falling back to sensible defaults when the file or individual fields are
// absent. Environment overrides for secrets come from the process
// environment (see cmd/docflow, which loads a .env file at startup).
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ParserConfig contains connection details for the document-parsing service.
type ParserConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbeddingConfig configures the OpenAI-compatible embedding service.
type EmbeddingConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// QdrantConfig contains connection details for the Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	Dimension   int    `yaml:"dimension"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PipelineConfig tunes the ingestion pipeline.
type PipelineConfig struct {
	PoolSize       int `yaml:"pool_size"`
	MinChunkLength int `yaml:"min_chunk_length"`
}

// StorageConfig locates the local durable store.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Parser    ParserConfig    `yaml:"parser"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Storage   StorageConfig   `yaml:"storage"`
}

// ParserTimeout returns the parser timeout as a duration.
func (c *AppConfig) ParserTimeout() time.Duration {
	return time.Duration(c.Parser.TimeoutSecs) * time.Second
}

// QdrantTimeout returns the vector-store timeout as a duration.
func (c *AppConfig) QdrantTimeout() time.Duration {
	return time.Duration(c.Qdrant.TimeoutSecs) * time.Second
}

// QdrantAPIKey resolves the vector-store API key from the environment
// variable named in the config. Returns "" when unset.
func (c *AppConfig) QdrantAPIKey() string {
	if c.Qdrant.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Qdrant.APIKeyEnv)
}

// Load reads a config from the specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration used when no config file exists.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Parser.BaseURL == "" {
		cfg.Parser.BaseURL = "http://localhost:8070"
	}
	if cfg.Parser.TimeoutSecs == 0 {
		cfg.Parser.TimeoutSecs = 60
	}
	if cfg.Embedding.Host == "" {
		cfg.Embedding.Host = "http://localhost:11434/v1"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "embeddinggemma"
	}
	if cfg.Qdrant.URL == "" {
		cfg.Qdrant.URL = "http://localhost:6333"
	}
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = "knowledge"
	}
	if cfg.Qdrant.Dimension == 0 {
		cfg.Qdrant.Dimension = 768
	}
	if cfg.Qdrant.TimeoutSecs == 0 {
		cfg.Qdrant.TimeoutSecs = 15
	}
	if cfg.Pipeline.MinChunkLength == 0 {
		cfg.Pipeline.MinChunkLength = 10
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "docflow.db"
	}
}
