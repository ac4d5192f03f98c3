// Package config loads and validates the application configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// GatewayConfig configures the embedding/completion provider.
type GatewayConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKeyEnv       string `yaml:"api_key_env"`
	EmbeddingModel  string `yaml:"embedding_model"`
	CompletionModel string `yaml:"completion_model"`
	TimeoutSecs     int    `yaml:"timeout_secs"`
	MaxRetries      int    `yaml:"max_retries"`
}

// RetrievalConfig holds the retrieval pipeline constants. ChunkOverlap
// and SimilarityThreshold are pointers because zero is a valid explicit
// setting for both; only an absent key falls back to the default.
type RetrievalConfig struct {
	ChunkSize           int      `yaml:"chunk_size"`
	ChunkOverlap        *int     `yaml:"chunk_overlap"`
	SimilarityThreshold *float64 `yaml:"similarity_threshold"`
	MaxHistory          int      `yaml:"max_history"`
}

// StoreConfig selects the vector store implementation.
type StoreConfig struct {
	Type string `yaml:"type"` // memory, sqlite or postgres
	Path string `yaml:"path"` // sqlite data directory
	DSN  string `yaml:"dsn"`  // postgres connection string
}

// CatalogConfig configures the optional batch-file watcher.
type CatalogConfig struct {
	WatchDir string `yaml:"watch_dir"`
}

// PolicyConfig points at the sales policy prompt artifact.
type PolicyConfig struct {
	Path string `yaml:"path"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Store     StoreConfig     `yaml:"store"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Policy    PolicyConfig    `yaml:"policy"`

	// APIKey is resolved from the environment at load time, never from
	// the file.
	APIKey string `yaml:"-"`
}

// Load reads a config from path. A missing file yields defaults; the
// API credential is always resolved from the environment and its
// absence is a fatal configuration error.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(cfg)

	cfg.APIKey = os.Getenv(cfg.Gateway.APIKeyEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants. The process must not
// start when any of them fails.
func (c *AppConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("missing API credential: set %s", c.Gateway.APIKeyEnv)
	}
	if c.Retrieval.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Retrieval.ChunkSize)
	}
	if overlap := *c.Retrieval.ChunkOverlap; overlap < 0 || overlap >= c.Retrieval.ChunkSize {
		return fmt.Errorf("chunk_overlap %d must be in [0, chunk_size)", overlap)
	}
	if threshold := *c.Retrieval.SimilarityThreshold; threshold < -1 || threshold > 1 {
		return fmt.Errorf("similarity_threshold %v out of [-1, 1]", threshold)
	}
	if c.Retrieval.MaxHistory <= 0 {
		return fmt.Errorf("max_history must be positive, got %d", c.Retrieval.MaxHistory)
	}
	switch c.Store.Type {
	case "memory", "sqlite":
	case "postgres":
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	return nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{Addr: ":8000"},
		Gateway: GatewayConfig{
			BaseURL:         "https://api.openai.com/v1",
			APIKeyEnv:       "SALESRAG_API_KEY",
			EmbeddingModel:  "text-embedding-3-small",
			CompletionModel: "gpt-4o-mini",
			TimeoutSecs:     30,
			MaxRetries:      3,
		},
		Retrieval: RetrievalConfig{
			ChunkSize:           400,
			ChunkOverlap:        intPtr(50),
			SimilarityThreshold: floatPtr(0.5),
			MaxHistory:          10,
		},
		Store: StoreConfig{Type: "memory"},
	}
}

func applyDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Gateway.BaseURL == "" {
		cfg.Gateway.BaseURL = def.Gateway.BaseURL
	}
	if cfg.Gateway.APIKeyEnv == "" {
		cfg.Gateway.APIKeyEnv = def.Gateway.APIKeyEnv
	}
	if cfg.Gateway.EmbeddingModel == "" {
		cfg.Gateway.EmbeddingModel = def.Gateway.EmbeddingModel
	}
	if cfg.Gateway.CompletionModel == "" {
		cfg.Gateway.CompletionModel = def.Gateway.CompletionModel
	}
	if cfg.Gateway.TimeoutSecs == 0 {
		cfg.Gateway.TimeoutSecs = def.Gateway.TimeoutSecs
	}
	if cfg.Gateway.MaxRetries == 0 {
		cfg.Gateway.MaxRetries = def.Gateway.MaxRetries
	}
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = def.Retrieval.ChunkSize
	}
	if cfg.Retrieval.ChunkOverlap == nil {
		cfg.Retrieval.ChunkOverlap = def.Retrieval.ChunkOverlap
	}
	if cfg.Retrieval.SimilarityThreshold == nil {
		cfg.Retrieval.SimilarityThreshold = def.Retrieval.SimilarityThreshold
	}
	if cfg.Retrieval.MaxHistory == 0 {
		cfg.Retrieval.MaxHistory = def.Retrieval.MaxHistory
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = def.Store.Type
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
