// Package config loads application configuration from a TOML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultChatModel      = "gpt-4o-mini"
	DefaultOwner          = "local"
)

// Config is the full application configuration.
type Config struct {
	// DataDir is where the database and stored documents live.
	// Defaults to ~/.paperchat.
	DataDir string `toml:"data_dir"`

	// Owner identifies the local user for ownership checks.
	Owner string `toml:"owner"`

	OpenAI   OpenAIConfig   `toml:"openai"`
	Chunking ChunkingConfig `toml:"chunking"`
}

// OpenAIConfig configures the embedding and generation backends.
type OpenAIConfig struct {
	// APIKey authenticates against the API. Usually set through the
	// OPENAI_API_KEY environment variable rather than the file.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the API endpoint for compatible servers.
	BaseURL string `toml:"base_url"`

	// EmbeddingModel is the embedding model name.
	EmbeddingModel string `toml:"embedding_model"`

	// ChatModel is the chat completion model name.
	ChatModel string `toml:"chat_model"`

	// RequestTimeout bounds individual API calls.
	RequestTimeout time.Duration `toml:"request_timeout"`

	// RequestsPerMinute throttles embedding calls.
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// ChunkingConfig tunes how paper text is split.
type ChunkingConfig struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// MinChunkSize is the smallest chunk worth cutting.
	MinChunkSize int `toml:"min_chunk_size"`

	// Overlap is how many characters adjacent chunks share.
	Overlap int `toml:"overlap"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Owner: DefaultOwner,
		OpenAI: OpenAIConfig{
			EmbeddingModel: DefaultEmbeddingModel,
			ChatModel:      DefaultChatModel,
		},
	}
}

// Load reads configuration from configDir/config.toml, falling back
// to defaults, then applies environment overrides. If configDir is
// empty, defaults to ~/.paperchat.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".paperchat")
	}

	cfg := Default()
	cfg.DataDir = configDir

	path := filepath.Join(configDir, "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// No config file yet - that's fine, run on defaults
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// applyEnv lets the environment override file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := os.Getenv("PAPERCHAT_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PAPERCHAT_OWNER"); v != "" {
		c.Owner = v
	}
	if v := os.Getenv("PAPERCHAT_EMBEDDING_MODEL"); v != "" {
		c.OpenAI.EmbeddingModel = v
	}
	if v := os.Getenv("PAPERCHAT_CHAT_MODEL"); v != "" {
		c.OpenAI.ChatModel = v
	}
	if v := os.Getenv("PAPERCHAT_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Chunking.ChunkSize = n
		}
	}
}

// fillDefaults backfills anything the file and environment left empty.
func (c *Config) fillDefaults() {
	if c.Owner == "" {
		c.Owner = DefaultOwner
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = DefaultEmbeddingModel
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = DefaultChatModel
	}
}
