package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings. Values come from an optional YAML file
// plus environment variables; env always wins.
type Config struct {
	Port string `mapstructure:"port"`

	// API auth for the HTTP surface.
	APIKey string `mapstructure:"docsift_api_key"`

	// Embedding provider.
	OpenAIBaseURL  string `mapstructure:"openai_base_url"`
	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	EmbeddingModel string `mapstructure:"embedding_model"`

	// Worker pool.
	WorkerCount        int `mapstructure:"worker_count"`
	MaxQueueSize       int `mapstructure:"max_queue_size"`
	MaxConcurrentParse int `mapstructure:"max_concurrent_parse"`

	// Embedding throughput.
	EmbedBatchSize     int `mapstructure:"embed_batch_size"`
	MaxConcurrentEmbed int `mapstructure:"max_concurrent_embed"`

	// Upload limits.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`

	// Job state.
	JobTTL time.Duration `mapstructure:"job_ttl"`

	// Report output.
	TopK int `mapstructure:"top_k"`

	// Title detection thresholds.
	MaxTitleLines  int     `mapstructure:"max_title_lines"`
	MaxTitleWords  int     `mapstructure:"max_title_words"`
	TitleSizeDelta float64 `mapstructure:"title_size_delta"`
}

// Load reads configuration from the given YAML file (optional, pass "" to
// skip) and the environment.
func Load(configPath string) (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8090")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("worker_count", 4)
	v.SetDefault("max_queue_size", 100)
	v.SetDefault("max_concurrent_parse", 4)
	v.SetDefault("embed_batch_size", 16)
	v.SetDefault("max_concurrent_embed", 4)
	v.SetDefault("max_upload_bytes", int64(52428800)) // 50MB
	v.SetDefault("job_ttl", "1h")
	v.SetDefault("top_k", 5)
	v.SetDefault("max_title_lines", 2)
	v.SetDefault("max_title_words", 10)
	v.SetDefault("title_size_delta", 0.5)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	v.BindEnv("docsift_api_key", "DOCSIFT_API_KEY")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyFloors()
	return cfg, nil
}

func (c *Config) applyFloors() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.MaxConcurrentParse <= 0 {
		c.MaxConcurrentParse = 4
	}
	if c.EmbedBatchSize <= 0 {
		c.EmbedBatchSize = 16
	}
	if c.MaxConcurrentEmbed <= 0 {
		c.MaxConcurrentEmbed = 4
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.JobTTL <= 0 {
		c.JobTTL = time.Hour
	}
	if c.TopK <= 0 {
		c.TopK = 5
	}
}

// Validate checks settings the HTTP service cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSIFT_API_KEY is required")
	}
	return c.ValidateEmbedding()
}

// ValidateEmbedding checks settings any embedding-backed run needs.
func (c Config) ValidateEmbedding() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	return nil
}
