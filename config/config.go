package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"port"`
	UploadDir      string   `mapstructure:"upload_dir"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	EmbeddingModel  string `mapstructure:"embedding_model"`
	EmbedIntervalMs int    `mapstructure:"embed_interval_ms"`
	GoogleAPIKey    string `mapstructure:"GOOGLE_API_KEY"`

	CompletionEndpoint string `mapstructure:"completion_endpoint"`
	CompletionModel    string `mapstructure:"completion_model"`
	GroqAPIKey         string `mapstructure:"GROQ_API_KEY"`

	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`

	FetchTimeoutSec int `mapstructure:"fetch_timeout_sec"`

	MongoURI string `mapstructure:"MONGODB_URI"`

	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
}

// EmbedInterval is the minimum spacing between embedding calls. Zero
// disables pacing.
func (c *Config) EmbedInterval() time.Duration {
	return time.Duration(c.EmbedIntervalMs) * time.Millisecond
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("port", "8000")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("embedding_model", "text-embedding-004")
	v.SetDefault("embed_interval_ms", 500)
	v.SetDefault("completion_endpoint", "https://api.groq.com/openai/v1")
	v.SetDefault("completion_model", "llama-3.3-70b-versatile")
	v.SetDefault("chunk_size", 1000)
	v.SetDefault("chunk_overlap", 200)
	v.SetDefault("fetch_timeout_sec", 10)

	// Secrets come from the environment, never from the config file.
	v.AutomaticEnv()
	v.BindEnv("GOOGLE_API_KEY")
	v.BindEnv("GROQ_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	config.WeaviateStoreConfig.APIKey = v.GetString("WEAVIATE_APIKEY")

	return &config, nil
}
