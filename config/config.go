package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string         `mapstructure:"port"`
	LogLevel string         `mapstructure:"log_level"`
	LogJSON  bool           `mapstructure:"log_json"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Weaviate WeaviateConfig `mapstructure:"weaviate"`
	Embed    EmbedConfig    `mapstructure:"embedding"`
	Chunker  ChunkerConfig  `mapstructure:"chunker"`
}

type MongoConfig struct {
	URI      string `mapstructure:"MONGODB_URI"`
	Database string `mapstructure:"database"`
}

type WeaviateConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
}

type EmbedConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"OPENAI_API_KEY"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

// ThemeRule maps keywords to a theme tag. Rules are an ordered list: when a
// chunk matches keywords of more than one theme, the first rule in
// declaration order wins. That order is the deterministic tie-break.
type ThemeRule struct {
	Theme    string   `mapstructure:"theme"`
	Keywords []string `mapstructure:"keywords"`
}

type ChunkerConfig struct {
	TargetSize int         `mapstructure:"target_size"`
	Overlap    int         `mapstructure:"overlap"`
	MinLength  int         `mapstructure:"min_length"`
	Themes     []ThemeRule `mapstructure:"themes"`
}

// DefaultThemes mirrors the curated keyword table the knowledge base
// started with. Config files may replace it entirely.
func DefaultThemes() []ThemeRule {
	return []ThemeRule{
		{Theme: "technology", Keywords: []string{"teknologi", "digital", "internet", "technology", "software"}},
		{Theme: "power", Keywords: []string{"kekuasaan", "hegemoni", "dominasi", "power", "hegemony"}},
		{Theme: "culture", Keywords: []string{"budaya", "kultur", "tradisi", "culture", "tradition"}},
		{Theme: "language", Keywords: []string{"bahasa", "linguistik", "language", "linguistic"}},
		{Theme: "identity", Keywords: []string{"identitas", "jati diri", "identity"}},
		{Theme: "colonialism", Keywords: []string{"kolonial", "penjajah", "colonial", "imperialism"}},
		{Theme: "resistance", Keywords: []string{"perlawanan", "resistensi", "resistance", "opposition"}},
	}
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("mongo.database", "pustaka")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.timeout", 30*time.Second)
	v.SetDefault("embedding.max_attempts", 3)
	v.SetDefault("embedding.base_delay", 500*time.Millisecond)
	v.SetDefault("chunker.target_size", 1000)
	v.SetDefault("chunker.overlap", 100)
	v.SetDefault("chunker.min_length", 20)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("embedding.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("weaviate.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("mongo.MONGODB_URI", "MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if len(config.Chunker.Themes) == 0 {
		config.Chunker.Themes = DefaultThemes()
	}

	return &config, nil
}
