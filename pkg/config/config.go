package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	AzureAI    AzureAIConfig
	Generation GenerationConfig
	Redis      RedisConfig
	Scraper    ScraperConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type AzureAIConfig struct {
	Endpoint            string
	APIKey              string
	Deployment          string
	APIVersion          string
	EmbeddingDeployment string
	TimeoutSec          int
}

// Configured reports whether provider credentials are present. Generation
// and embedding features are gated on this.
func (c AzureAIConfig) Configured() bool {
	return c.APIKey != "" && c.Endpoint != ""
}

type GenerationConfig struct {
	MaxRetries             int
	MaxSimilarityThreshold float64
	MinSimilarityThreshold float64
	Temperature            float32
	ValidationTemperature  float32
	MaxTokens              int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type ScraperConfig struct {
	PdfToTextPath string
	PdfInfoPath   string
	PdfImagesPath string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/edutech")

	viper.SetEnvPrefix("EDUTECH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 60)
	viper.SetDefault("server.bodyLimit", 52428800)

	viper.SetDefault("azureai.deployment", "gpt-4")
	viper.SetDefault("azureai.apiVersion", "2024-02-15-preview")
	viper.SetDefault("azureai.embeddingDeployment", "text-embedding-ada-002")
	viper.SetDefault("azureai.timeoutSec", 60)

	viper.SetDefault("generation.maxRetries", 3)
	viper.SetDefault("generation.maxSimilarityThreshold", 0.9)
	viper.SetDefault("generation.minSimilarityThreshold", 0.3)
	viper.SetDefault("generation.temperature", 0.8)
	viper.SetDefault("generation.validationTemperature", 0.3)
	viper.SetDefault("generation.maxTokens", 1000)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("scraper.pdfToTextPath", "pdftotext")
	viper.SetDefault("scraper.pdfInfoPath", "pdfinfo")
	viper.SetDefault("scraper.pdfImagesPath", "pdfimages")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
