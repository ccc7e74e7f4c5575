package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	// Server
	Port         string
	Env          string
	LogLevel     string
	WriteTimeout time.Duration

	// Model
	ModelProvider string

	// Gemini AI
	GeminiAPIKey string
	GeminiModel  string

	// OpenAI-compatible
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// HTTP surface
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

var defaults = map[string]any{
	"port":                  "8080",
	"env":                   "development",
	"log_level":             "info",
	"write_timeout_seconds": 60,
	"model_provider":        ProviderGemini,
	"gemini_model":          "gemini-1.5-flash",
	"openai_model":          "gpt-4o-mini",
	"cors_allowed_origins":  "*",
	"metrics_enabled":       true,
}

// Load reads .env (if present), an optional CONFIG_FILE and the environment.
// Environment values win over the file. A missing API key is not an error
// here; the tutor handler reports it per request.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:               v.GetString("port"),
		Env:                v.GetString("env"),
		LogLevel:           v.GetString("log_level"),
		WriteTimeout:       time.Duration(intOrDefault(v, "write_timeout_seconds", 60)) * time.Second,
		ModelProvider:      strings.ToLower(strings.TrimSpace(v.GetString("model_provider"))),
		GeminiAPIKey:       strings.TrimSpace(v.GetString("gemini_api_key")),
		GeminiModel:        v.GetString("gemini_model"),
		OpenAIAPIKey:       strings.TrimSpace(v.GetString("openai_api_key")),
		OpenAIModel:        v.GetString("openai_model"),
		OpenAIBaseURL:      v.GetString("openai_base_url"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		MetricsEnabled:     v.GetBool("metrics_enabled"),
	}

	switch cfg.ModelProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("unsupported model provider: %q", cfg.ModelProvider)
	}

	return cfg, nil
}

// APIKey returns the credential of the configured provider.
func (c *Config) APIKey() string {
	if c.ModelProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Model returns the model identifier of the configured provider.
func (c *Config) Model() string {
	if c.ModelProvider == ProviderOpenAI {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func intOrDefault(v *viper.Viper, key string, defaultVal int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
