package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingCredential is returned by Load when the selected provider has no credential.
var ErrMissingCredential = errors.New("generation service credential is not set")

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

const (
	PageModeTemplate = "template"
	PageModeInline   = "inline"
	PageModeOff      = "off"
)

type Config struct {
	Server     ServerConfig
	Generation GenerationConfig
	Prompt     PromptConfig
	Redis      RedisConfig
	App        AppConfig
}

type ServerConfig struct {
	Port           string
	APIKey         string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	PageMode       string
}

type GenerationConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	ErrorMarker string
}

type PromptConfig struct {
	Style        string
	TemplateFile string
}

type RedisConfig struct {
	URL string
}

type AppConfig struct {
	ServiceName string
	Environment string
	LogLevel    string
	Version     string
	MetricsCron string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	provider := strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini))

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			APIKey:         os.Getenv("API_KEY"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 5),
			PageMode:       strings.ToLower(getEnv("PAGE_MODE", PageModeTemplate)),
		},
		Generation: GenerationConfig{
			Provider:    provider,
			APIKey:      credentialFor(provider),
			Model:       os.Getenv("LLM_MODEL"),
			BaseURL:     os.Getenv("LLM_BASE_URL"),
			ErrorMarker: os.Getenv("STREAM_ERROR_MARKER"),
		},
		Prompt: PromptConfig{
			Style:        strings.ToLower(getEnv("PROMPT_STYLE", "meme")),
			TemplateFile: os.Getenv("PROMPT_TEMPLATE_FILE"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		App: AppConfig{
			ServiceName: getEnv("SERVICE_NAME", "code-commenter"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			MetricsCron: getEnv("METRICS_REPORT_CRON", "0 */5 * * * *"),
		},
	}

	if provider == ProviderOllama && cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = os.Getenv("OLLAMA_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Generation.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		if c.Generation.APIKey == "" {
			return fmt.Errorf("%s: %w", credentialEnv(c.Generation.Provider), ErrMissingCredential)
		}
	case ProviderOllama:
		if c.Generation.BaseURL == "" {
			return fmt.Errorf("OLLAMA_URL: %w", ErrMissingCredential)
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.Generation.Provider)
	}

	switch c.Server.PageMode {
	case PageModeTemplate, PageModeInline, PageModeOff:
	default:
		return fmt.Errorf("unsupported PAGE_MODE %q", c.Server.PageMode)
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}

	return nil
}

func credentialEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOllama:
		return ""
	default:
		return "GEMINI_API_KEY"
	}
}

func credentialFor(provider string) string {
	name := credentialEnv(provider)
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
