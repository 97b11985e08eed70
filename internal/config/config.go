package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	LogDir          string // Empty disables file logging

	// Generation backend
	GenerationProvider  string // "anthropic" or "lorem"
	AnthropicAPIKey     string
	AnthropicBaseURL    string // Empty uses the SDK default
	GenerationModel     string
	GenerationMaxTokens int
	GenerationTimeout   time.Duration

	// Plan quota; 0 disables the check
	MonthlyGenerationLimit int

	// Signature provider (Dropbox Sign)
	DropboxSignAPIKey      string
	DropboxSignBaseURL     string
	DropboxSignTestMode    bool
	SignatureWebhookSecret string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := getEnv("SUPABASE_URL", "")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: strings.TrimSuffix(supabaseURL, "/") + "/auth/v1/.well-known/jwks.json",
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     getTablePrefix(env),
		LogDir:          getEnv("LOG_DIR", ""),

		GenerationProvider:  getEnv("GENERATION_PROVIDER", "anthropic"),
		AnthropicAPIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL:    getEnv("ANTHROPIC_BASE_URL", ""),
		GenerationModel:     getEnv("GENERATION_MODEL", "claude-sonnet-4-5"),
		GenerationMaxTokens: getEnvInt("GENERATION_MAX_TOKENS", 4096),
		GenerationTimeout:   getEnvDuration("GENERATION_TIMEOUT", 90*time.Second),

		MonthlyGenerationLimit: getEnvInt("MONTHLY_GENERATION_LIMIT", 0),

		DropboxSignAPIKey:      getEnv("DROPBOX_SIGN_API_KEY", ""),
		DropboxSignBaseURL:     getEnv("DROPBOX_SIGN_BASE_URL", "https://api.hellosign.com/v3"),
		DropboxSignTestMode:    getEnv("DROPBOX_SIGN_TEST_MODE", getDefaultTestMode(env)) == "true",
		SignatureWebhookSecret: getEnv("SIGNATURE_WEBHOOK_SECRET", ""),
	}
}

// Validate checks settings the server cannot start without
func (c *Config) Validate() error {
	if c.SupabaseDBURL == "" {
		return fmt.Errorf("SUPABASE_DB_URL is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	switch c.GenerationProvider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when GENERATION_PROVIDER=anthropic")
		}
	case "lorem":
		if c.Environment == "prod" {
			return fmt.Errorf("GENERATION_PROVIDER=lorem is not allowed in prod")
		}
	default:
		return fmt.Errorf("unsupported GENERATION_PROVIDER %q", c.GenerationProvider)
	}
	if c.GenerationMaxTokens <= 0 {
		return fmt.Errorf("GENERATION_MAX_TOKENS must be positive")
	}
	return nil
}

// getDefaultTestMode keeps signature requests non-binding outside production
func getDefaultTestMode(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
