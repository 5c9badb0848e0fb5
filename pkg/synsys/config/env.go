package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate/spacyhttp"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
)

// Tagger kinds accepted by SYNSYS_TAGGER.
const (
	TaggerBuiltin = "builtin"
	TaggerSpacy   = "spacy"
	TaggerNone    = "none"
)

// Config holds all service configuration
type Config struct {
	// Server configuration
	ServerAddress  string
	Environment    string
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64

	// Logging
	LogLevel string

	// Analysis
	Lang            string
	Tagger          string
	TaggerResources string
	SpacyURL        string
	SpacyModel      string

	// Data files
	SynsetsDB    string
	StoplistPath string
	SynonymsPath string
}

// FromEnv loads configuration from environment variables
func FromEnv() (*Config, error) {
	cfg := &Config{
		ServerAddress:  getEnv("SERVER_ADDRESS", ":5000"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		Lang:            getEnv("SYNSYS_LANG", "por"),
		Tagger:          strings.ToLower(getEnv("SYNSYS_TAGGER", TaggerBuiltin)),
		TaggerResources: getEnv("SYNSYS_TAGGER_RESOURCES", ""),
		SpacyURL:        getEnv("SPACY_URL", ""),
		SpacyModel:      getEnv("SPACY_MODEL", spacyhttp.DefaultModel),

		SynsetsDB:    getEnv("SYNSETS_DB", ""),
		StoplistPath: getEnv("STOPLIST_PATH", ""),
		SynonymsPath: getEnv("SYNONYMS_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Tagger {
	case TaggerBuiltin, TaggerNone:
	case TaggerSpacy:
		if c.SpacyURL == "" {
			return fmt.Errorf("%w: SPACY_URL is required when SYNSYS_TAGGER=spacy", internalerr.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown SYNSYS_TAGGER %q", internalerr.ErrInvalidConfig, c.Tagger)
	}
	if strings.TrimSpace(c.Lang) == "" {
		return fmt.Errorf("%w: SYNSYS_LANG is empty", internalerr.ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: REQUEST_TIMEOUT_SECONDS must be positive", internalerr.ErrInvalidConfig)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: MAX_BODY_BYTES must be positive", internalerr.ErrInvalidConfig)
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Loader returns a component loader for this configuration.
func (c *Config) Loader() *Loader {
	return &Loader{
		StoplistPath:    c.StoplistPath,
		SynonymsPath:    c.SynonymsPath,
		SynsetsPath:     c.SynsetsDB,
		Tagger:          c.Tagger,
		TaggerResources: c.TaggerResources,
		SpacyURL:        c.SpacyURL,
		SpacyModel:      c.SpacyModel,
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
