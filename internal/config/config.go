package config

import (
	"fmt"
	"os"
	"strings"
)

// LLM provider names accepted in LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds the configuration for the application.
type Config struct {
	HTTPAddr string
	DBPath   string

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string

	DefaultLanguage string
	CORSOrigins     []string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "planner.db"
	}

	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	if provider == "" {
		provider = ProviderGemini
	}
	if provider != ProviderGemini && provider != ProviderGroq {
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", provider)
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	switch provider {
	case ProviderGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}

	defaultLanguage := os.Getenv("DEFAULT_LANGUAGE")
	if defaultLanguage == "" {
		defaultLanguage = "es"
	}

	var corsOrigins []string
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				corsOrigins = append(corsOrigins, origin)
			}
		}
	} else {
		corsOrigins = []string{"*"}
	}

	return &Config{
		HTTPAddr:        httpAddr,
		DBPath:          dbPath,
		LLMProvider:     provider,
		GeminiAPIKey:    geminiAPIKey,
		GeminiModel:     geminiModel,
		GroqAPIKey:      groqAPIKey,
		DefaultLanguage: defaultLanguage,
		CORSOrigins:     corsOrigins,
	}, nil
}
