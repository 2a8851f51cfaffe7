package config

import (
	"os"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Success", func(t *testing.T) {
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("GROQ_API_KEY", "groq_key")
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("LLM_PROVIDER")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey to be 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.GroqAPIKey != "groq_key" {
			t.Errorf("Expected GroqAPIKey to be 'groq_key', got '%s'", cfg.GroqAPIKey)
		}
		if cfg.HTTPAddr != ":8080" {
			t.Errorf("Expected default HTTPAddr ':8080', got '%s'", cfg.HTTPAddr)
		}
		if cfg.LLMProvider != ProviderGemini {
			t.Errorf("Expected default provider '%s', got '%s'", ProviderGemini, cfg.LLMProvider)
		}
	})

	t.Run("MissingGeminiAPIKey", func(t *testing.T) {
		setEnv("LLM_PROVIDER", "gemini")
		os.Unsetenv("GEMINI_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GEMINI_API_KEY, got nil")
		}
		expectedError := "GEMINI_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingGroqAPIKey", func(t *testing.T) {
		setEnv("LLM_PROVIDER", "groq")
		os.Unsetenv("GROQ_API_KEY")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing GROQ_API_KEY, got nil")
		}
		expectedError := "GROQ_API_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		setEnv("LLM_PROVIDER", "openai")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for unsupported provider, got nil")
		}
	})

	t.Run("CORSOrigins", func(t *testing.T) {
		setEnv("GEMINI_API_KEY", "gemini_key")
		setEnv("CORS_ORIGINS", "http://localhost:5173, http://app.test")
		os.Unsetenv("LLM_PROVIDER")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(cfg.CORSOrigins) != 2 {
			t.Fatalf("Expected 2 CORS origins, got %d", len(cfg.CORSOrigins))
		}
		if cfg.CORSOrigins[1] != "http://app.test" {
			t.Errorf("Expected second origin 'http://app.test', got '%s'", cfg.CORSOrigins[1])
		}
	})
}
