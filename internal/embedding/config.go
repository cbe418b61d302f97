package embedding

import (
	"fmt"
	"os"
	"time"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
)

const (
	DefaultTEIURL    = "http://localhost:8080"
	DefaultOllamaURL = "http://localhost:11434"
	DefaultOpenAIURL = "http://localhost:7997"

	defaultTimeout = 10 * time.Minute
)

type Config struct {
	TEIURL    string
	OllamaURL string
	OpenAIURL string
	OpenAIKey string
	Timeout   time.Duration
}

func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{
		TEIURL:    envOr("PLM_TEI_URL", DefaultTEIURL),
		OllamaURL: envOr("PLM_OLLAMA_URL", DefaultOllamaURL),
		OpenAIURL: envOr("PLM_OPENAI_URL", DefaultOpenAIURL),
		OpenAIKey: os.Getenv("PLM_OPENAI_API_KEY"),
		Timeout:   defaultTimeout,
	}

	if raw := os.Getenv("PLM_HTTP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, apperr.NewValidationWrap("PLM_HTTP_TIMEOUT", err)
		}
		if timeout <= 0 {
			return nil, apperr.NewValidation(fmt.Sprintf("PLM_HTTP_TIMEOUT must be positive, got %s", raw))
		}
		cfg.Timeout = timeout
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
