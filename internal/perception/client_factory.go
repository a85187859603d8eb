package perception

import (
	"context"
	"fmt"
	"os"
	"strings"

	"haru/internal/config"
	"haru/internal/types"
)

// Factory builds completion clients from per-persona connection configs,
// falling back to the global LLM config for anything the persona leaves
// blank. The orchestrator depends on this signature so tests can substitute
// fakes.
type Factory func(ctx context.Context, conn types.ConnectionConfig) (Client, error)

// defaultKeyEnv maps providers to their conventional environment variable.
var defaultKeyEnv = map[string]string{
	"gemini": "GEMINI_API_KEY",
	"openai": "OPENAI_API_KEY",
}

// NewFactory returns a Factory that layers persona connection config over the
// global LLM config.
func NewFactory(global config.LLMConfig) Factory {
	return func(ctx context.Context, conn types.ConnectionConfig) (Client, error) {
		provider := strings.ToLower(strings.TrimSpace(conn.Provider))
		if provider == "" {
			provider = strings.ToLower(strings.TrimSpace(global.Provider))
		}
		if provider == "" {
			provider = "gemini"
		}

		model := conn.Model
		if model == "" {
			model = global.Model
		}
		baseURL := conn.BaseURL
		if baseURL == "" {
			baseURL = global.BaseURL
		}

		key := resolveKey(conn, global, provider)
		if key == "" {
			return nil, ErrNoCredential
		}

		switch provider {
		case "gemini":
			return NewGeminiClient(ctx, key, model)
		case "openai":
			return NewOpenAIClient(OpenAIConfig{
				APIKey:  key,
				BaseURL: baseURL,
				Model:   model,
				Timeout: global.TimeoutDuration(),
			}), nil
		default:
			return nil, fmt.Errorf("unknown completion provider %q", provider)
		}
	}
}

// resolveKey resolves a credential in priority order: explicit persona key,
// persona env var, global key, provider's conventional env var.
func resolveKey(conn types.ConnectionConfig, global config.LLMConfig, provider string) string {
	if conn.APIKey != "" {
		return conn.APIKey
	}
	if conn.APIKeyEnv != "" {
		if v := os.Getenv(conn.APIKeyEnv); v != "" {
			return v
		}
		// A named-but-empty env var means the persona's credential is
		// missing, not that the global one applies.
		return ""
	}
	if global.APIKey != "" {
		return global.APIKey
	}
	if env := defaultKeyEnv[provider]; env != "" {
		return os.Getenv(env)
	}
	return ""
}
