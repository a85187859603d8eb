package config

import "time"

// LLMConfig is the global completion-service configuration. Personas without
// their own connection config inherit it.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, openai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// DefaultLLMConfig returns sensible defaults.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		Timeout:  "60s",
	}
}

// TimeoutDuration parses the timeout string, falling back to 60s. Completion
// timeouts are a best-effort cap; in-flight requests are not cancelled
// mid-turn.
func (c LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}
