// Package config loads haru configuration from YAML with environment
// overrides for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all haru configuration.
type Config struct {
	// DataDir is where the sqlite store and logs live. Defaults to ~/.haru.
	DataDir string `yaml:"data_dir"`

	// PersonasPath is the persona profile YAML file. Defaults to
	// <DataDir>/personas.yaml.
	PersonasPath string `yaml:"personas_path"`

	LLM     LLMConfig     `yaml:"llm"`
	Chat    ChatConfig    `yaml:"chat"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		LLM:     DefaultLLMConfig(),
		Chat:    DefaultChatConfig(),
		Logging: DefaultLoggingConfig(),
	}
}

// Load reads the config file at path, layering it over defaults and then
// applying environment overrides. A missing file is not an error; defaults
// plus environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.fillPaths()
	return cfg, nil
}

// applyEnv layers environment variables over file values. Only credentials
// and the provider switch are overridable; everything else belongs in the
// file.
func (c *Config) applyEnv() {
	if v := os.Getenv("HARU_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("HARU_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("HARU_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("HARU_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

func (c *Config) fillPaths() {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.DataDir = filepath.Join(home, ".haru")
	}
	if c.PersonasPath == "" {
		c.PersonasPath = filepath.Join(c.DataDir, "personas.yaml")
	}
}

// StorePath is the sqlite database location.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, "haru.db")
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".haru", "config.yaml")
}
