package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.True(t, cfg.Chat.ConfirmActions)
	assert.Equal(t, 5, cfg.Chat.SnapshotEvents)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NotEmpty(t, cfg.PersonasPath)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
data_dir: ` + dir + `
llm:
  provider: openai
  model: gpt-4o-mini
  base_url: http://localhost:11434/v1
chat:
  confirm_actions: false
  history_limit: 10
logging:
  debug_mode: true
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.False(t, cfg.Chat.ConfirmActions)
	assert.Equal(t, 10, cfg.Chat.HistoryLimit)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, filepath.Join(dir, "haru.db"), cfg.StorePath())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: openai\n  api_key: from-file\n"), 0o644))

	t.Setenv("HARU_PROVIDER", "gemini")
	t.Setenv("HARU_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestTimeoutDuration(t *testing.T) {
	assert.Equal(t, "1m30s", LLMConfig{Timeout: "90s"}.TimeoutDuration().String())
	assert.Equal(t, "1m0s", LLMConfig{Timeout: "garbage"}.TimeoutDuration().String())
	assert.Equal(t, "1m0s", LLMConfig{}.TimeoutDuration().String())
}
