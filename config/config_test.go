package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_BASE_URL", "CODECOPILOT_API_KEY", "CODECOPILOT_MODEL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJSONConfig(t *testing.T) {
	path := writeFile(t, "config.json", `{"api_key": "sk-test", "base_url": "https://example.com/v1", "model": "qwen-coder"}`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "https://example.com/v1", cfg.BaseURL)
	assert.Equal(t, "qwen-coder", cfg.Model)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, int64(1500), cfg.MaxTokens)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", `
provider: anthropic
api_key: ant-key
model: claude-sonnet-4-5-20250929
max_tokens: 4096
command_timeout: 30s
projects_dir: out
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, int64(4096), cfg.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "out", cfg.ProjectsDir)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.json")

	cfg, err := Load(missing, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = Load(missing, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"api_key": `)

	_, err := Load(path, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestApplyEnv(t *testing.T) {
	t.Run("OPENAI_API_KEY fills empty key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")
		t.Setenv("OPENAI_BASE_URL", "https://proxy.local/v1")

		cfg := DefaultConfig()
		cfg.ApplyEnv()

		assert.Equal(t, "oa-key", cfg.APIKey)
		assert.Equal(t, ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "https://proxy.local/v1", cfg.BaseURL)
	})

	t.Run("ANTHROPIC_API_KEY switches provider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "ant-key")

		cfg := DefaultConfig()
		cfg.ApplyEnv()

		assert.Equal(t, "ant-key", cfg.APIKey)
		assert.Equal(t, ProviderAnthropic, cfg.Provider)
	})

	t.Run("file key is kept over provider keys", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("OPENAI_API_KEY", "oa-key")

		cfg := DefaultConfig()
		cfg.APIKey = "file-key"
		cfg.ApplyEnv()

		assert.Equal(t, "file-key", cfg.APIKey)
	})

	t.Run("CODECOPILOT variables always win", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CODECOPILOT_API_KEY", "cc-key")
		t.Setenv("CODECOPILOT_MODEL", "gpt-4o")
		t.Setenv("LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.APIKey = "file-key"
		cfg.Model = "file-model"
		cfg.ApplyEnv()

		assert.Equal(t, "cc-key", cfg.APIKey)
		assert.Equal(t, "gpt-4o", cfg.Model)
		assert.Equal(t, "debug", cfg.LogLevel)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.APIKey = "k"
		cfg.Model = "m"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing key", func(c *Config) { c.APIKey = "" }, "api_key is required"},
		{"missing model", func(c *Config) { c.Model = "" }, "model is required"},
		{"unknown provider", func(c *Config) { c.Provider = "gemini" }, `unknown provider "gemini"`},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, "max_tokens must be positive"},
		{"hot temperature", func(c *Config) { c.Temperature = 3 }, "temperature"},
		{"negative timeout", func(c *Config) { c.CommandTimeout = -time.Second }, "command_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
