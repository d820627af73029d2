package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/config.json")
	assert.NotNil(t, loader)
	assert.Equal(t, "/path/to/config.json", loader.configPath)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("load default config when file doesn't exist", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nonexistent.json")

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Executor.MaxConcurrency)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, ValidationStrict, cfg.Validation.Mode)
	})

	t.Run("load config from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		testConfig := `{
			"logging": {"level": "debug"},
			"executor": {"max_concurrency": 8, "max_retries": 5},
			"validation": {"mode": "lenient"},
			"providers": [{"name": "openai", "api_key": "sk-test", "model": "gpt-4o"}]
		}`
		err := os.WriteFile(configPath, []byte(testConfig), 0644)
		require.NoError(t, err)

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 8, cfg.Executor.MaxConcurrency)
		assert.Equal(t, 5, cfg.Executor.MaxRetries)
		assert.True(t, cfg.Validation.Lenient())
		// Unspecified keys keep their defaults.
		assert.Equal(t, 30000, cfg.Executor.DefaultTimeoutMS)
		require.Len(t, cfg.Providers, 1)
		assert.Equal(t, "openai", cfg.Providers[0].Name)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.json")

		err := os.WriteFile(configPath, []byte("invalid json"), 0644)
		require.NoError(t, err)

		loader := NewLoader(configPath)
		_, err = loader.Load()

		assert.Error(t, err)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		testConfig := `{"executor": {"max_concurrency": -1}}`
		err := os.WriteFile(configPath, []byte(testConfig), 0644)
		require.NoError(t, err)

		loader := NewLoader(configPath)
		_, err = loader.Load()

		assert.Error(t, err)
	})

	t.Run("environment override", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nonexistent.json")

		t.Setenv("PLANWEAVE_EXECUTOR_MAX_RETRIES", "7")

		loader := NewLoader(configPath)
		cfg, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Executor.MaxRetries)
	})
}
