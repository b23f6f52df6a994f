package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeConfig(t *testing.T, content string) {
	t.Helper()
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("config.yaml", []byte(content), 0644))
}

func TestLoadAppliesDefaults(t *testing.T) {
	writeConfig(t, `
openai:
  base_url: "https://openrouter.ai/api/v1"
  model: "test-model"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 64*1024, cfg.Server.BodyLimit)
	assert.Equal(t, 400, cfg.OpenAI.MaxTokens)
	assert.Equal(t, 10, cfg.OpenAI.TimeoutSeconds)
	assert.Equal(t, 60_000, cfg.RateLimit.WindowMs)
	assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 8, cfg.RateLimit.SoftCap)
}

func TestLoadMissingToken(t *testing.T) {
	// A missing provider token is not a startup failure; it surfaces as
	// 503 at request time instead.
	writeConfig(t, `
openai:
  base_url: "https://openrouter.ai/api/v1"
  model: "test-model"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.OpenAI.Token)
}

func TestLoadMissingModelFails(t *testing.T) {
	writeConfig(t, `
openai:
  base_url: "https://openrouter.ai/api/v1"
`)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingFileFails(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadBadYAMLFails(t *testing.T) {
	writeConfig(t, "not: [valid")

	_, err := Load()
	assert.Error(t, err)
}
