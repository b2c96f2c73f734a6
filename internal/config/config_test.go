package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "3000", cfg.Web.Port)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, "docs/laws.txt", cfg.Docs.Path)
	assert.Equal(t, 3, cfg.Index.TopK)
	assert.Equal(t, "gpt-4", cfg.OpenAI.ChatModel)
}

func TestLoad_APIBaseFromEnvTrimsTrailingSlash(t *testing.T) {
	t.Setenv("API_BASE", "http://api.example.org:9000/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://api.example.org:9000", cfg.API.BaseURL)
}

func TestValidateOpenAI(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateOpenAI())

	cfg.OpenAI.APIKey = "sk-test"
	assert.NoError(t, cfg.ValidateOpenAI())
}
