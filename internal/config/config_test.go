package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://chat.openai.com", cfg.ChatGPTBaseURL)
	assert.Equal(t, "text-davinci-002-render-sha", cfg.ChatGPTModel)
	assert.Equal(t, 100, cfg.WriterBatchSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CHATGPT_BASE_URL", "http://localhost:1234")
	t.Setenv("CHATGPT_ACCESS_TOKEN", "Bearer abc")
	t.Setenv("WRITER_FLUSH_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "http://localhost:1234", cfg.ChatGPTBaseURL)
	assert.Equal(t, "Bearer abc", cfg.ChatGPTAccessToken)
	assert.Equal(t, 250, cfg.WriterFlushMs)
}

func TestLoad_InvalidInt(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}
