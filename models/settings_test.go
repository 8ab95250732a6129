package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "••••••••", MaskSecret("short"))
	assert.Equal(t, "AIza…Xy", MaskSecret("AIzaSyFakeKeyValueXy"))
}

func TestIsMasked(t *testing.T) {
	assert.True(t, IsMasked("AIza…Xy"))
	assert.True(t, IsMasked("••••••••"))
	assert.False(t, IsMasked("AIzaSyFakeKeyValueXy"))
	assert.False(t, IsMasked(""))
}

func TestRedactedHidesSecrets(t *testing.T) {
	s := Settings{
		ID:                  1,
		GeminiAPIKey:        "AIzaSyFakeKeyValueXy",
		ChatModel:           DefaultChatModel,
		EmbeddingModel:      DefaultEmbeddingModel,
		TelegramBotToken:    "123456:ABCDEF-telegram",
		TelegramBotUsername: "my_bot",
	}

	r := s.Redacted()
	assert.NotEqual(t, s.GeminiAPIKey, r.GeminiAPIKey)
	assert.True(t, IsMasked(r.GeminiAPIKey))
	assert.NotEqual(t, s.TelegramBotToken, r.TelegramBotToken)
	assert.True(t, IsMasked(r.TelegramBotToken))

	// Non-secret fields pass through unchanged.
	assert.Equal(t, DefaultChatModel, r.ChatModel)
	assert.Equal(t, DefaultEmbeddingModel, r.EmbeddingModel)
	assert.Equal(t, "my_bot", r.TelegramBotUsername)
}
