package models

import (
	"strings"
	"time"
)

// Settings is the single persisted configuration row (id=1) that the provider
// and the Telegram bot read before every call. It may change at runtime.
type Settings struct {
	ID                  int       `bson:"_id" json:"-"`
	GeminiAPIKey        string    `bson:"gemini_api_key,omitempty" json:"gemini_api_key,omitempty"`
	ChatModel           string    `bson:"chat_model" json:"chat_model"`
	EmbeddingModel      string    `bson:"embedding_model" json:"embedding_model"`
	TelegramBotToken    string    `bson:"telegram_bot_token,omitempty" json:"telegram_bot_token,omitempty"`
	TelegramBotUsername string    `bson:"telegram_bot_username,omitempty" json:"telegram_bot_username,omitempty"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

const (
	DefaultChatModel      = "gemini-2.0-flash"
	DefaultEmbeddingModel = "text-embedding-004"
)

// UpdateSettingsRequest carries a partial settings update. Nil fields are left
// untouched; masked secret values (as returned by GET) are ignored so a client
// can round-trip the form without wiping stored credentials.
type UpdateSettingsRequest struct {
	GeminiAPIKey        *string `json:"gemini_api_key"`
	ChatModel           *string `json:"chat_model"`
	EmbeddingModel      *string `json:"embedding_model"`
	TelegramBotToken    *string `json:"telegram_bot_token"`
	TelegramBotUsername *string `json:"telegram_bot_username"`
}

// Redacted returns a copy safe to return from the API: secrets are replaced
// with a masked preview.
func (s Settings) Redacted() Settings {
	s.GeminiAPIKey = MaskSecret(s.GeminiAPIKey)
	s.TelegramBotToken = MaskSecret(s.TelegramBotToken)
	return s
}

// MaskSecret renders a secret as a short preview that IsMasked recognizes.
func MaskSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 8 {
		return "••••••••"
	}
	return v[:4] + "…" + v[len(v)-2:]
}

// IsMasked reports whether a submitted value is a masked preview rather than a
// real secret.
func IsMasked(v string) bool {
	return strings.ContainsAny(v, "•…")
}
