package ai

import (
	"context"
	"errors"
)

// ErrConfigurationMissing is returned when no provider API key has been
// configured in settings. It must reach the caller so the UI can point the
// user at the settings page instead of showing a generic failure.
var ErrConfigurationMissing = errors.New("provider API key is not configured")

// Provider abstracts the external embedding/generation capability. Both calls
// resolve their credentials and model names from the settings snapshot on
// demand, so a settings update takes effect without a restart.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config is the provider-relevant slice of the settings snapshot.
type Config struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
}

// SettingsSource supplies the current provider configuration. It is read
// before every call and may change between calls.
type SettingsSource interface {
	ProviderConfig(ctx context.Context) (Config, error)
}
