package ai

import (
	"context"
	"os"
	"testing"
)

type envSettings struct{}

func (envSettings) ProviderConfig(_ context.Context) (Config, error) {
	return Config{APIKey: os.Getenv("GEMINI_API_KEY")}, nil
}

func TestGeminiEmbedLive(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	g := NewGemini(envSettings{})
	defer g.Close()

	vec, err := g.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("embedding error: %v", err)
	}
	if len(vec) == 0 {
		t.Fatalf("empty embedding")
	}
}

func TestGeminiMissingKey(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") != "" {
		t.Skip("GEMINI_API_KEY is set")
	}
	g := NewGemini(envSettings{})
	defer g.Close()

	if _, err := g.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected configuration error")
	}
}
