package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"knowledge-chatbot-backend/internal/logger"
	"knowledge-chatbot-backend/models"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"
)

// Gemini implements Provider against Google Generative AI. The underlying
// client is cached and rebuilt only when the API key in settings changes;
// model names are resolved per call, so a model change needs no rebuild.
type Gemini struct {
	settings    SettingsSource
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter

	mu        sync.Mutex
	client    *genai.Client
	loadedKey string
}

func NewGemini(settings SettingsSource) *Gemini {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// Conservative default sized for the free tier (10 RPM)
	rateLimiter := rate.NewLimiter(rate.Limit(10.0*0.9/60.0), 2)

	return &Gemini{
		settings:    settings,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}
}

// resolve re-reads the settings snapshot and swaps the cached client when the
// key differs from what was last loaded.
func (g *Gemini) resolve(ctx context.Context) (*genai.Client, Config, error) {
	cfg, err := g.settings.ProviderConfig(ctx)
	if err != nil {
		return nil, Config{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, Config{}, ErrConfigurationMissing
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = models.DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = models.DefaultEmbeddingModel
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil || g.loadedKey != cfg.APIKey {
		if g.client != nil {
			g.client.Close()
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, Config{}, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		g.client = client
		g.loadedKey = cfg.APIKey
	}

	return g.client, cfg, nil
}

func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	tracer := otel.Tracer("gemini-provider")
	ctx, span := tracer.Start(ctx, "gemini.embed")
	defer span.End()

	client, cfg, err := g.resolve(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("gemini.model", cfg.EmbeddingModel),
		attribute.Int("gemini.text_chars", len(text)),
	)

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		model := client.EmbeddingModel(cfg.EmbeddingModel)
		resp, err := model.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, err
		}
		if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
			return nil, fmt.Errorf("no embedding returned")
		}
		return resp.Embedding.Values, nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	return result.([]float32), nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	tracer := otel.Tracer("gemini-provider")
	ctx, span := tracer.Start(ctx, "gemini.generate")
	defer span.End()

	client, cfg, err := g.resolve(ctx)
	if err != nil {
		return "", err
	}
	span.SetAttributes(
		attribute.String("gemini.model", cfg.ChatModel),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		model := client.GenerativeModel(cfg.ChatModel)
		model.SetTemperature(0.2)
		model.SetMaxOutputTokens(2048)

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		return flattenResponse(resp), nil
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	text := result.(string)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// flattenResponse concatenates the text parts of all candidates.
func flattenResponse(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// Close releases the cached client, if any.
func (g *Gemini) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		err := g.client.Close()
		g.client = nil
		g.loadedKey = ""
		return err
	}
	return nil
}
