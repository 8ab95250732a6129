package storage

import (
	"context"
	"fmt"
	"time"

	"knowledge-chatbot-backend/internal/ai"
	"knowledge-chatbot-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// settingsRowID is the id of the single settings row, kept as a fixed value so
// get/update can upsert against it.
const settingsRowID = 1

// SettingsStore persists the single settings row and serves as the settings
// snapshot source for the provider and the Telegram bot.
type SettingsStore struct {
	col *mongo.Collection
}

func NewSettingsStore(db *mongo.Database) *SettingsStore {
	return &SettingsStore{col: db.Collection("settings")}
}

// Get returns the settings row, creating it with defaults on first access.
func (s *SettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	update := bson.M{
		"$setOnInsert": bson.M{
			"chat_model":      models.DefaultChatModel,
			"embedding_model": models.DefaultEmbeddingModel,
			"updated_at":      time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var row models.Settings
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": settingsRowID}, update, opts).Decode(&row); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &row, nil
}

// Update applies a partial settings update. Masked secret values (the form
// round-tripping what GET returned) are ignored.
func (s *SettingsStore) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error) {
	patch := bson.M{"updated_at": time.Now()}

	if req.ChatModel != nil {
		patch["chat_model"] = *req.ChatModel
	}
	if req.EmbeddingModel != nil {
		patch["embedding_model"] = *req.EmbeddingModel
	}
	if req.TelegramBotUsername != nil {
		patch["telegram_bot_username"] = *req.TelegramBotUsername
	}
	if req.GeminiAPIKey != nil && !models.IsMasked(*req.GeminiAPIKey) {
		patch["gemini_api_key"] = *req.GeminiAPIKey
	}
	if req.TelegramBotToken != nil && !models.IsMasked(*req.TelegramBotToken) {
		patch["telegram_bot_token"] = *req.TelegramBotToken
	}

	update := bson.M{
		"$set": patch,
		"$setOnInsert": bson.M{
			"chat_model":      models.DefaultChatModel,
			"embedding_model": models.DefaultEmbeddingModel,
		},
	}
	// $set and $setOnInsert must not target the same field
	if _, ok := patch["chat_model"]; ok {
		delete(update["$setOnInsert"].(bson.M), "chat_model")
	}
	if _, ok := patch["embedding_model"]; ok {
		delete(update["$setOnInsert"].(bson.M), "embedding_model")
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var row models.Settings
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": settingsRowID}, update, opts).Decode(&row); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return &row, nil
}

// ProviderConfig implements ai.SettingsSource.
func (s *SettingsStore) ProviderConfig(ctx context.Context) (ai.Config, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return ai.Config{}, err
	}
	return ai.Config{
		APIKey:         row.GeminiAPIKey,
		ChatModel:      row.ChatModel,
		EmbeddingModel: row.EmbeddingModel,
	}, nil
}

// TelegramToken returns the configured bot token, which may be empty.
func (s *SettingsStore) TelegramToken(ctx context.Context) (string, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return row.TelegramBotToken, nil
}
