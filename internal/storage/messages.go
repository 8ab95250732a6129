package storage

import (
	"context"
	"fmt"
	"time"

	"knowledge-chatbot-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageStore persists the append-only conversation transcript.
type MessageStore struct {
	col *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{col: db.Collection("messages")}
}

func (s *MessageStore) Append(ctx context.Context, ownerID, role, text string) error {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}
	msg := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		OwnerID:   owner,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if _, err := s.col.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

func (s *MessageStore) List(ctx context.Context, ownerID string) ([]models.ChatMessage, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}
	cursor, err := s.col.Find(ctx, bson.M{"owner_id": owner},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := make([]models.ChatMessage, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

func (s *MessageStore) Clear(ctx context.Context, ownerID string) error {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return fmt.Errorf("invalid owner id: %w", err)
	}
	if _, err := s.col.DeleteMany(ctx, bson.M{"owner_id": owner}); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
