package services

import (
	"context"

	"knowledge-chatbot-backend/models"
)

// DocumentStore is the persisted record store for Document rows. Each stage
// transition during ingestion is one Update call.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error)
	Delete(ctx context.Context, id string) error
	CountIndexed(ctx context.Context) (int64, error)
}

// BlobStore holds the raw bytes of uploaded files, addressed by locator.
type BlobStore interface {
	Write(name string, data []byte) (string, error)
	Read(locator string) ([]byte, error)
	Delete(locator string) error
}

// ConversationStore is the append-only transcript per user.
type ConversationStore interface {
	Append(ctx context.Context, ownerID, role, text string) error
	List(ctx context.Context, ownerID string) ([]models.ChatMessage, error)
	Clear(ctx context.Context, ownerID string) error
}

// TelegramSettingsSource supplies the current bot token; read on demand so a
// settings change takes effect without a restart.
type TelegramSettingsSource interface {
	TelegramToken(ctx context.Context) (string, error)
}
