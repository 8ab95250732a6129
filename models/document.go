package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a single unit of ingested knowledge: either pasted text or an
// uploaded file. Status and progress are owned exclusively by the knowledge
// service; nothing else mutates them.
type Document struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Title        string             `bson:"title" json:"title"`
	Kind         string             `bson:"kind" json:"kind"` // text, file
	SourcePath   string             `bson:"source_path,omitempty" json:"source_path,omitempty"`
	Status       string             `bson:"status" json:"status"`
	Progress     int                `bson:"progress" json:"progress"`
	ErrorMessage string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// Document kinds
const (
	KindText = "text"
	KindFile = "file"
)

// Document statuses. A document moves pending -> indexing -> indexed|failed;
// pasted text starts directly at indexing since there is no upload step.
const (
	StatusPending  = "pending"
	StatusIndexing = "indexing"
	StatusIndexed  = "indexed"
	StatusFailed   = "failed"
)

// IngestTextRequest is the validated payload for pasted-text ingestion.
type IngestTextRequest struct {
	Text  string `json:"text" binding:"required"`
	Title string `json:"title,omitempty"`
}
