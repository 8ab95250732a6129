package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"knowledge-chatbot-backend/internal/ai"
	"knowledge-chatbot-backend/internal/logger"
	"knowledge-chatbot-backend/internal/storage"
	"knowledge-chatbot-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Progress checkpoints persisted during an ingestion attempt.
const (
	progressStarted   = 5
	progressRead      = 20
	progressRecorded  = 35
	progressExtracted = 45
	progressDone      = 100
)

// KnowledgeService owns the document lifecycle: intake, extraction, chunking,
// embedding, indexing and deletion. Every stage failure is captured at
// document granularity and written back as status=failed, so a single bad
// document never aborts the caller's flow or another document's ingestion.
type KnowledgeService struct {
	docs     DocumentStore
	blobs    BlobStore
	provider ai.Provider
	chunker  *Chunker
	index    *VectorIndex
}

func NewKnowledgeService(docs DocumentStore, blobs BlobStore, provider ai.Provider, chunker *Chunker, index *VectorIndex) *KnowledgeService {
	return &KnowledgeService{
		docs:     docs,
		blobs:    blobs,
		provider: provider,
		chunker:  chunker,
		index:    index,
	}
}

// IngestText creates and indexes a pasted-text document. Pasted text has no
// upload step, so the record starts directly at indexing. The returned
// document carries the outcome; ingestion failures are recorded on it, not
// returned as an error.
func (s *KnowledgeService) IngestText(ctx context.Context, ownerID, text, title string) (*models.Document, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if title == "" {
		title = "Text Knowledge"
	}

	doc := &models.Document{
		OwnerID:   owner,
		Title:     title,
		Kind:      models.KindText,
		Status:    models.StatusIndexing,
		Progress:  progressStarted,
		CreatedAt: time.Now(),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.checkpoint(ctx, doc, progressRecorded); err != nil {
		return s.fail(ctx, doc, err), nil
	}
	if err := s.embedAndIndex(ctx, doc, text); err != nil {
		return s.fail(ctx, doc, err), nil
	}
	return s.complete(ctx, doc), nil
}

// CreateFromUpload stores the uploaded bytes and creates the document record
// at status=pending. Indexing happens in IngestFile.
func (s *KnowledgeService) CreateFromUpload(ctx context.Context, ownerID, filename string, data []byte) (*models.Document, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	locator, err := s.blobs.Write(filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	doc := &models.Document{
		OwnerID:    owner,
		Title:      filename,
		Kind:       models.KindFile,
		SourcePath: locator,
		Status:     models.StatusPending,
		Progress:   0,
		CreatedAt:  time.Now(),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// IngestFile runs the full extraction/indexing pipeline for a file document.
// If the document is already indexing or indexed it is returned unchanged;
// that persisted-status guard is what prevents two concurrent requests from
// double-ingesting the same document.
func (s *KnowledgeService) IngestFile(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	doc, err := s.ownedDocument(ctx, ownerID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Kind != models.KindFile {
		return nil, ErrNotIndexable
	}
	if doc.Status == models.StatusIndexing || doc.Status == models.StatusIndexed {
		return doc, nil
	}

	// New attempt: reset progress and clear any previous failure.
	doc.Status = models.StatusIndexing
	doc.Progress = progressStarted
	doc.ErrorMessage = ""
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, err
	}

	data, err := s.blobs.Read(doc.SourcePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.fail(ctx, doc, ErrSourceMissing), nil
		}
		return s.fail(ctx, doc, err), nil
	}
	if err := s.checkpoint(ctx, doc, progressRead); err != nil {
		return s.fail(ctx, doc, err), nil
	}

	text, err := ExtractText(doc.Title, data)
	if err != nil {
		return s.fail(ctx, doc, err), nil
	}
	if strings.TrimSpace(text) == "" {
		return s.fail(ctx, doc, ErrEmptyExtraction), nil
	}
	if err := s.checkpoint(ctx, doc, progressExtracted); err != nil {
		return s.fail(ctx, doc, err), nil
	}

	if err := s.embedAndIndex(ctx, doc, text); err != nil {
		return s.fail(ctx, doc, err), nil
	}
	return s.complete(ctx, doc), nil
}

// List returns the caller's documents, newest first.
func (s *KnowledgeService) List(ctx context.Context, ownerID string) ([]models.Document, error) {
	return s.docs.ListByOwner(ctx, ownerID)
}

// Delete removes the document record, its stored file and its index entries.
// A failure to remove the stored file is logged but does not abort the
// record deletion, so records cannot get stuck undeletable.
func (s *KnowledgeService) Delete(ctx context.Context, ownerID, documentID string) error {
	doc, err := s.ownedDocument(ctx, ownerID, documentID)
	if err != nil {
		return err
	}

	if doc.Kind == models.KindFile && doc.SourcePath != "" {
		if err := s.blobs.Delete(doc.SourcePath); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to remove stored file", "document_id", documentID, "locator", doc.SourcePath, "error", err)
		}
	}

	if err := s.docs.Delete(ctx, doc.ID.Hex()); err != nil {
		return err
	}
	s.index.Remove(doc.ID.Hex())
	return nil
}

// embedAndIndex chunks the text, embeds every chunk and adds the batch to the
// index, replacing any entries left from a previous attempt.
func (s *KnowledgeService) embedAndIndex(ctx context.Context, doc *models.Document, text string) error {
	chunks := s.chunker.Split(text)
	if len(chunks) == 0 {
		return ErrEmptyExtraction
	}

	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.provider.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		vectors[i] = vec
	}

	s.index.Remove(doc.ID.Hex())
	return s.index.Add(doc.ID.Hex(), doc.Title, chunks, vectors)
}

func (s *KnowledgeService) ownedDocument(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if doc.OwnerID.Hex() != ownerID {
		return nil, ErrOwnershipViolation
	}
	return doc, nil
}

func (s *KnowledgeService) checkpoint(ctx context.Context, doc *models.Document, progress int) error {
	doc.Progress = progress
	return s.docs.Update(ctx, doc)
}

func (s *KnowledgeService) fail(ctx context.Context, doc *models.Document, cause error) *models.Document {
	doc.Status = models.StatusFailed
	doc.Progress = 0
	doc.ErrorMessage = cause.Error()
	if err := s.docs.Update(ctx, doc); err != nil {
		logger.Error("Failed to persist ingestion failure", "document_id", doc.ID.Hex(), "error", err)
	}
	logger.Warn("Document ingestion failed", "document_id", doc.ID.Hex(), "title", doc.Title, "error", cause)
	return doc
}

func (s *KnowledgeService) complete(ctx context.Context, doc *models.Document) *models.Document {
	doc.Status = models.StatusIndexed
	doc.Progress = progressDone
	doc.ErrorMessage = ""
	if err := s.docs.Update(ctx, doc); err != nil {
		logger.Error("Failed to persist ingestion success", "document_id", doc.ID.Hex(), "error", err)
	}
	logger.Info("Document indexed", "document_id", doc.ID.Hex(), "title", doc.Title)
	return doc
}
