package services

import "errors"

// Ingestion and ownership error conditions. Per-document ingestion failures
// are recorded on the document record (status=failed plus message) rather
// than propagated, so one bad file never blocks the rest; the errors below
// are the conditions that cross the service boundary.
var (
	// ErrSourceMissing means the origin file is absent from blob storage at
	// indexing time.
	ErrSourceMissing = errors.New("source file is missing from storage")

	// ErrEmptyExtraction means extraction produced no usable text.
	ErrEmptyExtraction = errors.New("no text could be extracted")

	// ErrOwnershipViolation means the document is not owned by the caller.
	ErrOwnershipViolation = errors.New("document is not owned by the requesting user")

	// ErrDocumentNotFound means the referenced document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrNotIndexable means a re-index was requested for a non-file document.
	ErrNotIndexable = errors.New("only file documents can be indexed")

	// ErrEmptyInput means the operation received blank input where content is
	// required.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrBotNotConfigured means no Telegram bot token is set in settings.
	ErrBotNotConfigured = errors.New("telegram bot token is not configured")
)
