package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"knowledge-chatbot-backend/internal/ai"
	"knowledge-chatbot-backend/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	snippetMaxLen = 240

	emptyQuestionMessage = "Please ask a question and I'll search your knowledge base for an answer."
	noKnowledgeMessage   = "I don't have any knowledge to draw from yet. Add some documents or text first, then ask me again."
	reingestMessage      = "Your documents are recorded but their search index was lost, most likely after a restart. Please re-ingest your documents so I can answer from them."
)

// Source attributes part of an answer to an indexed document.
type Source struct {
	DocumentID string  `json:"documentId"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
}

// Answer is the result of one retrieval-augmented question.
type Answer struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// RagService answers questions by retrieving the closest indexed chunks and
// grounding the model's reply in them. When there is nothing to retrieve
// from, it explains why instead of guessing; that includes the case where
// documents are recorded as indexed but the in-process index is empty.
type RagService struct {
	provider ai.Provider
	index    *VectorIndex
	docs     DocumentStore
	topK     int
}

func NewRagService(provider ai.Provider, index *VectorIndex, docs DocumentStore, topK int) *RagService {
	if topK <= 0 {
		topK = 4
	}
	return &RagService{provider: provider, index: index, docs: docs, topK: topK}
}

// Answer runs retrieval and generation for one question. Guidance replies
// (empty question, no knowledge, lost index) are returned with no sources and
// no provider call.
func (s *RagService) Answer(ctx context.Context, question string) (*Answer, error) {
	tracer := otel.Tracer("rag-service")
	ctx, span := tracer.Start(ctx, "rag.answer")
	defer span.End()

	question = strings.TrimSpace(question)
	if question == "" {
		return &Answer{Text: emptyQuestionMessage}, nil
	}

	if s.index.IsEmpty() {
		indexed, err := s.docs.CountIndexed(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count indexed documents: %w", err)
		}
		if indexed > 0 {
			logger.Warn("Answer requested with indexed documents but empty index", "indexed_documents", indexed)
			return &Answer{Text: reingestMessage}, nil
		}
		return &Answer{Text: noKnowledgeMessage}, nil
	}

	queryVec, err := s.provider.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := s.index.Search(queryVec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	span.SetAttributes(attribute.Int("rag.retrieved_chunks", len(results)))

	prompt := buildPrompt(question, results)
	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	answer := &Answer{Text: strings.TrimSpace(text), Sources: make([]Source, 0, len(results))}
	for _, r := range results {
		answer.Sources = append(answer.Sources, Source{
			DocumentID: r.Chunk.DocumentID,
			Title:      r.Chunk.Title,
			Snippet:    snippet(r.Chunk.Text),
			Score:      r.Score,
		})
	}
	return answer, nil
}

// buildPrompt numbers each retrieved chunk so the model can reference context
// blocks and the sources list lines up with what it saw.
func buildPrompt(question string, results []SearchResult) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant. Answer the question using only the context below.\n")
	b.WriteString("If the context does not contain the answer, say you don't know rather than guessing.\n\n")
	b.WriteString("Context:\n")
	for i, r := range results {
		fmt.Fprintf(&b, "[#%d] %s\n%s\n\n", i+1, r.Chunk.Title, r.Chunk.Text)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// snippet truncates chunk text for attribution without splitting a rune.
func snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= snippetMaxLen {
		return text
	}
	cut := snippetMaxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "…"
}
