package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"

	"knowledge-chatbot-backend/internal/storage"
	"knowledge-chatbot-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// hashEmbed is a deterministic bag-of-words embedding for tests: tokens are
// hashed into a fixed number of buckets, so texts sharing words score higher
// cosine similarity than unrelated texts.
func hashEmbed(text string) []float32 {
	vec := make([]float32, 32)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?:;\"'")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%32]++
	}
	return vec
}

type fakeProvider struct {
	mu         sync.Mutex
	embedCalls int
	genCalls   int
	embedErr   error
	genErr     error
	answer     string
	lastPrompt string
}

func (p *fakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.embedCalls++
	if p.embedErr != nil {
		return nil, p.embedErr
	}
	return hashEmbed(text), nil
}

func (p *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.genCalls++
	p.lastPrompt = prompt
	if p.genErr != nil {
		return "", p.genErr
	}
	if p.answer != "" {
		return p.answer, nil
	}
	return "generated answer", nil
}

type fakeDocStore struct {
	mu   sync.Mutex
	docs map[string]models.Document
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[string]models.Document)}
}

func (s *fakeDocStore) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	s.docs[doc.ID.Hex()] = *doc
	return nil
}

func (s *fakeDocStore) Update(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID.Hex()]; !ok {
		return storage.ErrNotFound
	}
	s.docs[doc.ID.Hex()] = *doc
	return nil
}

func (s *fakeDocStore) FindByID(_ context.Context, id string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	found := doc
	return &found, nil
}

func (s *fakeDocStore) ListByOwner(_ context.Context, ownerID string) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Document
	for _, doc := range s.docs {
		if doc.OwnerID.Hex() == ownerID {
			out = append(out, doc)
		}
	}
	// Newest first, like the Mongo store's created_at sort.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeDocStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *fakeDocStore) CountIndexed(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, doc := range s.docs {
		if doc.Status == models.StatusIndexed {
			n++
		}
	}
	return n, nil
}

type fakeBlobStore struct {
	mu    sync.Mutex
	next  int
	blobs map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (s *fakeBlobStore) Write(name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	locator := fmt.Sprintf("blob-%d_%s", s.next, name)
	s.blobs[locator] = data
	return locator, nil
}

func (s *fakeBlobStore) Read(locator string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[locator]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (s *fakeBlobStore) Delete(locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[locator]; !ok {
		return storage.ErrNotFound
	}
	delete(s.blobs, locator)
	return nil
}

type fakeConversationStore struct {
	mu              sync.Mutex
	messages        []models.ChatMessage
	appendErrOnRole string
}

func (s *fakeConversationStore) Append(_ context.Context, ownerID, role, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErrOnRole != "" && role == s.appendErrOnRole {
		return fmt.Errorf("append failed for role %s", role)
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return err
	}
	s.messages = append(s.messages, models.ChatMessage{
		ID:      primitive.NewObjectID(),
		OwnerID: owner,
		Role:    role,
		Text:    text,
	})
	return nil
}

func (s *fakeConversationStore) List(_ context.Context, ownerID string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChatMessage
	for _, m := range s.messages {
		if m.OwnerID.Hex() == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeConversationStore) Clear(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.OwnerID.Hex() != ownerID {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}
