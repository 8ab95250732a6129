package services

import (
	"errors"
	"math"
	"sort"
	"sync"
)

// IndexedChunk is one embedded chunk held by the in-process vector index,
// carrying enough document metadata for attribution.
type IndexedChunk struct {
	DocumentID string
	Title      string
	Ordinal    int
	Text       string
}

// SearchResult pairs an indexed chunk with its similarity to the query.
type SearchResult struct {
	Chunk IndexedChunk
	Score float64
}

type indexEntry struct {
	chunk  IndexedChunk
	vector []float32
	seq    int
}

// VectorIndex is an in-process brute-force cosine-similarity index. It has no
// persistence on purpose: after a restart it starts empty regardless of what
// the document store records, and the answering path surfaces that gap to the
// user instead of hiding it.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []indexEntry
	nextSeq int
}

func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Add appends one document's chunks as a single atomic batch: a concurrent
// Search sees either none or all of them. No de-duplication is performed;
// callers remove prior entries before re-ingesting a document.
func (v *VectorIndex) Add(documentID, title string, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	batch := make([]indexEntry, len(chunks))
	for i := range chunks {
		batch[i] = indexEntry{
			chunk: IndexedChunk{
				DocumentID: documentID,
				Title:      title,
				Ordinal:    i,
				Text:       chunks[i],
			},
			vector: vectors[i],
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range batch {
		batch[i].seq = v.nextSeq
		v.nextSeq++
	}
	v.entries = append(v.entries, batch...)
	return nil
}

// Search returns at most k chunks ranked by cosine similarity, highest
// first, ties broken by insertion order.
func (v *VectorIndex) Search(query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, errors.New("k must be positive")
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	scored := make([]struct {
		result SearchResult
		seq    int
	}, 0, len(v.entries))
	for _, e := range v.entries {
		scored = append(scored, struct {
			result SearchResult
			seq    int
		}{
			result: SearchResult{Chunk: e.chunk, Score: cosineSimilarity(query, e.vector)},
			seq:    e.seq,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].result.Score != scored[j].result.Score {
			return scored[i].result.Score > scored[j].result.Score
		}
		return scored[i].seq < scored[j].seq
	})

	if k > len(scored) {
		k = len(scored)
	}
	results := make([]SearchResult, k)
	for i := 0; i < k; i++ {
		results[i] = scored[i].result
	}
	return results, nil
}

// Remove drops all entries belonging to the document.
func (v *VectorIndex) Remove(documentID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.entries[:0]
	for _, e := range v.entries {
		if e.chunk.DocumentID != documentID {
			kept = append(kept, e)
		}
	}
	v.entries = kept
}

func (v *VectorIndex) IsEmpty() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries) == 0
}

func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
