package services

import (
	"strings"
)

// Chunker splits extracted text into overlapping segments sized for
// embedding. Splitting is a sliding character window whose cut points snap
// backwards to a paragraph break, then a sentence end, then a space, so
// chunks rarely end mid-sentence. Each chunk after the first starts exactly
// `overlap` bytes before the previous cut, which keeps boundary context in
// both neighbours.
type Chunker struct {
	maxSize int
	overlap int
}

const (
	defaultMaxChunkSize = 1000
	defaultChunkOverlap = 200
)

// NewChunker clamps invalid geometry instead of failing. Overlap is capped at
// half a window: cut points never land before the half-window floor, so any
// larger overlap could stall the window and silently lose the shared-context
// guarantee at that boundary.
func NewChunker(maxSize, overlap int) *Chunker {
	if maxSize <= 0 {
		maxSize = defaultMaxChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap > maxSize/2 {
		overlap = defaultChunkOverlap
		if overlap > maxSize/2 {
			overlap = maxSize / 5
		}
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}
}

// Split returns the ordered chunks of text. Deterministic for identical
// input; whitespace-only input yields nil, which callers must treat as an
// ingestion error. Trailing content shorter than the window is always
// emitted.
func (c *Chunker) Split(text string) []string {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}
	if len(t) <= c.maxSize {
		return []string{t}
	}

	var chunks []string
	start := 0
	for start < len(t) {
		end := start + c.maxSize
		if end >= len(t) {
			chunks = append(chunks, t[start:])
			break
		}
		cut := c.cutPoint(t, start, end)
		chunks = append(chunks, t[start:cut])

		next := cut - c.overlap
		if next <= start {
			// Overlap would stall the window; give up the overlap for this
			// boundary rather than loop forever.
			next = cut
		}
		start = next
	}
	return chunks
}

// cutPoint picks the cut for the chunk starting at start, never earlier than
// half a window so snapping cannot produce degenerate slivers.
func (c *Chunker) cutPoint(t string, start, end int) int {
	lo := start + c.maxSize/2
	window := t[lo:end]

	if i := strings.LastIndex(window, "\n\n"); i >= 0 {
		return lo + i + 2
	}

	best := -1
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.LastIndex(window, sep); i >= 0 && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	if best > 0 {
		return lo + best
	}

	if i := strings.LastIndex(window, " "); i >= 0 {
		return lo + i + 1
	}
	return end
}

// MaxSize reports the configured maximum chunk length.
func (c *Chunker) MaxSize() int { return c.maxSize }

// Overlap reports the configured overlap between consecutive chunks.
func (c *Chunker) Overlap() int { return c.overlap }
