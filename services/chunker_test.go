package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleText(paragraphs int) string {
	var b strings.Builder
	for i := 0; i < paragraphs; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
		b.WriteString("Pack my box with five dozen liquor jugs! ")
		b.WriteString("How vexingly quick daft zebras jump? ")
		b.WriteString("Sphinx of black quartz, judge my vow.")
		b.WriteString("\n\n")
	}
	return b.String()
}

func TestChunkerShortInput(t *testing.T) {
	c := NewChunker(1000, 200)

	chunks := c.Split("  hello world  ")
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestChunkerEmptyInput(t *testing.T) {
	c := NewChunker(1000, 200)

	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\t  "))
}

func TestChunkerRespectsMaxSize(t *testing.T) {
	c := NewChunker(300, 60)

	chunks := c.Split(sampleText(20))
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 300, "chunk %d too long", i)
		assert.NotEmpty(t, chunk)
	}
}

func TestChunkerOverlapIsSharedContext(t *testing.T) {
	c := NewChunker(300, 60)

	chunks := c.Split(sampleText(20))
	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		require.GreaterOrEqual(t, len(prev), c.Overlap())
		assert.Equal(t, prev[len(prev)-c.Overlap():], chunks[i][:c.Overlap()],
			"chunk %d does not start with the tail of chunk %d", i, i-1)
	}
}

func TestChunkerReconstruction(t *testing.T) {
	c := NewChunker(300, 60)
	text := sampleText(25)

	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	var b strings.Builder
	b.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		b.WriteString(chunk[c.Overlap():])
	}
	assert.Equal(t, strings.TrimSpace(text), b.String())
}

func TestChunkerDeterministic(t *testing.T) {
	c := NewChunker(300, 60)
	text := sampleText(15)

	assert.Equal(t, c.Split(text), c.Split(text))
}

func TestChunkerHandlesUnbrokenText(t *testing.T) {
	c := NewChunker(100, 20)
	text := strings.Repeat("a", 1000)

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)
	total := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100)
		total += len(chunk)
	}
	// No separators means hard cuts with no stalling.
	assert.GreaterOrEqual(t, total, len(text))
}

func TestChunkerOverlapAtHalfWindow(t *testing.T) {
	// The largest permitted overlap. Sentence ends sit just past every
	// half-window floor, so cuts snap as close to the floor as they can get;
	// the shared-context contract must still hold at every boundary.
	c := NewChunker(100, 50)
	text := strings.Repeat("alpha beta. ", 60)

	chunks := c.Split(text)
	require.Greater(t, len(chunks), 2)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		require.GreaterOrEqual(t, len(prev), c.Overlap())
		assert.Equal(t, prev[len(prev)-c.Overlap():], chunks[i][:c.Overlap()],
			"boundary %d lost its overlap", i)
	}
}

func TestNewChunkerClampsBadConfig(t *testing.T) {
	c := NewChunker(0, -5)
	assert.Equal(t, defaultMaxChunkSize, c.MaxSize())
	assert.Equal(t, 0, c.Overlap())

	// Anything past half a window can stall the window, so it is clamped.
	c = NewChunker(100, 100)
	assert.LessOrEqual(t, c.Overlap(), c.MaxSize()/2)

	c = NewChunker(100, 51)
	assert.LessOrEqual(t, c.Overlap(), 50)

	c = NewChunker(100, 50)
	assert.Equal(t, 50, c.Overlap())
}
