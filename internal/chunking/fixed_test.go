package chunking

import (
	"strings"
	"testing"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixedWindowChunker_RejectsOverlapAtChunkSize(t *testing.T) {
	_, err := NewFixedWindowChunker(Config{ChunkSize: 50, Overlap: 50})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverlapTooLarge)
}

func TestFixedWindowChunker_EmptyInput(t *testing.T) {
	chunker, err := NewFixedWindowChunker(Config{ChunkSize: 50, Overlap: 10})
	require.NoError(t, err)

	_, err = chunker.ChunkText("  \t\n ", "doc1")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestFixedWindowChunker_WindowCount(t *testing.T) {
	chunker, err := NewFixedWindowChunker(Config{ChunkSize: 50, Overlap: 10})
	require.NoError(t, err)

	text := strings.Repeat("abcd", 50) // exactly 200 runes
	chunks, err := chunker.ChunkText(text, "doc1")
	require.NoError(t, err)

	// Windows start at 0, 40, 80, 120, 160.
	require.Len(t, chunks, 5)
	require.NoError(t, domain.ValidateChunkSequence(chunks))

	for i, c := range chunks {
		assert.Equal(t, i*40, c.StartChar)
		assert.LessOrEqual(t, len(c.Text), 50)
		require.NoError(t, domain.ValidateChunk(&c))
	}
	assert.Equal(t, 200, chunks[4].EndChar)
	assert.Len(t, chunks[4].Text, 40)
}

func TestFixedWindowChunker_ShortInputSingleChunk(t *testing.T) {
	chunker, err := NewFixedWindowChunker(Config{ChunkSize: 50, Overlap: 10})
	require.NoError(t, err)

	chunks, err := chunker.ChunkText("tiny", "doc1")
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartChar)
	assert.Equal(t, 4, chunks[0].EndChar)
}

func TestFixedWindowChunker_OverlapRepeatsTail(t *testing.T) {
	chunker, err := NewFixedWindowChunker(Config{ChunkSize: 10, Overlap: 4})
	require.NoError(t, err)

	chunks, err := chunker.ChunkText("0123456789ABCDEFGHIJ", "doc1")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(chunks), 2)
	first, second := chunks[0].Text, chunks[1].Text
	assert.Equal(t, first[len(first)-4:], second[:4])
}
