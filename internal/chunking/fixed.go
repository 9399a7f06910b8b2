package chunking

import (
	"strings"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
)

// FixedWindowChunker splits text into fixed-size rune windows with a fixed
// overlap. It is the fallback strategy with no sentence awareness.
type FixedWindowChunker struct {
	chunkSize int
	overlap   int
}

// NewFixedWindowChunker creates a FixedWindowChunker, failing with a
// CONFIG_ERROR when overlap >= chunk size.
func NewFixedWindowChunker(cfg Config) (*FixedWindowChunker, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &FixedWindowChunker{chunkSize: cfg.ChunkSize, overlap: cfg.Overlap}, nil
}

// ChunkText splits trimmed text into windows of exactly chunkSize runes,
// advancing by chunkSize-overlap each step. The final window may be shorter.
func (c *FixedWindowChunker) ChunkText(text, documentID string) ([]domain.Chunk, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, domain.ErrEmptyInput
	}

	runes := []rune(trimmed)
	step := c.chunkSize - c.overlap

	chunks := make([]domain.Chunk, 0, (len(runes)+step-1)/step)
	chunkIndex := 0

	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, domain.Chunk{
			DocumentID: documentID,
			ChunkIndex: chunkIndex,
			Text:       string(runes[start:end]),
			StartChar:  start,
			EndChar:    end,
		})
		chunkIndex++
	}

	return chunks, nil
}
