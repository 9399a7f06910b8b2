package domain

import "time"

// Chunk represents a contiguous segment of a document's normalized text.
// StartChar and EndChar are rune offsets into the normalized text.
type Chunk struct {
	ID         string
	DocumentID string
	ChunkIndex int
	Text       string
	StartChar  int
	EndChar    int
	Embedding  []float32
	CreatedAt  time.Time
}

// ValidateChunk validates a Chunk instance
func ValidateChunk(c *Chunk) error {
	if c == nil {
		return NewDomainError(ErrCodeValidation, "chunk cannot be nil")
	}
	if c.DocumentID == "" {
		return NewDomainError(ErrCodeValidation, "chunk DocumentID is required")
	}
	if c.ChunkIndex < 0 {
		return NewDomainError(ErrCodeValidation, "chunk ChunkIndex cannot be negative")
	}
	if c.Text == "" {
		return NewDomainError(ErrCodeValidation, "chunk text cannot be empty")
	}
	if c.StartChar < 0 {
		return NewDomainError(ErrCodeValidation, "chunk StartChar cannot be negative")
	}
	if c.EndChar <= c.StartChar {
		return NewDomainError(ErrCodeValidation, "chunk EndChar must be greater than StartChar")
	}
	return nil
}

// ValidateChunkSequence verifies that chunk indices are contiguous from zero
// with no gaps or repeats.
func ValidateChunkSequence(chunks []Chunk) error {
	for i, c := range chunks {
		if c.ChunkIndex != i {
			return NewDomainError(ErrCodeValidation, "chunk indices must be sequential from 0")
		}
	}
	return nil
}
