package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	now := time.Now().UTC()
	d := NewDocument("id-1", "notes.md", "text/markdown", 1024, now)

	require.NotNil(t, d)
	assert.Equal(t, DocumentStatusPending, d.Status)
	assert.Equal(t, now, d.CreatedAt)
	assert.Equal(t, now, d.UpdatedAt)
	assert.NoError(t, ValidateDocument(d))
}

func TestValidateDocument_MissingFields(t *testing.T) {
	assert.Error(t, ValidateDocument(nil))
	assert.Error(t, ValidateDocument(&Document{Filename: "a.txt", Status: DocumentStatusPending}))
	assert.Error(t, ValidateDocument(&Document{ID: "id", Status: DocumentStatusPending}))
}

func TestValidateDocument_InvalidStatus(t *testing.T) {
	d := &Document{ID: "id", Filename: "a.txt", Status: DocumentStatus("bogus")}
	err := ValidateDocument(d)
	assert.ErrorIs(t, err, ErrInvalidDocumentStatus)
}

func TestDomainError_WrapsCause(t *testing.T) {
	cause := assert.AnError
	err := NewDomainErrorWithCause(ErrCodeEmbedding, "embedding failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), ErrCodeEmbedding)
	assert.Contains(t, err.Error(), "embedding failed")
}
