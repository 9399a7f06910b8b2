package domain

import "time"

// DocumentStatus represents the indexing lifecycle of a document
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusReady      DocumentStatus = "ready"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document represents an ingested source document
type Document struct {
	ID          string
	Filename    string
	ContentType string
	SizeBytes   int64
	Status      DocumentStatus
	ChunkCount  int
	Retries     int32
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDocument creates a new Document in the pending state
func NewDocument(id, filename, contentType string, sizeBytes int64, now time.Time) *Document {
	return &Document{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   sizeBytes,
		Status:      DocumentStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ValidateDocument validates a Document instance
func ValidateDocument(d *Document) error {
	if d == nil {
		return NewDomainError(ErrCodeValidation, "document cannot be nil")
	}
	if d.ID == "" {
		return NewDomainError(ErrCodeValidation, "document ID is required")
	}
	if d.Filename == "" {
		return NewDomainError(ErrCodeValidation, "document filename is required")
	}
	if !isValidDocumentStatus(d.Status) {
		return ErrInvalidDocumentStatus
	}
	if d.ChunkCount < 0 {
		return NewDomainError(ErrCodeValidation, "document ChunkCount cannot be negative")
	}
	if d.Retries < 0 {
		return NewDomainError(ErrCodeValidation, "document Retries cannot be negative")
	}
	return nil
}

// isValidDocumentStatus checks if a DocumentStatus is valid
func isValidDocumentStatus(s DocumentStatus) bool {
	switch s {
	case DocumentStatusPending, DocumentStatusProcessing,
		DocumentStatusReady, DocumentStatusFailed:
		return true
	}
	return false
}
