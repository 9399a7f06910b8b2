package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeConfig            = "CONFIG_ERROR"
	ErrCodeEmptyInput        = "EMPTY_INPUT"
	ErrCodeDimensionMismatch = "DIMENSION_MISMATCH"
	ErrCodeEmbedding         = "EMBEDDING_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Chunking and summarization errors
var (
	ErrEmptyInput        = NewDomainError(ErrCodeEmptyInput, "input text is empty")
	ErrOverlapTooLarge   = NewDomainError(ErrCodeConfig, "overlap must be smaller than chunk size")
	ErrInvalidChunkSize  = NewDomainError(ErrCodeConfig, "chunk size must be positive")
	ErrDimensionMismatch = NewDomainError(ErrCodeDimensionMismatch, "embedding vectors have mismatched dimensions")
	ErrEmbeddingFailed   = NewDomainError(ErrCodeEmbedding, "embedding generation failed")
)

// Validation errors
var (
	ErrInvalidDocumentStatus = NewDomainError(ErrCodeValidation, "invalid document status")
	ErrEmptyQuery            = NewDomainError(ErrCodeValidation, "query cannot be empty")
	ErrMissingRequiredField  = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
	ErrChunkNotFound    = NewDomainError(ErrCodeNotFound, "chunk not found")
)
