package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
	"github.com/clearnote-ai/clearnoteai/internal/pagination"
	"github.com/clearnote-ai/clearnoteai/internal/telemetry"
	"github.com/google/uuid"
)

// Chunker splits document text into ordered, gap-free chunks.
type Chunker interface {
	ChunkText(text, documentID string) ([]domain.Chunk, error)
}

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentRepositoryInterface defines the repository interface for documents
type DocumentRepositoryInterface interface {
	Create(ctx context.Context, d *domain.Document, source string) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetSource(ctx context.Context, id string) (string, error)
	ListWithCursor(ctx context.Context, limit int, cursor *pagination.Cursor) ([]*domain.Document, string, bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMsg string, bumpRetries bool) error
	SetChunkCount(ctx context.Context, id string, count int) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ChunkRepositoryInterface defines the repository interface for chunks
type ChunkRepositoryInterface interface {
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)
	DeleteByDocument(ctx context.Context, documentID string) error
	Count(ctx context.Context) (int64, error)
}

// SourceStore persists raw document text outside the database (e.g. S3).
type SourceStore interface {
	PutSource(ctx context.Context, documentID, text string) error
	GetSource(ctx context.Context, documentID string) (string, error)
	DeleteSource(ctx context.Context, documentID string) error
}

// IngestInput represents input for document ingestion
type IngestInput struct {
	Filename    string
	Content     string
	ContentType string
}

// IngestResult represents the outcome of an ingestion call
type IngestResult struct {
	Document      *domain.Document
	ChunksCreated int
}

// DocumentService orchestrates ingestion: chunking, embedding and storage.
type DocumentService struct {
	docRepo   DocumentRepositoryInterface
	chunkRepo ChunkRepositoryInterface
	chunker   Chunker
	embedder  EmbeddingClient
	sources   SourceStore
}

// NewDocumentService creates a new DocumentService instance
func NewDocumentService(
	docRepo DocumentRepositoryInterface,
	chunkRepo ChunkRepositoryInterface,
	chunker Chunker,
	embedder EmbeddingClient,
) *DocumentService {
	return NewDocumentServiceWithSources(docRepo, chunkRepo, chunker, embedder, nil)
}

// NewDocumentServiceWithSources creates a DocumentService that offloads raw
// source text to the given store.
func NewDocumentServiceWithSources(
	docRepo DocumentRepositoryInterface,
	chunkRepo ChunkRepositoryInterface,
	chunker Chunker,
	embedder EmbeddingClient,
	sources SourceStore,
) *DocumentService {
	return &DocumentService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		chunker:   chunker,
		embedder:  embedder,
		sources:   sources,
	}
}

// Ingest stores a new document and indexes it synchronously. When the
// embedding step fails the document is left pending for the background
// worker to retry, and the error is returned so the caller can report it.
func (s *DocumentService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Ingest", telemetry.SpanAttributes{
		Operation: "ingest",
	})
	defer span.End()

	if input.Filename == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "filename is required")
	}
	if input.Content == "" {
		return nil, domain.ErrEmptyInput
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}

	now := time.Now().UTC()
	doc := domain.NewDocument(uuid.NewString(), input.Filename, contentType, int64(len(input.Content)), now)
	if err := domain.ValidateDocument(doc); err != nil {
		return nil, err
	}

	stored := input.Content
	if s.sources != nil {
		if err := s.sources.PutSource(ctx, doc.ID, input.Content); err != nil {
			return nil, fmt.Errorf("failed to store document source: %w", err)
		}
		stored = ""
	}

	if err := s.docRepo.Create(ctx, doc, stored); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	count, err := s.index(ctx, doc.ID, input.Content)
	if err != nil {
		// Left pending for the index worker to retry.
		log.Printf("documents: indexing %s failed, queued for retry: %v", doc.ID, err)
		return nil, err
	}

	doc.Status = domain.DocumentStatusReady
	doc.ChunkCount = count
	return &IngestResult{Document: doc, ChunksCreated: count}, nil
}

// Process re-indexes an existing document from its stored source text.
// Used by the background worker for pending and failed documents.
func (s *DocumentService) Process(ctx context.Context, documentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "DocumentService.Process", telemetry.SpanAttributes{
		DocumentID: documentID,
		Operation:  "process",
	})
	defer span.End()

	source, err := s.loadSource(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.docRepo.UpdateStatus(ctx, documentID, domain.DocumentStatusProcessing, "", false); err != nil {
		return err
	}

	if _, err := s.index(ctx, documentID, source); err != nil {
		if statusErr := s.docRepo.UpdateStatus(ctx, documentID, domain.DocumentStatusFailed, err.Error(), true); statusErr != nil {
			log.Printf("documents: failed to mark %s failed: %v", documentID, statusErr)
		}
		return err
	}
	return nil
}

// index chunks the text, embeds every chunk and replaces the stored chunks,
// marking the document ready on success.
func (s *DocumentService) index(ctx context.Context, documentID, text string) (int, error) {
	chunks, err := s.chunker.ChunkText(text, documentID)
	if err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := s.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeEmbedding, "failed to embed chunks", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, domain.ErrDimensionMismatch
	}

	now := time.Now().UTC()
	for i := range chunks {
		chunks[i].ID = uuid.NewString()
		chunks[i].Embedding = embeddings[i]
		chunks[i].CreatedAt = now
	}

	if err := s.chunkRepo.ReplaceChunks(ctx, documentID, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}
	if err := s.docRepo.SetChunkCount(ctx, documentID, len(chunks)); err != nil {
		return 0, err
	}
	if err := s.docRepo.UpdateStatus(ctx, documentID, domain.DocumentStatusReady, "", false); err != nil {
		return 0, err
	}

	return len(chunks), nil
}

func (s *DocumentService) loadSource(ctx context.Context, documentID string) (string, error) {
	if s.sources != nil {
		source, err := s.sources.GetSource(ctx, documentID)
		if err != nil {
			return "", fmt.Errorf("failed to load document source: %w", err)
		}
		return source, nil
	}
	return s.docRepo.GetSource(ctx, documentID)
}

// GetByID returns a single document's metadata.
func (s *DocumentService) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// ListInput carries pagination parameters for document listing.
type ListInput struct {
	Limit  int
	Cursor string
}

// ListOutput is one page of documents with the cursor for the next page.
type ListOutput struct {
	Items      []*domain.Document
	NextCursor string
	HasMore    bool
}

// List returns one page of documents, newest first.
func (s *DocumentService) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "invalid cursor")
	}

	docs, nextCursor, hasMore, err := s.docRepo.ListWithCursor(ctx, input.Limit, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return &ListOutput{Items: docs, NextCursor: nextCursor, HasMore: hasMore}, nil
}

// GetChunks returns a document's chunks in order.
func (s *DocumentService) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.chunkRepo.ListByDocument(ctx, documentID)
}

// Delete removes a document, its chunks and any offloaded source text.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.chunkRepo.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.sources != nil {
		if err := s.sources.DeleteSource(ctx, id); err != nil {
			log.Printf("documents: failed to delete source for %s: %v", id, err)
		}
	}
	return nil
}

// Stats reports index totals.
func (s *DocumentService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	docs, err := s.docRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := s.chunkRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.IndexStats{TotalDocuments: docs, TotalChunks: chunks}, nil
}
