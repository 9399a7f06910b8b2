package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
)

const (
	// DefaultMaxRetries is the maximum number of indexing attempts per document
	DefaultMaxRetries int32 = 3
	// claimBatchSize bounds how many documents one poll picks up
	claimBatchSize = 10
)

// IndexDocumentRepository defines the interface for claiming documents that
// still need indexing.
type IndexDocumentRepository interface {
	ListClaimable(ctx context.Context, maxRetries int32, limit int) ([]*domain.Document, error)
}

// DocumentIndexer defines the interface for (re)indexing a document.
type DocumentIndexer interface {
	Process(ctx context.Context, documentID string) error
}

// IndexWorker retries documents whose ingestion did not reach the ready
// state, typically because the embedding provider was unavailable.
type IndexWorker struct {
	repo       IndexDocumentRepository
	indexer    DocumentIndexer
	maxRetries int32
}

// NewIndexWorker creates a new IndexWorker instance
func NewIndexWorker(repo IndexDocumentRepository, indexer DocumentIndexer) *IndexWorker {
	return NewIndexWorkerWithRetries(repo, indexer, DefaultMaxRetries)
}

// NewIndexWorkerWithRetries creates an IndexWorker with an explicit retry cap.
func NewIndexWorkerWithRetries(repo IndexDocumentRepository, indexer DocumentIndexer, maxRetries int32) *IndexWorker {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &IndexWorker{
		repo:       repo,
		indexer:    indexer,
		maxRetries: maxRetries,
	}
}

// ProcessJobs implements the Processor interface
func (w *IndexWorker) ProcessJobs(ctx context.Context) error {
	docs, err := w.repo.ListClaimable(ctx, w.maxRetries, claimBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list claimable documents: %w", err)
	}

	if len(docs) == 0 {
		return nil
	}

	log.Printf("index worker: processing %d document(s)", len(docs))

	for _, doc := range docs {
		log.Printf("index worker: indexing document %s (attempt %d/%d)", doc.ID, doc.Retries+1, w.maxRetries)
		if err := w.indexer.Process(ctx, doc.ID); err != nil {
			// Process records the failure and retry count on the document.
			log.Printf("index worker: document %s failed: %v", doc.ID, err)
			continue
		}
		log.Printf("index worker: document %s indexed", doc.ID)
	}

	return nil
}
