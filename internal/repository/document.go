package repository

import (
	"context"
	"errors"
	"time"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
	"github.com/clearnote-ai/clearnoteai/internal/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles persistence of ingested documents.
type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// Create inserts a document along with its raw source text. Source may be
// empty when the text has been offloaded to object storage.
func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document, source string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (id, filename, content_type, size_bytes, status, chunk_count, retries, error, source, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.Filename, d.ContentType, d.SizeBytes, d.Status, d.ChunkCount, d.Retries, nullableString(d.Error), nullableString(source), d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, filename, content_type, size_bytes, status, chunk_count, retries, error, created_at, updated_at
		 FROM documents WHERE id = $1`, id)

	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return d, nil
}

// GetSource returns the raw source text stored with the document, empty when
// the text was offloaded to object storage.
func (r *DocumentRepository) GetSource(ctx context.Context, id string) (string, error) {
	var source *string
	err := r.db.QueryRow(ctx, `SELECT source FROM documents WHERE id = $1`, id).Scan(&source)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrDocumentNotFound
		}
		return "", err
	}
	if source == nil {
		return "", nil
	}
	return *source, nil
}

// ListWithCursor returns one page of documents in reverse creation order.
// It fetches limit+1 rows to detect whether another page follows, and the
// returned cursor points at the last item of the current page.
func (r *DocumentRepository) ListWithCursor(ctx context.Context, limit int, cursor *pagination.Cursor) ([]*domain.Document, string, bool, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, filename, content_type, size_bytes, status, chunk_count, retries, error, created_at, updated_at
			 FROM documents
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, filename, content_type, size_bytes, status, chunk_count, retries, error, created_at, updated_at
			 FROM documents
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1)
	}
	if err != nil {
		return nil, "", false, err
	}
	defer rows.Close()

	docs := make([]*domain.Document, 0, limit)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, "", false, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, "", false, err
	}

	hasMore := len(docs) > limit
	if hasMore {
		docs = docs[:limit]
	}

	nextCursor := ""
	if hasMore && len(docs) > 0 {
		last := docs[len(docs)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return docs, nextCursor, hasMore, nil
}

// UpdateStatus transitions a document to the given status, recording the
// error message for failed transitions and bumping the retry counter when
// requested.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMsg string, bumpRetries bool) error {
	bump := 0
	if bumpRetries {
		bump = 1
	}
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $1, error = $2, retries = retries + $3, updated_at = $4 WHERE id = $5`,
		status, nullableString(errMsg), bump, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// SetChunkCount records the number of chunks produced for a document.
func (r *DocumentRepository) SetChunkCount(ctx context.Context, id string, count int) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE documents SET chunk_count = $1, updated_at = $2 WHERE id = $3`,
		count, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ListClaimable returns documents awaiting (re)indexing: pending, or failed
// with fewer than maxRetries attempts.
func (r *DocumentRepository) ListClaimable(ctx context.Context, maxRetries int32, limit int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, filename, content_type, size_bytes, status, chunk_count, retries, error, created_at, updated_at
		 FROM documents
		 WHERE status = $1 OR (status = $2 AND retries < $3)
		 ORDER BY created_at
		 LIMIT $4`,
		domain.DocumentStatusPending, domain.DocumentStatusFailed, maxRetries, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]*domain.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	var errMsg *string
	if err := row.Scan(&d.ID, &d.Filename, &d.ContentType, &d.SizeBytes, &d.Status, &d.ChunkCount, &d.Retries, &errMsg, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if errMsg != nil {
		d.Error = *errMsg
	}
	return &d, nil
}
