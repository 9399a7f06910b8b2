package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
	"github.com/clearnote-ai/clearnoteai/internal/telemetry"
)

// SearchChunkRepository defines the repository interface for vector search
type SearchChunkRepository interface {
	SearchByEmbedding(ctx context.Context, embedding []float32, limit int, minScore float32) ([]*domain.SearchResult, error)
}

// SummarizerInterface defines the interface for extractive summarization
type SummarizerInterface interface {
	Summarize(ctx context.Context, query string, retrievedTexts []string, maxSentences int) (string, error)
}

// SearchConfig controls retrieval defaults.
type SearchConfig struct {
	TopK           int
	ScoreThreshold float32
}

// DefaultSearchConfig returns the default retrieval configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		TopK:           5,
		ScoreThreshold: 0.3,
	}
}

// QueryInput represents input for a search query
type QueryInput struct {
	Query          string
	TopK           int
	ScoreThreshold *float32
	IncludeSummary bool
	MaxSentences   int
}

// QueryOutput represents the outcome of a search query
type QueryOutput struct {
	Results    []*domain.SearchResult
	Summary    string
	DurationMS int64
}

// SearchService performs semantic search over indexed chunks with optional
// query-focused extractive summarization of the retrieved texts.
type SearchService struct {
	chunks     SearchChunkRepository
	embedder   EmbeddingClient
	summarizer SummarizerInterface
	cfg        SearchConfig
}

// NewSearchService creates a new SearchService instance
func NewSearchService(chunks SearchChunkRepository, embedder EmbeddingClient, summarizer SummarizerInterface) *SearchService {
	return NewSearchServiceWithConfig(chunks, embedder, summarizer, DefaultSearchConfig())
}

// NewSearchServiceWithConfig creates a SearchService with explicit configuration.
func NewSearchServiceWithConfig(chunks SearchChunkRepository, embedder EmbeddingClient, summarizer SummarizerInterface, cfg SearchConfig) *SearchService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultSearchConfig().TopK
	}
	return &SearchService{
		chunks:     chunks,
		embedder:   embedder,
		summarizer: summarizer,
		cfg:        cfg,
	}
}

// Query embeds the query, retrieves the closest chunks and, when requested,
// produces an extractive summary of the retrieved texts.
func (s *SearchService) Query(ctx context.Context, input QueryInput) (*QueryOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Query", telemetry.SpanAttributes{
		Operation: "query",
	})
	defer span.End()

	if strings.TrimSpace(input.Query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	topK := input.TopK
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	threshold := s.cfg.ScoreThreshold
	if input.ScoreThreshold != nil {
		threshold = *input.ScoreThreshold
	}

	start := time.Now()

	embedding, err := s.embedder.GenerateEmbedding(ctx, input.Query)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeEmbedding, "failed to embed query", err)
	}

	results, err := s.chunks.SearchByEmbedding(ctx, embedding, topK, threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	out := &QueryOutput{Results: results}

	if input.IncludeSummary && s.summarizer != nil {
		texts := make([]string, len(results))
		for i, r := range results {
			texts[i] = r.Text
		}
		summary, err := s.summarizer.Summarize(ctx, input.Query, texts, input.MaxSentences)
		if err != nil {
			return nil, err
		}
		out.Summary = summary
	}

	out.DurationMS = time.Since(start).Milliseconds()
	return out, nil
}
