package summarize

import (
	"context"
	"log"
	"unicode/utf8"

	"github.com/clearnote-ai/clearnoteai/internal/chunking"
)

// Sentinel summaries returned instead of an empty string.
const (
	NoContentMessage   = "No relevant content found."
	NoSentencesMessage = "No suitable sentences found for summarization."
)

// EmbeddingClient defines the interface to the embedding collaborator.
// Returned vectors are unit-normalized and of fixed equal dimension.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Config controls summary length and redundancy filtering.
type Config struct {
	MaxSentences       int
	DiversityThreshold float32
	MinSentenceLength  int
}

// DefaultConfig provides the default summarization configuration.
func DefaultConfig() Config {
	return Config{
		MaxSentences:       3,
		DiversityThreshold: 0.8,
		MinSentenceLength:  20,
	}
}

// Summarizer produces query-focused extractive summaries from retrieved
// chunk texts. It holds no state beyond its immutable configuration, so a
// single instance is safe for concurrent use.
type Summarizer struct {
	embedder EmbeddingClient
	cfg      Config
}

// NewSummarizer creates a Summarizer with the default configuration.
func NewSummarizer(embedder EmbeddingClient) *Summarizer {
	return NewSummarizerWithConfig(embedder, DefaultConfig())
}

// NewSummarizerWithConfig creates a Summarizer with explicit configuration.
func NewSummarizerWithConfig(embedder EmbeddingClient, cfg Config) *Summarizer {
	if cfg.MaxSentences <= 0 {
		cfg.MaxSentences = DefaultConfig().MaxSentences
	}
	if cfg.DiversityThreshold == 0 {
		cfg.DiversityThreshold = DefaultConfig().DiversityThreshold
	}
	if cfg.MinSentenceLength <= 0 {
		cfg.MinSentenceLength = DefaultConfig().MinSentenceLength
	}
	return &Summarizer{embedder: embedder, cfg: cfg}
}

// Summarize extracts the sentences most relevant to the query from the
// retrieved chunk texts, avoiding redundant selections, and returns them in
// original reading order. maxSentences <= 0 uses the configured default.
// An empty retrieval set yields a sentinel string, never an error. A failure
// of the embedding collaborator is logged and degrades to the first
// maxSentences candidates unranked.
func (s *Summarizer) Summarize(ctx context.Context, query string, retrievedTexts []string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = s.cfg.MaxSentences
	}

	if len(retrievedTexts) == 0 {
		return NoContentMessage, nil
	}

	candidates := s.collectCandidates(retrievedTexts)
	if len(candidates) == 0 {
		return NoSentencesMessage, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}

	queryEmbedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("summarizer: query embedding failed, falling back to unranked summary: %v", err)
		return s.fallbackSummary(candidates, maxSentences), nil
	}

	embeddings, err := s.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		log.Printf("summarizer: sentence embedding failed, falling back to unranked summary: %v", err)
		return s.fallbackSummary(candidates, maxSentences), nil
	}

	scores, err := CosineScores(queryEmbedding, embeddings)
	if err != nil {
		return "", err
	}

	selected := SelectDiverse(scores, embeddings, maxSentences, s.cfg.DiversityThreshold)

	return AssembleSummary(candidates, selected), nil
}

// collectCandidates splits each retrieved text into sentences and keeps the
// ones longer than the configured minimum, tracking their source positions.
func (s *Summarizer) collectCandidates(retrievedTexts []string) []Candidate {
	var candidates []Candidate
	for chunkIdx, text := range retrievedTexts {
		for sentIdx, sentence := range chunking.SplitSentences(text) {
			if utf8.RuneCountInString(sentence) <= s.cfg.MinSentenceLength {
				continue
			}
			candidates = append(candidates, Candidate{
				Text:          sentence,
				ChunkIndex:    chunkIdx,
				SentenceIndex: sentIdx,
			})
		}
	}
	return candidates
}

// fallbackSummary joins the first maxSentences candidates in original order.
func (s *Summarizer) fallbackSummary(candidates []Candidate, maxSentences int) string {
	n := maxSentences
	if n > len(candidates) {
		n = len(candidates)
	}
	selected := make([]int, n)
	for i := range selected {
		selected[i] = i
	}
	return AssembleSummary(candidates, selected)
}
