package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingClient) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func TestSummarizer_EmptyRetrievedTexts(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	s := NewSummarizer(mockClient)

	summary, err := s.Summarize(context.Background(), "what happened?", nil, 3)

	require.NoError(t, err)
	assert.Equal(t, NoContentMessage, summary)
	mockClient.AssertNotCalled(t, "GenerateEmbedding")
}

func TestSummarizer_NoSuitableSentences(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	s := NewSummarizer(mockClient)

	// Every sentence is at or below the 20 rune minimum.
	summary, err := s.Summarize(context.Background(), "query", []string{"Too short. Also tiny."}, 3)

	require.NoError(t, err)
	assert.Equal(t, NoSentencesMessage, summary)
	mockClient.AssertNotCalled(t, "GenerateEmbedding")
}

func TestSummarizer_SelectsRelevantInReadingOrder(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	s := NewSummarizer(mockClient)

	ctx := context.Background()
	texts := []string{
		"The solar array output dropped sharply. Engineers investigated the power bus.",
		"Battery cells degraded faster than expected.",
	}

	mockClient.On("GenerateEmbedding", ctx, "battery degradation").
		Return([]float32{1, 0, 0}, nil)
	mockClient.On("GenerateEmbeddings", ctx, []string{
		"The solar array output dropped sharply.",
		"Engineers investigated the power bus.",
		"Battery cells degraded faster than expected.",
	}).Return([][]float32{
		{0, 1, 0},
		{0.6, 0.8, 0},
		{1, 0, 0},
	}, nil)

	summary, err := s.Summarize(ctx, "battery degradation", texts, 2)
	require.NoError(t, err)

	// The battery sentence scores highest and is selected first, but the
	// summary is assembled in original reading order.
	assert.Equal(t,
		"Engineers investigated the power bus. Battery cells degraded faster than expected.",
		summary)
	mockClient.AssertExpectations(t)
}

func TestSummarizer_QueryEmbeddingFailureFallsBack(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	s := NewSummarizer(mockClient)

	ctx := context.Background()
	texts := []string{
		"The first long sentence survives filtering. The second long sentence also survives. The third long sentence is dropped by the cap.",
	}

	mockClient.On("GenerateEmbedding", ctx, "query").
		Return(nil, errors.New("provider unavailable"))

	summary, err := s.Summarize(ctx, "query", texts, 2)
	require.NoError(t, err)

	assert.Equal(t,
		"The first long sentence survives filtering. The second long sentence also survives.",
		summary)
	mockClient.AssertExpectations(t)
}

func TestSummarizer_SentenceEmbeddingFailureFallsBack(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	s := NewSummarizer(mockClient)

	ctx := context.Background()
	texts := []string{"A sufficiently long first sentence here. A sufficiently long second sentence here."}

	mockClient.On("GenerateEmbedding", ctx, "query").
		Return([]float32{1, 0}, nil)
	mockClient.On("GenerateEmbeddings", ctx, mock.Anything).
		Return(nil, errors.New("provider unavailable"))

	summary, err := s.Summarize(ctx, "query", texts, 1)
	require.NoError(t, err)

	assert.Equal(t, "A sufficiently long first sentence here.", summary)
	mockClient.AssertExpectations(t)
}

func TestSummarizer_DimensionMismatchSurfaced(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	s := NewSummarizer(mockClient)

	ctx := context.Background()
	texts := []string{"A sufficiently long first sentence here."}

	mockClient.On("GenerateEmbedding", ctx, "query").
		Return([]float32{1, 0, 0}, nil)
	mockClient.On("GenerateEmbeddings", ctx, mock.Anything).
		Return([][]float32{{1, 0}}, nil)

	_, err := s.Summarize(ctx, "query", texts, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSummarizer_DefaultMaxSentences(t *testing.T) {
	mockClient := new(MockEmbeddingClient)
	s := NewSummarizerWithConfig(mockClient, Config{MaxSentences: 1, DiversityThreshold: 0.8, MinSentenceLength: 20})

	ctx := context.Background()
	texts := []string{"The only long enough sentence in this text. Another long enough sentence follows it."}

	mockClient.On("GenerateEmbedding", ctx, "query").
		Return([]float32{1, 0}, nil)
	mockClient.On("GenerateEmbeddings", ctx, mock.Anything).
		Return([][]float32{{1, 0}, {0, 1}}, nil)

	// maxSentences 0 falls back to the configured cap of one.
	summary, err := s.Summarize(ctx, "query", texts, 0)
	require.NoError(t, err)

	assert.Equal(t, "The only long enough sentence in this text.", summary)
}

func TestAssembleSummary_RestoresDocumentOrder(t *testing.T) {
	candidates := []Candidate{
		{Text: "chunk one sentence zero.", ChunkIndex: 0, SentenceIndex: 0},
		{Text: "chunk one sentence one.", ChunkIndex: 0, SentenceIndex: 1},
		{Text: "chunk two sentence zero.", ChunkIndex: 1, SentenceIndex: 0},
	}

	// Selection order deliberately reversed.
	got := AssembleSummary(candidates, []int{2, 0})

	assert.Equal(t, "chunk one sentence zero. chunk two sentence zero.", got)
}
