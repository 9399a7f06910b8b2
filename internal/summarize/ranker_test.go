package summarize

import (
	"testing"

	"github.com/clearnote-ai/clearnoteai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineScores_DotProducts(t *testing.T) {
	query := []float32{1, 0, 0}
	candidates := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.6, 0.8, 0},
	}

	scores, err := CosineScores(query, candidates)
	require.NoError(t, err)

	require.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores[0], 1e-6)
	assert.InDelta(t, 0.0, scores[1], 1e-6)
	assert.InDelta(t, 0.6, scores[2], 1e-6)
}

func TestCosineScores_DimensionMismatch(t *testing.T) {
	query := []float32{1, 0, 0}
	candidates := [][]float32{
		{1, 0, 0},
		{1, 0},
	}

	_, err := CosineScores(query, candidates)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestCosineScores_NoCandidates(t *testing.T) {
	scores, err := CosineScores([]float32{1, 0}, nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}
