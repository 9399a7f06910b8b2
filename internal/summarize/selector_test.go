package summarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDiverse_FirstIsArgmax(t *testing.T) {
	scores := []float32{0.2, 0.9, 0.5}
	embeddings := [][]float32{{1, 0}, {0, 1}, {0.7071, 0.7071}}

	selected := SelectDiverse(scores, embeddings, 1, 0.8)

	require.Len(t, selected, 1)
	assert.Equal(t, 1, selected[0])
}

func TestSelectDiverse_ArgmaxTieBreaksLowestIndex(t *testing.T) {
	scores := []float32{0.9, 0.9, 0.9}
	embeddings := [][]float32{{1, 0}, {0, 1}, {1, 0}}

	selected := SelectDiverse(scores, embeddings, 1, 0.8)

	require.Len(t, selected, 1)
	assert.Equal(t, 0, selected[0])
}

func TestSelectDiverse_NeverExceedsMaxCount(t *testing.T) {
	scores := []float32{0.9, 0.8, 0.7, 0.6}
	embeddings := [][]float32{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

	selected := SelectDiverse(scores, embeddings, 2, 0.8)

	assert.Len(t, selected, 2)
	assertUnique(t, selected)
}

func TestSelectDiverse_SkipsRedundantCandidate(t *testing.T) {
	// Candidate 1 duplicates the top pick; candidate 2 is orthogonal with a
	// lower relevance and should win the second slot.
	scores := []float32{0.9, 0.8, 0.5}
	embeddings := [][]float32{{1, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	selected := SelectDiverse(scores, embeddings, 2, 0.8)

	assert.Equal(t, []int{0, 2}, selected)
}

func TestSelectDiverse_FallbackWhenAllTooSimilar(t *testing.T) {
	// Every candidate is identical, so each round skips all of them and the
	// fallback fills by relevance.
	scores := []float32{0.9, 0.7, 0.8}
	embeddings := [][]float32{{1, 0}, {1, 0}, {1, 0}}

	selected := SelectDiverse(scores, embeddings, 3, 0.8)

	assert.Equal(t, []int{0, 2, 1}, selected)
}

func TestSelectDiverse_StopsWhenCandidatesExhausted(t *testing.T) {
	scores := []float32{0.9, 0.1}
	embeddings := [][]float32{{1, 0}, {0, 1}}

	selected := SelectDiverse(scores, embeddings, 5, 0.8)

	assert.Len(t, selected, 2)
	assertUnique(t, selected)
}

func TestSelectDiverse_EmptyInput(t *testing.T) {
	assert.Nil(t, SelectDiverse(nil, nil, 3, 0.8))
	assert.Nil(t, SelectDiverse([]float32{0.5}, [][]float32{{1}}, 0, 0.8))
}

func TestSelectDiverse_PenalizesSimilarity(t *testing.T) {
	// Candidate 1 is more relevant but close to the top pick; candidate 2 is
	// orthogonal and its combined score wins despite lower relevance.
	// combined(1) = 0.70 - 0.3*0.75 = 0.475, combined(2) = 0.50 - 0 = 0.50.
	scores := []float32{0.9, 0.7, 0.5}
	embeddings := [][]float32{
		{1, 0, 0},
		{0.75, 0.6614, 0},
		{0, 0, 1},
	}

	selected := SelectDiverse(scores, embeddings, 2, 0.8)

	assert.Equal(t, []int{0, 2}, selected)
}

func assertUnique(t *testing.T, indices []int) {
	t.Helper()
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		assert.False(t, seen[idx], "index %d selected twice", idx)
		seen[idx] = true
	}
}
