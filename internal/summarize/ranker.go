// Package summarize implements query-focused extractive summarization:
// candidate sentences from retrieved chunks are ranked against the query and
// greedily selected for relevance and diversity.
package summarize

import "github.com/clearnote-ai/clearnoteai/internal/domain"

// CosineScores returns one relevance score per candidate vector, computed as
// the dot product with the query vector. All vectors are expected to be
// unit-normalized, which makes the dot product equal to cosine similarity.
// Fails with a DIMENSION_MISMATCH error when any candidate's length differs
// from the query's.
func CosineScores(query []float32, candidates [][]float32) ([]float32, error) {
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		if len(c) != len(query) {
			return nil, domain.ErrDimensionMismatch
		}
		scores[i] = dot(query, c)
	}
	return scores, nil
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
