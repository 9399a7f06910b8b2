package summarize

import "math"

// similarityPenalty weights how strongly similarity to already-selected
// sentences counts against a candidate's relevance.
const similarityPenalty = 0.3

// SelectDiverse greedily picks up to maxCount candidate indices, maximizing
// relevance while penalizing similarity to sentences already selected.
// The highest-scoring candidate is always selected first; ties break toward
// the lowest index. Candidates whose similarity to any selection exceeds
// diversityThreshold are skipped for the round; when a round skips everyone,
// the single most relevant remaining candidate is taken so selection always
// makes progress. The returned order is selection order, not document order.
func SelectDiverse(scores []float32, embeddings [][]float32, maxCount int, diversityThreshold float32) []int {
	if len(scores) == 0 || maxCount <= 0 {
		return nil
	}

	selected := make([]int, 0, maxCount)
	remaining := make([]int, 0, len(scores))

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	selected = append(selected, best)
	for i := range scores {
		if i != best {
			remaining = append(remaining, i)
		}
	}

	for len(selected) < maxCount && len(remaining) > 0 {
		bestScore := float32(math.Inf(-1))
		bestPos := -1

		for pos, idx := range remaining {
			maxSim := maxSimilarity(embeddings, idx, selected)
			if maxSim > diversityThreshold {
				continue
			}

			combined := scores[idx] - similarityPenalty*maxSim
			if combined > bestScore {
				bestScore = combined
				bestPos = pos
			}
		}

		if bestPos < 0 {
			// Everything left is too similar to the current selection;
			// take the most relevant candidate anyway.
			bestPos = 0
			for pos := 1; pos < len(remaining); pos++ {
				if scores[remaining[pos]] > scores[remaining[bestPos]] {
					bestPos = pos
				}
			}
		}

		selected = append(selected, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	return selected
}

// maxSimilarity returns the highest cosine similarity between the candidate
// embedding and any already-selected embedding.
func maxSimilarity(embeddings [][]float32, idx int, selected []int) float32 {
	maxSim := float32(math.Inf(-1))
	for _, s := range selected {
		if sim := dot(embeddings[idx], embeddings[s]); sim > maxSim {
			maxSim = sim
		}
	}
	return maxSim
}
