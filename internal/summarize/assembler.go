package summarize

import (
	"sort"
	"strings"
)

// Candidate is a sentence extracted from a retrieved chunk, tracked by its
// position in the retrieval set so the summary can be restored to reading
// order.
type Candidate struct {
	Text          string
	ChunkIndex    int
	SentenceIndex int
}

// AssembleSummary sorts the selected candidates back into original document
// order, ascending by (chunk index, sentence index), and joins their texts
// with single spaces.
func AssembleSummary(candidates []Candidate, selected []int) string {
	ordered := make([]int, len(selected))
	copy(ordered, selected)

	sort.Slice(ordered, func(i, j int) bool {
		a, b := candidates[ordered[i]], candidates[ordered[j]]
		if a.ChunkIndex != b.ChunkIndex {
			return a.ChunkIndex < b.ChunkIndex
		}
		return a.SentenceIndex < b.SentenceIndex
	})

	texts := make([]string, len(ordered))
	for i, idx := range ordered {
		texts[i] = candidates[idx].Text
	}
	return strings.Join(texts, " ")
}
