package domain

// SearchResult represents a retrieved chunk with its relevance score
type SearchResult struct {
	ChunkID    string
	DocumentID string
	ChunkIndex int
	Text       string
	Score      float32
}

// IndexStats summarizes the state of the vector index
type IndexStats struct {
	TotalDocuments int64
	TotalChunks    int64
}
