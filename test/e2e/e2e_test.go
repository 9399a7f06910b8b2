//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

type documentData struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Status      string `json:"status"`
	ChunkCount  int    `json:"chunk_count"`
}

type ingestData struct {
	Document      documentData `json:"document"`
	ChunksCreated int          `json:"chunks_created"`
}

type documentListData struct {
	Items      []documentData `json:"items"`
	Total      int            `json:"total"`
	NextCursor string         `json:"next_cursor"`
	HasMore    bool           `json:"has_more"`
}

type chunkData struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	StartChar  int    `json:"start_char"`
	EndChar    int    `json:"end_char"`
}

type chunkListData struct {
	Items []chunkData `json:"items"`
	Total int         `json:"total"`
}

type queryResultData struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

type queryData struct {
	Results []queryResultData `json:"results"`
	Summary string            `json:"summary"`
}

type statsData struct {
	TotalDocuments int64 `json:"total_documents"`
	TotalChunks    int64 `json:"total_chunks"`
}

const sampleReport = `The deployment pipeline failed on Tuesday morning. ` +
	`Investigation showed the artifact cache had expired credentials. ` +
	`Rotating the cache credentials restored the pipeline within an hour. ` +
	`The database migration step was unaffected by the outage. ` +
	`Monitoring alerts fired correctly and paged the on-call engineer. ` +
	`A follow-up task was filed to automate credential rotation.`

func ingestDocument(t *testing.T, env *E2ETestEnv, filename, content string) ingestData {
	t.Helper()

	resp, err := env.Post("/documents", map[string]string{
		"filename": filename,
		"content":  content,
	})
	if err != nil {
		t.Fatalf("failed to ingest document: %v", err)
	}

	var data ingestData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("failed to parse ingest response: %v", err)
	}
	return data
}

func TestE2E_IngestAndQuery(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	ingested := ingestDocument(t, env, "incident-report.txt", sampleReport)

	if ingested.Document.Status != "ready" {
		t.Errorf("expected status ready, got %s", ingested.Document.Status)
	}
	if ingested.ChunksCreated == 0 {
		t.Error("expected at least one chunk")
	}

	// Document metadata is retrievable.
	resp, err := env.Get("/documents/" + ingested.Document.ID)
	if err != nil {
		t.Fatalf("failed to get document: %v", err)
	}
	var doc documentData
	if err := json.Unmarshal(resp.Data, &doc); err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	if doc.Filename != "incident-report.txt" {
		t.Errorf("unexpected filename %s", doc.Filename)
	}
	if doc.ChunkCount != ingested.ChunksCreated {
		t.Errorf("chunk count mismatch: %d vs %d", doc.ChunkCount, ingested.ChunksCreated)
	}

	// Chunks are stored in order with character offsets.
	resp, err = env.Get("/documents/" + ingested.Document.ID + "/chunks")
	if err != nil {
		t.Fatalf("failed to get chunks: %v", err)
	}
	var chunks chunkListData
	if err := json.Unmarshal(resp.Data, &chunks); err != nil {
		t.Fatalf("failed to parse chunks: %v", err)
	}
	if chunks.Total != ingested.ChunksCreated {
		t.Errorf("expected %d chunks, got %d", ingested.ChunksCreated, chunks.Total)
	}
	for i, c := range chunks.Items {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.EndChar <= c.StartChar {
			t.Errorf("chunk %d has invalid offsets %d-%d", i, c.StartChar, c.EndChar)
		}
	}

	// Retrieval finds the relevant chunk.
	resp, err = env.Post("/query", map[string]interface{}{
		"query":           "pipeline cache credentials",
		"top_k":           3,
		"score_threshold": 0.0,
	})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	var result queryData
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("failed to parse query response: %v", err)
	}
	if len(result.Results) == 0 {
		t.Fatal("expected query results")
	}
	if !strings.Contains(strings.ToLower(result.Results[0].Text), "pipeline") &&
		!strings.Contains(strings.ToLower(result.Results[0].Text), "credentials") {
		t.Errorf("top result does not mention query terms: %q", result.Results[0].Text)
	}
}

func TestE2E_QueryWithSummary(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	ingestDocument(t, env, "incident-report.txt", sampleReport)

	resp, err := env.Post("/query", map[string]interface{}{
		"query":           "what fixed the pipeline",
		"score_threshold": 0.0,
		"include_summary": true,
		"max_sentences":   2,
	})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	var result queryData
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("failed to parse query response: %v", err)
	}
	if result.Summary == "" {
		t.Error("expected a summary")
	}
}

func TestE2E_DocumentLifecycle(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	var ids []string
	for i := 0; i < 3; i++ {
		data := ingestDocument(t, env, fmt.Sprintf("doc-%d.txt", i),
			fmt.Sprintf("Document number %d. It contains a couple of sentences. Nothing more.", i))
		ids = append(ids, data.Document.ID)
	}

	// Paginated listing walks all documents without duplicates.
	resp, err := env.Get("/documents?limit=2")
	if err != nil {
		t.Fatalf("failed to list documents: %v", err)
	}
	var page1 documentListData
	if err := json.Unmarshal(resp.Data, &page1); err != nil {
		t.Fatalf("failed to parse list: %v", err)
	}
	if page1.Total != 2 || !page1.HasMore || page1.NextCursor == "" {
		t.Fatalf("unexpected first page: total=%d hasMore=%v", page1.Total, page1.HasMore)
	}

	resp, err = env.Get("/documents?limit=2&cursor=" + page1.NextCursor)
	if err != nil {
		t.Fatalf("failed to list second page: %v", err)
	}
	var page2 documentListData
	if err := json.Unmarshal(resp.Data, &page2); err != nil {
		t.Fatalf("failed to parse second page: %v", err)
	}
	if page2.Total != 1 || page2.HasMore {
		t.Fatalf("unexpected second page: total=%d hasMore=%v", page2.Total, page2.HasMore)
	}

	seen := map[string]bool{}
	for _, d := range append(page1.Items, page2.Items...) {
		if seen[d.ID] {
			t.Errorf("document %s appeared twice", d.ID)
		}
		seen[d.ID] = true
	}

	// Stats reflect the index.
	resp, err = env.Get("/stats")
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	var stats statsData
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		t.Fatalf("failed to parse stats: %v", err)
	}
	if stats.TotalDocuments != 3 {
		t.Errorf("expected 3 documents, got %d", stats.TotalDocuments)
	}
	if stats.TotalChunks == 0 {
		t.Error("expected chunks in stats")
	}

	// Deleting removes the document and its chunks.
	if _, err := env.Delete("/documents/" + ids[0]); err != nil {
		t.Fatalf("failed to delete document: %v", err)
	}
	if _, err := env.Get("/documents/" + ids[0]); err == nil {
		t.Error("expected deleted document to be gone")
	}

	resp, err = env.Get("/stats")
	if err != nil {
		t.Fatalf("failed to get stats: %v", err)
	}
	if err := json.Unmarshal(resp.Data, &stats); err != nil {
		t.Fatalf("failed to parse stats: %v", err)
	}
	if stats.TotalDocuments != 2 {
		t.Errorf("expected 2 documents after delete, got %d", stats.TotalDocuments)
	}
}

func TestE2E_SourceOffload(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	data := ingestDocument(t, env, "offloaded.txt", sampleReport)

	// The raw text lives in object storage, not the database.
	source, err := env.S3Client.GetSource(env.Ctx, data.Document.ID)
	if err != nil {
		t.Fatalf("failed to read source from object store: %v", err)
	}
	if source != sampleReport {
		t.Error("stored source does not match ingested content")
	}

	var dbSource *string
	err = env.Pool.QueryRow(env.Ctx, "SELECT source FROM documents WHERE id = $1", data.Document.ID).Scan(&dbSource)
	if err != nil {
		t.Fatalf("failed to query inline source: %v", err)
	}
	if dbSource != nil && *dbSource != "" {
		t.Error("expected no inline source for offloaded document")
	}

	// Deleting the document also removes the offloaded source.
	if _, err := env.Delete("/documents/" + data.Document.ID); err != nil {
		t.Fatalf("failed to delete document: %v", err)
	}
	if _, err := env.S3Client.GetSource(env.Ctx, data.Document.ID); err == nil {
		t.Error("expected source to be deleted from object store")
	}
}

func TestE2E_ValidationErrors(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	if _, err := env.Post("/documents", map[string]string{"content": "text"}); err == nil {
		t.Error("expected error for missing filename")
	}
	if _, err := env.Post("/documents", map[string]string{"filename": "a.txt"}); err == nil {
		t.Error("expected error for missing content")
	}
	if _, err := env.Post("/query", map[string]string{"query": ""}); err == nil {
		t.Error("expected error for empty query")
	}
	if _, err := env.Get("/documents/00000000-0000-0000-0000-000000000000"); err == nil {
		t.Error("expected error for unknown document")
	}
}

func TestE2E_CLIWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.BuildCLI()

	workDir := t.TempDir()

	// Ingest from stdin.
	out, err := env.RunCLIWithInput(workDir, sampleReport, "ingest", "--filename", "report.txt")
	if err != nil {
		t.Fatalf("ingest failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "report.txt") {
		t.Errorf("ingest output missing filename: %s", out)
	}

	// List shows the document.
	out, err = env.RunCLI(workDir, "documents", "list")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "report.txt") {
		t.Errorf("list output missing document: %s", out)
	}

	// Query returns matching text.
	out, err = env.RunCLI(workDir, "query", "pipeline credentials", "--threshold", "0")
	if err != nil {
		t.Fatalf("query failed: %v\n%s", err, out)
	}
	if !strings.Contains(strings.ToLower(out), "pipeline") {
		t.Errorf("query output missing match: %s", out)
	}

	// Stats reports totals.
	out, err = env.RunCLI(workDir, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1") {
		t.Errorf("stats output unexpected: %s", out)
	}
}
