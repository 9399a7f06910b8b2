package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// IngestRequest represents the document ingestion API request.
type IngestRequest struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

// Document represents a document returned by the API.
type Document struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      string `json:"status"`
	ChunkCount  int    `json:"chunk_count"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// IngestResponse represents the ingestion API response.
type IngestResponse struct {
	Document      Document `json:"document"`
	ChunksCreated int      `json:"chunks_created"`
}

// IngestCmd creates the ingest command.
func IngestCmd() *cobra.Command {
	var filename string

	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Ingest a document",
		Long:  "Uploads a text file (or stdin) for chunking and indexing.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runIngest(cmd, path, filename, outputJSON)
		},
	}

	cmd.Flags().StringVar(&filename, "filename", "", "Filename to record (defaults to the file's base name)")

	return cmd
}

func runIngest(cmd *cobra.Command, path, filename string, outputJSON bool) error {
	var content []byte
	var err error

	if path == "" || path == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		if filename == "" {
			filename = "stdin.txt"
		}
	} else {
		content, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		if filename == "" {
			filename = filepath.Base(path)
		}
	}

	if len(content) == 0 {
		return fmt.Errorf("document content is empty")
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := IngestRequest{
		Filename: filename,
		Content:  string(content),
	}

	resp, err := api.Post("/documents", req)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	var ingestResp IngestResponse
	if err := json.Unmarshal(resp.Data, &ingestResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(ingestResp, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Ingested %s (%d bytes)\n", ingestResp.Document.Filename, ingestResp.Document.SizeBytes)
		fmt.Printf("  ID:     %s\n", ingestResp.Document.ID)
		fmt.Printf("  Status: %s\n", ingestResp.Document.Status)
		fmt.Printf("  Chunks: %d\n", ingestResp.ChunksCreated)
	}

	return nil
}
