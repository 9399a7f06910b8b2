package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

// DocumentListResponse represents the document list API response.
type DocumentListResponse struct {
	Items      []Document `json:"items"`
	Total      int        `json:"total"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// Chunk represents a chunk returned by the API.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	StartChar  int    `json:"start_char"`
	EndChar    int    `json:"end_char"`
}

// ChunkListResponse represents the chunk list API response.
type ChunkListResponse struct {
	Items []Chunk `json:"items"`
	Total int     `json:"total"`
}

// DocumentsCmd creates the documents command group.
func DocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Manage ingested documents",
	}

	cmd.AddCommand(documentsListCmd())
	cmd.AddCommand(documentsGetCmd())
	cmd.AddCommand(documentsChunksCmd())
	cmd.AddCommand(documentsDeleteCmd())

	return cmd
}

func documentsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			limit, _ := cmd.Flags().GetInt("limit")
			cursor, _ := cmd.Flags().GetString("cursor")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			path := "/documents"
			params := url.Values{}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}
			if cursor != "" {
				params.Set("cursor", cursor)
			}
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			resp, err := api.Get(path)
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			var listResp DocumentListResponse
			if err := json.Unmarshal(resp.Data, &listResp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(listResp, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			if listResp.Total == 0 {
				fmt.Println("No documents.")
				return nil
			}

			for _, doc := range listResp.Items {
				fmt.Printf("%s  %-10s  %4d chunks  %s\n", doc.ID, doc.Status, doc.ChunkCount, doc.Filename)
			}
			if listResp.HasMore {
				fmt.Printf("More available, continue with --cursor %s\n", listResp.NextCursor)
			}
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 0, "Maximum number of documents per page")
	cmd.Flags().String("cursor", "", "Cursor from a previous page")

	return cmd
}

func documentsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/documents/" + args[0])
			if err != nil {
				return fmt.Errorf("get failed: %w", err)
			}

			var doc Document
			if err := json.Unmarshal(resp.Data, &doc); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(doc, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			fmt.Printf("ID:           %s\n", doc.ID)
			fmt.Printf("Filename:     %s\n", doc.Filename)
			fmt.Printf("Content type: %s\n", doc.ContentType)
			fmt.Printf("Size:         %d bytes\n", doc.SizeBytes)
			fmt.Printf("Status:       %s\n", doc.Status)
			fmt.Printf("Chunks:       %d\n", doc.ChunkCount)
			if doc.Error != "" {
				fmt.Printf("Error:        %s\n", doc.Error)
			}
			fmt.Printf("Created:      %s\n", doc.CreatedAt)
			return nil
		},
	}
}

func documentsChunksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chunks <id>",
		Short: "List a document's chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get("/documents/" + args[0] + "/chunks")
			if err != nil {
				return fmt.Errorf("chunks failed: %w", err)
			}

			var chunksResp ChunkListResponse
			if err := json.Unmarshal(resp.Data, &chunksResp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			if outputJSON {
				output, _ := json.MarshalIndent(chunksResp, "", "  ")
				fmt.Println(string(output))
				return nil
			}

			for _, chunk := range chunksResp.Items {
				text := chunk.Text
				if len(text) > 120 {
					text = text[:117] + "..."
				}
				fmt.Printf("[%d] %d-%d: %s\n", chunk.ChunkIndex, chunk.StartChar, chunk.EndChar, text)
			}
			return nil
		},
	}
}

func documentsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document and its chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if _, err := api.Delete("/documents/" + args[0]); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}

			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}
