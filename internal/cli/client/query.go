package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// QueryRequest represents the query API request.
type QueryRequest struct {
	Query          string   `json:"query"`
	TopK           int      `json:"top_k,omitempty"`
	ScoreThreshold *float32 `json:"score_threshold,omitempty"`
	IncludeSummary bool     `json:"include_summary,omitempty"`
	MaxSentences   int      `json:"max_sentences,omitempty"`
}

// QueryResult represents a single retrieved chunk.
type QueryResult struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

// QueryResponse represents the query API response.
type QueryResponse struct {
	Results    []QueryResult `json:"results"`
	Summary    string        `json:"summary,omitempty"`
	DurationMS int64         `json:"duration_ms"`
}

// QueryCmd creates the query command.
func QueryCmd() *cobra.Command {
	var (
		topK         int
		threshold    float32
		summary      bool
		maxSentences int
	)

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search indexed documents",
		Long:  "Runs a semantic search over indexed chunks, optionally with an extractive summary.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			var thresholdPtr *float32
			if cmd.Flags().Changed("threshold") {
				thresholdPtr = &threshold
			}
			return runQuery(cmd, args[0], topK, thresholdPtr, summary, maxSentences, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "n", 0, "Maximum number of results")
	cmd.Flags().Float32Var(&threshold, "threshold", 0, "Minimum similarity score")
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Include an extractive summary")
	cmd.Flags().IntVar(&maxSentences, "max-sentences", 0, "Maximum sentences in the summary")

	return cmd
}

func runQuery(cmd *cobra.Command, query string, topK int, threshold *float32, summary bool, maxSentences int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := QueryRequest{
		Query:          query,
		TopK:           topK,
		ScoreThreshold: threshold,
		IncludeSummary: summary,
		MaxSentences:   maxSentences,
	}

	resp, err := api.Post("/query", req)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	var queryResp QueryResponse
	if err := json.Unmarshal(resp.Data, &queryResp); err != nil {
		return fmt.Errorf("failed to parse query results: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(queryResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if queryResp.Summary != "" {
		fmt.Println("Summary:")
		fmt.Printf("  %s\n\n", queryResp.Summary)
	}

	if len(queryResp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results (%dms):\n\n", len(queryResp.Results), queryResp.DurationMS)
	for i, result := range queryResp.Results {
		text := strings.TrimSpace(result.Text)
		if len(text) > 200 {
			text = text[:197] + "..."
		}
		fmt.Printf("%d. [%.2f] %s\n", i+1, result.Score, text)
		fmt.Printf("   document: %s  chunk: %d\n", result.DocumentID, result.ChunkIndex)
		if i < len(queryResp.Results)-1 {
			fmt.Println()
		}
	}

	return nil
}
