package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/clearnote-ai/clearnoteai/internal/api"
	"github.com/clearnote-ai/clearnoteai/internal/service"
)

type QueryService interface {
	Query(ctx context.Context, input service.QueryInput) (*service.QueryOutput, error)
}

type QueryHandler struct {
	svc QueryService
}

func NewQueryHandler(svc QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type QueryRequest struct {
	Query          string   `json:"query"`
	TopK           int      `json:"top_k,omitempty"`
	ScoreThreshold *float32 `json:"score_threshold,omitempty"`
	IncludeSummary bool     `json:"include_summary,omitempty"`
	MaxSentences   int      `json:"max_sentences,omitempty"`
}

type QueryResultResponse struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

type QueryResponse struct {
	Results    []*QueryResultResponse `json:"results"`
	Summary    string                 `json:"summary,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
}

func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	input := service.QueryInput{
		Query:          req.Query,
		TopK:           req.TopK,
		ScoreThreshold: req.ScoreThreshold,
		IncludeSummary: req.IncludeSummary,
		MaxSentences:   req.MaxSentences,
	}

	output, err := h.svc.Query(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*QueryResultResponse, len(output.Results))
	for i, result := range output.Results {
		responses[i] = &QueryResultResponse{
			ChunkID:    result.ChunkID,
			DocumentID: result.DocumentID,
			ChunkIndex: result.ChunkIndex,
			Text:       result.Text,
			Score:      result.Score,
		}
	}

	api.Success(w, http.StatusOK, QueryResponse{
		Results:    responses,
		Summary:    output.Summary,
		DurationMS: output.DurationMS,
	})
}
