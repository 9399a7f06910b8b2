package handlers

import (
	"context"
	"net/http"

	"github.com/clearnote-ai/clearnoteai/internal/api"
	"github.com/clearnote-ai/clearnoteai/internal/domain"
)

// HealthStatsProvider reports index totals for the health endpoint.
type HealthStatsProvider interface {
	Stats(ctx context.Context) (*domain.IndexStats, error)
}

type HealthHandler struct {
	stats          HealthStatsProvider
	embeddingModel string
}

func NewHealthHandler(stats HealthStatsProvider, embeddingModel string) *HealthHandler {
	return &HealthHandler{stats: stats, embeddingModel: embeddingModel}
}

type HealthResponse struct {
	Status         string `json:"status"`
	EmbeddingModel string `json:"embedding_model"`
	TotalDocuments int64  `json:"total_documents"`
	TotalChunks    int64  `json:"total_chunks"`
}

// Health reports service status with index totals. A stats failure degrades
// the status instead of erroring, so load balancer probes keep passing while
// the database is briefly unavailable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "healthy",
		EmbeddingModel: h.embeddingModel,
	}

	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		resp.Status = "degraded"
	} else {
		resp.TotalDocuments = stats.TotalDocuments
		resp.TotalChunks = stats.TotalChunks
	}

	api.Success(w, http.StatusOK, resp)
}
