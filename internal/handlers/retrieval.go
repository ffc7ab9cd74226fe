package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type RetrievalHandler struct {
	log      *logger.Logger
	pipeline services.PipelineService
}

func NewRetrievalHandler(log *logger.Logger, pipeline services.PipelineService) *RetrievalHandler {
	return &RetrievalHandler{
		log:      log.With("handler", "RetrievalHandler"),
		pipeline: pipeline,
	}
}

type retrieveRequest struct {
	Goal string `json:"goal" binding:"required"`
	TopK int    `json:"top_k"`
}

// POST /api/retrieve
func (h *RetrievalHandler) Retrieve(c *gin.Context) {
	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	items, err := h.pipeline.Retrieve(c.Request.Context(), req.Goal, req.TopK)
	if err != nil {
		h.log.Error("Retrieve failed", "goal", req.Goal, "error", err)
		RespondError(c, http.StatusInternalServerError, "retrieve_failed", err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}
