package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type PipelineHandler struct {
	log      *logger.Logger
	pipeline services.PipelineService
}

func NewPipelineHandler(log *logger.Logger, pipeline services.PipelineService) *PipelineHandler {
	return &PipelineHandler{
		log:      log.With("handler", "PipelineHandler"),
		pipeline: pipeline,
	}
}

type runRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
	Goal    string `json:"goal" binding:"required"`
	TopK    int    `json:"top_k"`
}

// POST /api/pipeline/run
// Runs retrieval, plan generation and credential issuance in one request.
func (h *PipelineHandler) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.pipeline.Run(c.Request.Context(), req.ActorID, req.Goal, req.TopK)
	if err != nil {
		h.log.Error("Pipeline run failed", "goal", req.Goal, "actor", req.ActorID, "error", err)
		RespondError(c, http.StatusInternalServerError, "pipeline_failed", err)
		return
	}
	RespondOK(c, result)
}
