package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
	"github.com/yungbote/learnpath-backend/internal/types"
)

type PlanHandler struct {
	log      *logger.Logger
	pipeline services.PipelineService
}

func NewPlanHandler(log *logger.Logger, pipeline services.PipelineService) *PlanHandler {
	return &PlanHandler{
		log:      log.With("handler", "PlanHandler"),
		pipeline: pipeline,
	}
}

type planRequest struct {
	Goal  string             `json:"goal" binding:"required"`
	Items []types.ScoredItem `json:"items"`
}

// POST /api/plan
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	plan, err := h.pipeline.GeneratePlan(c.Request.Context(), req.Goal, req.Items)
	if err != nil {
		h.log.Error("GeneratePlan failed", "goal", req.Goal, "error", err)
		RespondError(c, http.StatusInternalServerError, "plan_failed", err)
		return
	}
	RespondOK(c, plan)
}
