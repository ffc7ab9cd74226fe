package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
	"github.com/yungbote/learnpath-backend/internal/types"
)

type CredentialHandler struct {
	log      *logger.Logger
	pipeline services.PipelineService
}

func NewCredentialHandler(log *logger.Logger, pipeline services.PipelineService) *CredentialHandler {
	return &CredentialHandler{
		log:      log.With("handler", "CredentialHandler"),
		pipeline: pipeline,
	}
}

type issueRequest struct {
	ActorID string           `json:"actor_id" binding:"required"`
	Goal    string           `json:"goal" binding:"required"`
	Path    []types.PlanStep `json:"path" binding:"required"`
}

// POST /api/credentials/issue
func (h *CredentialHandler) Issue(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	issued := h.pipeline.IssueCredential(req.ActorID, req.Goal, req.Path)
	if issued.Signature == types.UnsignedSentinel {
		h.log.Warn("Credential issued unsigned", "actor", req.ActorID)
	}
	RespondOK(c, issued)
}

type verifyRequest struct {
	Credential types.Credential `json:"credential" binding:"required"`
	Signature  string           `json:"signature" binding:"required"`
}

type verifyResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// POST /api/credentials/verify
func (h *CredentialHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	valid, reason := h.pipeline.VerifyCredential(req.Credential, req.Signature)
	RespondOK(c, verifyResponse{Valid: valid, Reason: reason})
}
