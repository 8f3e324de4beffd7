package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pustakalab/pustaka-be/middleware"
	"github.com/pustakalab/pustaka-be/service"
	"github.com/pustakalab/pustaka-be/types"
)

type SubmissionHandler struct {
	curation *service.CurationService
}

func NewSubmissionHandler(curation *service.CurationService) *SubmissionHandler {
	return &SubmissionHandler{curation: curation}
}

// HandleSubmit records a contributor submission as pending.
func (h *SubmissionHandler) HandleSubmit(c *gin.Context) {
	var req types.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.curation.Submit(c.Request.Context(), &req, middleware.UserID(c))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, sub)
}

// HandleList returns submissions, optionally filtered by ?status=.
func (h *SubmissionHandler) HandleList(c *gin.Context) {
	status := types.SubmissionStatus(c.Query("status"))
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sendErrorMessage(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	subs, err := h.curation.List(c.Request.Context(), status, limit)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, subs)
}

// HandleGet returns one submission by ID.
func (h *SubmissionHandler) HandleGet(c *gin.Context) {
	sub, err := h.curation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, sub)
}

// HandleApprove approves a pending submission and ingests it synchronously.
// By the time this returns 200 the document is searchable.
func (h *SubmissionHandler) HandleApprove(c *gin.Context) {
	var action types.CuratorAction
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&action); err != nil {
			sendErrorMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	sub, err := h.curation.Approve(c.Request.Context(), c.Param("id"), middleware.UserID(c), &action)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, sub)
}

// HandleReject rejects a pending submission.
func (h *SubmissionHandler) HandleReject(c *gin.Context) {
	var action types.CuratorAction
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&action); err != nil {
			sendErrorMessage(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	sub, err := h.curation.Reject(c.Request.Context(), c.Param("id"), middleware.UserID(c), &action)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, sub)
}
