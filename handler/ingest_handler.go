package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pustakalab/pustaka-be/service"
	"github.com/pustakalab/pustaka-be/types"
)

type IngestHandler struct {
	ingester *service.IngestService
	reindex  *service.ReindexService
}

func NewIngestHandler(ingester *service.IngestService, reindex *service.ReindexService) *IngestHandler {
	return &IngestHandler{ingester: ingester, reindex: reindex}
}

// HandleIngest ingests a document directly, bypassing the submission queue.
// Curator only; used for trusted bulk loads.
func (h *IngestHandler) HandleIngest(c *gin.Context) {
	var req types.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.ingester.Ingest(c.Request.Context(), &req)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, doc)
}

// HandleReconcile sweeps unready documents and repairs their index entries.
func (h *IngestHandler) HandleReconcile(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sendErrorMessage(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	repaired, err := h.reindex.Reconcile(c.Request.Context(), limit)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"repaired": repaired})
}

// HandleRebuild drops the vector index and rebuilds it from the metadata
// store.
func (h *IngestHandler) HandleRebuild(c *gin.Context) {
	rebuilt, err := h.reindex.Rebuild(c.Request.Context())
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"rebuilt": rebuilt})
}
