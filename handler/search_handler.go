package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pustakalab/pustaka-be/service"
	"github.com/pustakalab/pustaka-be/types"
)

type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// HandleSearch answers a filtered top-k similarity query.
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Limit == 0 {
		req.Limit = 5
	}

	resp, err := h.search.Search(c.Request.Context(), &req)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, resp)
}
