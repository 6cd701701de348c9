package api

import (
	"net/http"

	"github.com/Freeeeeet/gallery_booking/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListExhibitions(c *gin.Context) {
	exhibitions, err := h.catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, exhibitions)
}

func (h *Handler) GetExhibition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	exhibition, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, exhibition)
}
