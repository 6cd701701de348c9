package api

import (
	"net/http"

	"github.com/Freeeeeet/gallery_booking/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterUser(c *gin.Context) {
	identity, _ := identityFrom(c)

	user, err := h.users.Register(c.Request.Context(), identity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

func (h *Handler) GetMe(c *gin.Context) {
	identity, _ := identityFrom(c)

	user, err := h.users.GetByTelegramID(c.Request.Context(), identity.TelegramID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
