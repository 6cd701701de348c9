package api

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/gallery_booking/internal/pkg/response"
	"github.com/Freeeeeet/gallery_booking/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError переводит ошибку сервиса в HTTP-ответ. Неизвестные ошибки
// логируются целиком, клиент получает общее сообщение.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrSlotFull):
		response.Error(c, http.StatusConflict, "SLOT_FULL", "Это время уже занято. Пожалуйста, выберите другое время.")
	case errors.Is(err, service.ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Booking conflict, please retry")

	case errors.Is(err, service.ErrNotOperatingDay):
		response.Error(c, http.StatusBadRequest, "NOT_OPERATING_DAY", "Выставка не работает в выбранный день")
	case errors.Is(err, service.ErrInvalidPhone):
		response.Error(c, http.StatusBadRequest, "INVALID_PHONE", "Phone must be in format +7XXXXXXXXXX")
	case errors.Is(err, service.ErrInvalidStatus):
		response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be one of: confirmed, completed, cancelled, no_show")
	case errors.Is(err, service.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())

	case errors.Is(err, service.ErrNotCancellable):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found or cannot be cancelled")
	case errors.Is(err, service.ErrExhibitionNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Exhibition not found")
	case errors.Is(err, service.ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not registered")

	default:
		logger.Error("Request failed",
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func badRequest(c *gin.Context, message string) {
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}
