package api

import (
	"net/http"

	"github.com/Freeeeeet/gallery_booking/internal/pkg/response"
	"github.com/Freeeeeet/gallery_booking/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) AdminListBookings(c *gin.Context) {
	var q AdminBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Invalid query parameters")
		return
	}

	bookings, err := h.admin.List(c.Request.Context(), service.BookingListQuery{
		DateFrom:     q.DateFrom,
		DateTo:       q.DateTo,
		ExhibitionID: q.ExhibitionID,
		Status:       q.Status,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, toBookingViewResponses(bookings, true))
}

func (h *Handler) AdminGetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	booking, err := h.admin.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, toBookingViewResponse(booking, true))
}

func (h *Handler) AdminBookingHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	events, err := h.admin.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, toBookingEventResponses(events))
}

func (h *Handler) AdminUpdateStatus(c *gin.Context) {
	actor, _ := identityFrom(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	booking, err := h.bookings.SetStatus(c.Request.Context(), actor.TelegramID, id, req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, toBookingResponse(booking))
}

func (h *Handler) AdminReschedule(c *gin.Context) {
	actor, _ := identityFrom(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "booking_date and booking_time are required")
		return
	}

	booking, err := h.bookings.Reschedule(c.Request.Context(), actor.TelegramID, id, req.BookingDate, req.BookingTime)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, toBookingResponse(booking))
}

func (h *Handler) AdminDeleteBooking(c *gin.Context) {
	actor, _ := identityFrom(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), actor.TelegramID, id); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}
