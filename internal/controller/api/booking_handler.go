package api

import (
	"net/http"

	"github.com/Freeeeeet/gallery_booking/internal/pkg/response"
	"github.com/Freeeeeet/gallery_booking/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetAvailability(c *gin.Context) {
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "exhibition_id and date are required")
		return
	}

	day, err := h.availability.Availability(c.Request.Context(), q.ExhibitionID, q.Date)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, day)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	identity, _ := identityFrom(c)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "exhibition_id, booking_date, booking_time, and phone are required")
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), identity, service.CreateBookingInput{
		ExhibitionID: req.ExhibitionID,
		Date:         req.BookingDate,
		Time:         req.BookingTime,
		Phone:        req.Phone,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusCreated, toBookingViewResponse(booking, false))
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	identity, _ := identityFrom(c)

	bookings, err := h.bookings.ListMine(c.Request.Context(), identity.TelegramID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, toBookingViewResponses(bookings, false))
}

func (h *Handler) CancelBooking(c *gin.Context) {
	identity, _ := identityFrom(c)

	id, ok := pathID(c)
	if !ok {
		return
	}

	booking, err := h.bookings.CancelOwn(c.Request.Context(), identity, id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, toBookingResponse(booking))
}
