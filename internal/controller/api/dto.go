package api

import (
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
)

type CreateBookingRequest struct {
	ExhibitionID int64  `json:"exhibition_id" binding:"required,gt=0"`
	BookingDate  string `json:"booking_date" binding:"required"`
	BookingTime  string `json:"booking_time" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
}

type AvailabilityQuery struct {
	ExhibitionID int64  `form:"exhibition_id" binding:"required,gt=0"`
	Date         string `form:"date" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RescheduleRequest struct {
	BookingDate string `json:"booking_date" binding:"required"`
	BookingTime string `json:"booking_time" binding:"required"`
}

type AdminBookingsQuery struct {
	DateFrom     string `form:"date_from"`
	DateTo       string `form:"date_to"`
	ExhibitionID string `form:"exhibition_id"`
	Status       string `form:"status"`
}

// BookingResponse бронирование в формате API: даты как YYYY-MM-DD
type BookingResponse struct {
	ID             int64               `json:"id"`
	ExhibitionID   int64               `json:"exhibition_id"`
	ExhibitionName string              `json:"exhibition_name,omitempty"`
	Price          *int                `json:"price,omitempty"`
	BookingDate    string              `json:"booking_date"`
	BookingTime    string              `json:"booking_time"`
	Status         model.BookingStatus `json:"status"`
	CanCancel      bool                `json:"can_cancel"`
	Phone          string              `json:"phone"`
	CreatedAt      string              `json:"created_at"`

	// Поля гостя заполняются в административных ответах
	TelegramID *int64  `json:"telegram_id,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	Username   *string `json:"username,omitempty"`
}

func toBookingResponse(b *model.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		ExhibitionID: b.ExhibitionID,
		BookingDate:  b.BookingDate.Format(model.DateLayout),
		BookingTime:  b.BookingTime,
		Status:       b.Status,
		CanCancel:    b.Status.CancellableByOwner(),
		Phone:        b.Phone,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingViewResponse(v *model.BookingView, withGuest bool) BookingResponse {
	resp := toBookingResponse(&v.Booking)
	resp.ExhibitionName = v.ExhibitionName
	price := v.ExhibitionPrice
	resp.Price = &price

	if withGuest {
		resp.TelegramID = &v.TelegramID
		resp.FirstName = &v.FirstName
		resp.Username = &v.Username
	}
	return resp
}

func toBookingViewResponses(views []*model.BookingView, withGuest bool) []BookingResponse {
	out := make([]BookingResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toBookingViewResponse(v, withGuest))
	}
	return out
}

// BookingEventResponse запись журнала изменений
type BookingEventResponse struct {
	ID              int64                `json:"id"`
	BookingID       int64                `json:"booking_id"`
	ActorTelegramID int64                `json:"actor_telegram_id"`
	Action          model.BookingAction  `json:"action"`
	FromStatus      *model.BookingStatus `json:"from_status,omitempty"`
	ToStatus        *model.BookingStatus `json:"to_status,omitempty"`
	FromDate        *string              `json:"from_date,omitempty"`
	FromTime        *string              `json:"from_time,omitempty"`
	ToDate          *string              `json:"to_date,omitempty"`
	ToTime          *string              `json:"to_time,omitempty"`
	CreatedAt       string               `json:"created_at"`
}

func toBookingEventResponses(events []*model.BookingEvent) []BookingEventResponse {
	out := make([]BookingEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, BookingEventResponse{
			ID:              e.ID,
			BookingID:       e.BookingID,
			ActorTelegramID: e.ActorTelegramID,
			Action:          e.Action,
			FromStatus:      e.FromStatus,
			ToStatus:        e.ToStatus,
			FromDate:        formatOptionalDate(e.FromDate),
			FromTime:        e.FromTime,
			ToDate:          formatOptionalDate(e.ToDate),
			ToTime:          e.ToTime,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

func formatOptionalDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(model.DateLayout)
	return &s
}
