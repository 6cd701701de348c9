package model

import "time"

type BookingAction string

const (
	BookingActionCreated       BookingAction = "created"
	BookingActionCancelled     BookingAction = "cancelled"
	BookingActionStatusChanged BookingAction = "status_changed"
	BookingActionRescheduled   BookingAction = "rescheduled"
	BookingActionDeleted       BookingAction = "deleted"
)

// BookingEvent запись журнала изменений бронирования
type BookingEvent struct {
	ID              int64          `json:"id"`
	BookingID       int64          `json:"booking_id"`
	ActorTelegramID int64          `json:"actor_telegram_id"`
	Action          BookingAction  `json:"action"`
	FromStatus      *BookingStatus `json:"from_status,omitempty"`
	ToStatus        *BookingStatus `json:"to_status,omitempty"`
	FromDate        *time.Time     `json:"from_date,omitempty"`
	FromTime        *string        `json:"from_time,omitempty"`
	ToDate          *time.Time     `json:"to_date,omitempty"`
	ToTime          *string        `json:"to_time,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}
