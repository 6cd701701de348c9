package model

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено (начальный статус)
	BookingStatusCompleted BookingStatus = "completed" // Посещение состоялось
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
	BookingStatusNoShow    BookingStatus = "no_show"   // Гость не пришёл
)

// BookingStatuses перечисляет все допустимые статусы в каноническом порядке
var BookingStatuses = []BookingStatus{
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
	BookingStatusNoShow,
}

// Valid проверяет что статус входит в допустимый набор
func (s BookingStatus) Valid() bool {
	for _, st := range BookingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// CancellableByOwner сообщает, может ли владелец сам отменить бронирование
func (s BookingStatus) CancellableByOwner() bool {
	return s != BookingStatusCancelled && s != BookingStatusCompleted
}

type Booking struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	ExhibitionID int64         `json:"exhibition_id"`
	BookingDate  time.Time     `json:"booking_date"`
	BookingTime  string        `json:"booking_time"` // "HH:MM", один из TimeSlots
	Status       BookingStatus `json:"status"`
	Phone        string        `json:"phone"`
	RemindedAt   *time.Time    `json:"reminded_at"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Slot возвращает ключ слота, который занимает бронирование
func (b *Booking) Slot() SlotKey {
	return SlotKey{ExhibitionID: b.ExhibitionID, Date: b.BookingDate, Time: b.BookingTime}
}

// BookingView бронирование вместе с полями выставки и пользователя для выдачи
type BookingView struct {
	Booking

	ExhibitionName  string `json:"exhibition_name"`
	ExhibitionPrice int    `json:"price"`

	// Заполняются только в административных выборках
	TelegramID int64   `json:"telegram_id,omitempty"`
	FirstName  string  `json:"first_name,omitempty"`
	Username   string  `json:"username,omitempty"`
	UserPhone  *string `json:"user_phone,omitempty"`
}

// BookingFilter фильтр административного списка бронирований
type BookingFilter struct {
	DateFrom     *time.Time
	DateTo       *time.Time
	ExhibitionID *int64
	Status       *BookingStatus
}

// BookingStats агрегированные счётчики для панели оператора
type BookingStats struct {
	TodayBookings  int64 `json:"today_bookings"`
	TodayConfirmed int64 `json:"today_confirmed"`
	UpcomingTotal  int64 `json:"upcoming_total"`
	TotalCompleted int64 `json:"total_completed"`
}

// ReminderTarget бронирование, для которого захвачено право отправить напоминание
type ReminderTarget struct {
	BookingID      int64
	TelegramID     int64
	ExhibitionName string
	BookingDate    time.Time
	BookingTime    string
}
