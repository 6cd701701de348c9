package model

import (
	"fmt"
	"time"
)

// DateLayout формат даты бронирования во всех внешних интерфейсах
const DateLayout = "2006-01-02"

// TimeSlots фиксированная дневная сетка сеансов
var TimeSlots = []string{"12:00", "13:00", "14:00", "15:00", "16:00", "17:00", "18:00", "19:00", "20:00"}

// IsTimeSlot проверяет что время входит в сетку сеансов
func IsTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// ParseDate разбирает календарную дату YYYY-MM-DD (полночь UTC)
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// SlotKey единица учёта вместимости: (выставка, дата, время)
type SlotKey struct {
	ExhibitionID int64
	Date         time.Time
	Time         string
}

// LockKey строковый ключ для сериализации операций над слотом
func (k SlotKey) LockKey() string {
	return fmt.Sprintf("slot:%d:%s:%s", k.ExhibitionID, k.Date.Format(DateLayout), k.Time)
}

// SlotAvailability загрузка одного сеанса
type SlotAvailability struct {
	Time        string `json:"time"`
	Capacity    int    `json:"capacity"`
	Booked      int    `json:"booked"`
	Available   int    `json:"available"`
	IsAvailable bool   `json:"is_available"`
}

// DayAvailability загрузка всех сеансов выставки на дату
type DayAvailability struct {
	ExhibitionID int64              `json:"exhibition_id"`
	Date         string             `json:"date"`
	Operating    bool               `json:"operating"`
	Message      string             `json:"message,omitempty"`
	Slots        []SlotAvailability `json:"slots"`
}

// CalendarDate возвращает календарную дату момента t в зоне loc как полночь UTC,
// в том же виде, в котором даты приходят из ParseDate и из колонки DATE.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
