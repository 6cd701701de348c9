package model

import "time"

type Exhibition struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           int       `json:"price"`         // в рублях
	Capacity        int       `json:"capacity"`      // максимум гостей в одном слоте
	ScheduleDays    []int     `json:"schedule_days"` // 0 = Sunday, 6 = Saturday
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// OperatesOn проверяет, работает ли выставка в указанный день недели
func (e *Exhibition) OperatesOn(weekday time.Weekday) bool {
	for _, d := range e.ScheduleDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// OperatesDaily сообщает, что выставка открыта все семь дней
func (e *Exhibition) OperatesDaily() bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if !e.OperatesOn(d) {
			return false
		}
	}
	return true
}

// ExhibitionView выставка с текстовым описанием расписания
type ExhibitionView struct {
	Exhibition
	ScheduleText string `json:"schedule_text"`
}
