package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
)

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatDateLong форматирует дату с днём недели: "понедельник, 10 июня"
func FormatDateLong(t time.Time) string {
	return fmt.Sprintf("%s, %d %s", GetWeekdayName(int(t.Weekday())), t.Day(), GetMonthGenitive(t.Month()))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// GetWeekdayName возвращает название дня недели на русском
func GetWeekdayName(weekday int) string {
	names := []string{
		"воскресенье",
		"понедельник",
		"вторник",
		"среда",
		"четверг",
		"пятница",
		"суббота",
	}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "неизвестно"
}

// GetMonthGenitive возвращает название месяца в родительном падеже
func GetMonthGenitive(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "января",
		time.February:  "февраля",
		time.March:     "марта",
		time.April:     "апреля",
		time.May:       "мая",
		time.June:      "июня",
		time.July:      "июля",
		time.August:    "августа",
		time.September: "сентября",
		time.October:   "октября",
		time.November:  "ноября",
		time.December:  "декабря",
	}
	return names[month]
}

// ScheduleText описывает дни работы выставки: "ежедневно" или перечень дней
func ScheduleText(e *model.Exhibition) string {
	if e.OperatesDaily() {
		return "ежедневно"
	}

	seen := make(map[int]bool, len(e.ScheduleDays))
	names := make([]string, 0, len(e.ScheduleDays))
	for _, d := range e.ScheduleDays {
		if seen[d] {
			continue
		}
		seen[d] = true
		names = append(names, GetWeekdayName(d))
	}
	return strings.Join(names, ", ")
}
