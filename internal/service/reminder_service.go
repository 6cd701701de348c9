package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/notification"
	"go.uber.org/zap"
)

// SweepResult итог одного прогона напоминаний
type SweepResult struct {
	Claimed int
	Sent    int
	Failed  int
}

// ReminderService рассылает напоминания о завтрашних визитах
type ReminderService struct {
	bookings BookingStore
	notifier notification.Notifier
	location *time.Location
	logger   *zap.Logger
}

func NewReminderService(bookings BookingStore, notifier notification.Notifier, location *time.Location, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		bookings: bookings,
		notifier: notifier,
		location: location,
		logger:   logger,
	}
}

// SendReminders захватывает подтверждённые бронирования на следующий день после runAt
// и отправляет по ним напоминания. Захват атомарный, поэтому повторный прогон
// за тот же день ничего не отправит повторно.
func (s *ReminderService) SendReminders(ctx context.Context, runAt time.Time) (SweepResult, error) {
	var result SweepResult

	target := model.CalendarDate(runAt, s.location).AddDate(0, 0, 1)

	due, err := s.bookings.ClaimDueReminders(ctx, target)
	if err != nil {
		return result, fmt.Errorf("claim reminders: %w", err)
	}
	result.Claimed = len(due)

	for _, r := range due {
		err := s.notifier.NotifyReminder(ctx, r.TelegramID, notification.Details{
			ExhibitionName: r.ExhibitionName,
			Date:           r.BookingDate,
			Time:           r.BookingTime,
		})
		if err != nil {
			result.Failed++
			s.logger.Error("Failed to send reminder",
				zap.Int64("booking_id", r.BookingID),
				zap.Int64("telegram_id", r.TelegramID),
				zap.Error(err),
			)
			continue
		}
		result.Sent++
	}

	s.logger.Info("Reminder sweep finished",
		zap.String("target_date", target.Format(model.DateLayout)),
		zap.Int("claimed", result.Claimed),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
