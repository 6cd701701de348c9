// Package notification доставляет гостям подтверждения и напоминания о визите.
package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Details данные бронирования, которые попадают в сообщение гостю
type Details struct {
	ExhibitionName string
	Date           time.Time
	Time           string
}

// Notifier канал уведомлений гостя
type Notifier interface {
	NotifyConfirmed(ctx context.Context, telegramID int64, details Details) error
	NotifyReminder(ctx context.Context, telegramID int64, details Details) error
}

// LogNotifier пишет уведомления в лог. Используется, когда бот не настроен.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyConfirmed(_ context.Context, telegramID int64, details Details) error {
	n.logger.Info("Confirmation (bot disabled)",
		zap.Int64("telegram_id", telegramID),
		zap.String("exhibition", details.ExhibitionName),
		zap.Time("date", details.Date),
		zap.String("time", details.Time),
	)
	return nil
}

func (n *LogNotifier) NotifyReminder(_ context.Context, telegramID int64, details Details) error {
	n.logger.Info("Reminder (bot disabled)",
		zap.Int64("telegram_id", telegramID),
		zap.String("exhibition", details.ExhibitionName),
		zap.Time("date", details.Date),
		zap.String("time", details.Time),
	)
	return nil
}
