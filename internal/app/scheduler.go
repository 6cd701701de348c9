package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/service"
	"go.uber.org/zap"
)

// ReminderSender выполняет один прогон напоминаний
type ReminderSender interface {
	SendReminders(ctx context.Context, runAt time.Time) (service.SweepResult, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	reminders ReminderSender
	hour      int
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler создаёт новый планировщик напоминаний, который срабатывает
// ежедневно в hour:00 по часовому поясу площадки
func NewScheduler(reminders ReminderSender, hour int, location *time.Location, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		hour:      hour,
		location:  location,
		logger:    logger,
		now:       time.Now,
	}
}

// Run выполняет задачу напоминаний до отмены контекста.
// Если сервис стартовал после времени рассылки, прогон выполняется сразу:
// захват напоминаний идемпотентен, поэтому повтор за день ничего не дублирует.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Starting reminder scheduler",
		zap.Int("hour", s.hour),
		zap.String("timezone", s.location.String()),
	)

	now := s.now()
	if !now.In(s.location).Before(todayAt(now, s.hour, s.location)) {
		s.sendReminders(ctx)
	}

	for {
		now := s.now()
		timer := time.NewTimer(NextRun(now, s.hour, s.location).Sub(now))

		select {
		case <-timer.C:
			s.sendReminders(ctx)
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Reminder task cancelled")
			return nil
		}
	}
}

func (s *Scheduler) sendReminders(ctx context.Context) {
	result, err := s.reminders.SendReminders(ctx, s.now())
	if err != nil {
		s.logger.Error("Failed to send reminders", zap.Error(err))
		return
	}

	s.logger.Info("Reminders processed",
		zap.Int("claimed", result.Claimed),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)
}

// NextRun возвращает ближайший момент hour:00 в зоне loc строго после now
func NextRun(now time.Time, hour int, loc *time.Location) time.Time {
	next := todayAt(now, hour, loc)
	if !next.After(now) {
		local := now.In(loc)
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}

func todayAt(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
}
