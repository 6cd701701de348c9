package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/notification"
	"github.com/Freeeeeet/gallery_booking/internal/repository/base"
	"go.uber.org/zap"
)

const recentBookingsLimit = 5

var phonePattern = regexp.MustCompile(`^\+7\d{10}$`)

// CreateBookingInput данные новой записи
type CreateBookingInput struct {
	ExhibitionID int64
	Date         string
	Time         string
	Phone        string
}

// BookingService выдаёт места в сеансах и меняет состояние бронирований.
// Все проверки вместимости выполняются под блокировкой слота внутри транзакции.
type BookingService struct {
	tx          Transactor
	users       UserStore
	exhibitions ExhibitionStore
	bookings    BookingStore
	events      BookingEventStore
	notifier    notification.Notifier
	queue       TaskQueue
	txTimeout   time.Duration
	logger      *zap.Logger
}

func NewBookingService(
	tx Transactor,
	users UserStore,
	exhibitions ExhibitionStore,
	bookings BookingStore,
	events BookingEventStore,
	notifier notification.Notifier,
	queue TaskQueue,
	txTimeout time.Duration,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:          tx,
		users:       users,
		exhibitions: exhibitions,
		bookings:    bookings,
		events:      events,
		notifier:    notifier,
		queue:       queue,
		txTimeout:   txTimeout,
		logger:      logger,
	}
}

// Create бронирует место в сеансе для пользователя
func (s *BookingService) Create(ctx context.Context, identity model.Identity, in CreateBookingInput) (*model.BookingView, error) {
	phone := strings.TrimSpace(in.Phone)
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	date, err := model.ParseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: booking_date must be YYYY-MM-DD", ErrValidation)
	}

	if !model.IsTimeSlot(in.Time) {
		return nil, fmt.Errorf("%w: booking_time must be one of %s", ErrValidation, strings.Join(model.TimeSlots, ", "))
	}

	var (
		booking    *model.Booking
		exhibition *model.Exhibition
	)

	err = s.withinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.Upsert(ctx, identity, &phone)
		if err != nil {
			return err
		}

		exhibition, err = s.exhibitions.GetActiveByID(ctx, in.ExhibitionID)
		if err != nil {
			return fmt.Errorf("get exhibition: %w", err)
		}
		if exhibition == nil {
			return ErrExhibitionNotFound
		}

		if !exhibition.OperatesOn(date.Weekday()) {
			return ErrNotOperatingDay
		}

		booking = &model.Booking{
			UserID:       user.ID,
			ExhibitionID: exhibition.ID,
			BookingDate:  date,
			BookingTime:  in.Time,
			Status:       model.BookingStatusConfirmed,
			Phone:        phone,
		}
		if err := s.ensureCapacity(ctx, exhibition, booking.Slot(), 0); err != nil {
			return err
		}

		if err := s.bookings.Create(ctx, booking); err != nil {
			return err
		}

		status := booking.Status
		return s.events.Create(ctx, &model.BookingEvent{
			BookingID:       booking.ID,
			ActorTelegramID: identity.TelegramID,
			Action:          model.BookingActionCreated,
			ToStatus:        &status,
			ToDate:          &date,
			ToTime:          &booking.BookingTime,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("telegram_id", identity.TelegramID),
		zap.Int64("exhibition_id", exhibition.ID),
		zap.String("date", in.Date),
		zap.String("time", in.Time),
	)

	s.enqueueConfirmation(identity.TelegramID, notification.Details{
		ExhibitionName: exhibition.Name,
		Date:           booking.BookingDate,
		Time:           booking.BookingTime,
	})

	return &model.BookingView{
		Booking:         *booking,
		ExhibitionName:  exhibition.Name,
		ExhibitionPrice: exhibition.Price,
	}, nil
}

// Reschedule переносит бронирование на другую дату и время (оператор)
func (s *BookingService) Reschedule(ctx context.Context, actorTelegramID, bookingID int64, date, slotTime string) (*model.Booking, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: booking_date must be YYYY-MM-DD", ErrValidation)
	}
	if !model.IsTimeSlot(slotTime) {
		return nil, fmt.Errorf("%w: booking_time must be one of %s", ErrValidation, strings.Join(model.TimeSlots, ", "))
	}

	var updated *model.Booking

	err = s.withinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrBookingNotFound
		}

		exhibition, err := s.exhibitions.GetByID(ctx, current.ExhibitionID)
		if err != nil {
			return fmt.Errorf("get exhibition: %w", err)
		}
		if exhibition == nil {
			return ErrExhibitionNotFound
		}

		if !exhibition.OperatesOn(day.Weekday()) {
			return ErrNotOperatingDay
		}

		key := model.SlotKey{ExhibitionID: exhibition.ID, Date: day, Time: slotTime}
		if err := s.ensureCapacity(ctx, exhibition, key, current.ID); err != nil {
			return err
		}

		updated, err = s.bookings.UpdateSchedule(ctx, bookingID, day, slotTime)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrBookingNotFound
		}

		return s.events.Create(ctx, &model.BookingEvent{
			BookingID:       bookingID,
			ActorTelegramID: actorTelegramID,
			Action:          model.BookingActionRescheduled,
			FromDate:        &current.BookingDate,
			FromTime:        &current.BookingTime,
			ToDate:          &updated.BookingDate,
			ToTime:          &updated.BookingTime,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking rescheduled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("actor", actorTelegramID),
		zap.String("date", date),
		zap.String("time", slotTime),
	)

	return updated, nil
}

// CancelOwn отменяет бронирование его владельцем
func (s *BookingService) CancelOwn(ctx context.Context, identity model.Identity, bookingID int64) (*model.Booking, error) {
	user, err := s.users.GetByTelegramID(ctx, identity.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotCancellable
	}

	var cancelled *model.Booking

	err = s.withinTransaction(ctx, func(ctx context.Context) error {
		cancelled, err = s.bookings.CancelByOwner(ctx, bookingID, user.ID)
		if err != nil {
			return err
		}
		if cancelled == nil {
			return ErrNotCancellable
		}

		status := model.BookingStatusCancelled
		return s.events.Create(ctx, &model.BookingEvent{
			BookingID:       bookingID,
			ActorTelegramID: identity.TelegramID,
			Action:          model.BookingActionCancelled,
			ToStatus:        &status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking cancelled by owner",
		zap.Int64("booking_id", bookingID),
		zap.Int64("telegram_id", identity.TelegramID),
	)

	return cancelled, nil
}

// SetStatus устанавливает статус бронирования (оператор). Переходы не ограничены.
func (s *BookingService) SetStatus(ctx context.Context, actorTelegramID, bookingID int64, status string) (*model.Booking, error) {
	next := model.BookingStatus(status)
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	var updated *model.Booking

	err := s.withinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrBookingNotFound
		}

		updated, err = s.bookings.UpdateStatus(ctx, bookingID, next)
		if err != nil {
			return err
		}
		if updated == nil {
			return ErrBookingNotFound
		}

		return s.events.Create(ctx, &model.BookingEvent{
			BookingID:       bookingID,
			ActorTelegramID: actorTelegramID,
			Action:          model.BookingActionStatusChanged,
			FromStatus:      &current.Status,
			ToStatus:        &next,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking status changed",
		zap.Int64("booking_id", bookingID),
		zap.Int64("actor", actorTelegramID),
		zap.String("status", status),
	)

	return updated, nil
}

// Delete удаляет бронирование (оператор). История изменений сохраняется.
func (s *BookingService) Delete(ctx context.Context, actorTelegramID, bookingID int64) error {
	err := s.withinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.bookings.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrBookingNotFound
		}

		deleted, err := s.bookings.Delete(ctx, bookingID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrBookingNotFound
		}

		return s.events.Create(ctx, &model.BookingEvent{
			BookingID:       bookingID,
			ActorTelegramID: actorTelegramID,
			Action:          model.BookingActionDeleted,
			FromStatus:      &current.Status,
			FromDate:        &current.BookingDate,
			FromTime:        &current.BookingTime,
		})
	})
	if err != nil {
		return err
	}

	s.logger.Info("Booking deleted",
		zap.Int64("booking_id", bookingID),
		zap.Int64("actor", actorTelegramID),
	)

	return nil
}

// ListMine получает все бронирования пользователя, самые поздние первыми
func (s *BookingService) ListMine(ctx context.Context, telegramID int64) ([]*model.BookingView, error) {
	bookings, err := s.bookings.ListByTelegramID(ctx, telegramID, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return bookings, nil
}

// ListRecent получает последние подтверждённые и завершённые бронирования для бота
func (s *BookingService) ListRecent(ctx context.Context, telegramID int64) ([]*model.BookingView, error) {
	statuses := []model.BookingStatus{model.BookingStatusConfirmed, model.BookingStatusCompleted}
	bookings, err := s.bookings.ListByTelegramID(ctx, telegramID, statuses, recentBookingsLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent bookings: %w", err)
	}
	return bookings, nil
}

// ensureCapacity блокирует слот и проверяет что в нём есть место.
// Блокировка держится до конца транзакции, поэтому следующая проверка
// того же слота увидит уже закоммиченную запись.
func (s *BookingService) ensureCapacity(ctx context.Context, exhibition *model.Exhibition, key model.SlotKey, excludeID int64) error {
	if err := s.bookings.LockSlot(ctx, key); err != nil {
		return err
	}

	booked, err := s.bookings.CountActiveInSlot(ctx, key, excludeID)
	if err != nil {
		return err
	}

	if booked >= exhibition.Capacity {
		return ErrSlotFull
	}
	return nil
}

func (s *BookingService) withinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	err := s.tx.WithinTransaction(ctx, fn)
	if err != nil && base.IsConcurrencyConflict(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func (s *BookingService) enqueueConfirmation(telegramID int64, details notification.Details) {
	s.queue.Enqueue("booking confirmation", func(ctx context.Context) error {
		return s.notifier.NotifyConfirmed(ctx, telegramID, details)
	})
}
