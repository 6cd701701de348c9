package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"go.uber.org/zap"
)

// BookingListQuery параметры административного списка в виде строк из запроса
type BookingListQuery struct {
	DateFrom     string
	DateTo       string
	ExhibitionID string
	Status       string
}

// AdminService операторские выборки и реестр администраторов
type AdminService struct {
	bookings BookingStore
	events   BookingEventStore
	admins   AdminStore
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewAdminService(
	bookings BookingStore,
	events BookingEventStore,
	admins AdminStore,
	location *time.Location,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		bookings: bookings,
		events:   events,
		admins:   admins,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// IsAdmin проверяет что пользователь есть в реестре операторов
func (s *AdminService) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	admin, err := s.admins.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("get admin: %w", err)
	}
	return admin != nil, nil
}

// EnsureAdmins добавляет операторов из конфигурации, существующие не трогает
func (s *AdminService) EnsureAdmins(ctx context.Context, telegramIDs []int64) error {
	if len(telegramIDs) == 0 {
		return nil
	}

	added, err := s.admins.Ensure(ctx, telegramIDs)
	if err != nil {
		return fmt.Errorf("ensure admins: %w", err)
	}

	s.logger.Info("Admins ensured",
		zap.Int("configured", len(telegramIDs)),
		zap.Int64("added", added),
	)
	return nil
}

// List возвращает бронирования по фильтру в хронологическом порядке
func (s *AdminService) List(ctx context.Context, q BookingListQuery) ([]*model.BookingView, error) {
	filter, err := parseBookingFilter(q)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Get возвращает бронирование с данными гостя и выставки
func (s *AdminService) Get(ctx context.Context, bookingID int64) (*model.BookingView, error) {
	booking, err := s.bookings.GetView(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// History возвращает журнал изменений бронирования, старые записи первыми.
// Для удалённого бронирования журнал остаётся доступен.
func (s *AdminService) History(ctx context.Context, bookingID int64) ([]*model.BookingEvent, error) {
	events, err := s.events.ListByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking events: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrBookingNotFound
	}
	return events, nil
}

// Stats считает счётчики панели оператора относительно сегодняшней даты площадки
func (s *AdminService) Stats(ctx context.Context) (*model.BookingStats, error) {
	today := model.CalendarDate(s.now(), s.location)

	stats, err := s.bookings.Stats(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}

func parseBookingFilter(q BookingListQuery) (model.BookingFilter, error) {
	var filter model.BookingFilter

	if q.DateFrom != "" {
		d, err := model.ParseDate(q.DateFrom)
		if err != nil {
			return filter, fmt.Errorf("%w: date_from must be YYYY-MM-DD", ErrValidation)
		}
		filter.DateFrom = &d
	}

	if q.DateTo != "" {
		d, err := model.ParseDate(q.DateTo)
		if err != nil {
			return filter, fmt.Errorf("%w: date_to must be YYYY-MM-DD", ErrValidation)
		}
		filter.DateTo = &d
	}

	if q.ExhibitionID != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(q.ExhibitionID), 10, 64)
		if err != nil {
			return filter, fmt.Errorf("%w: exhibition_id must be an integer", ErrValidation)
		}
		filter.ExhibitionID = &id
	}

	if q.Status != "" {
		status := model.BookingStatus(q.Status)
		if !status.Valid() {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}
