package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gallery_booking/internal/model"
)

const notOperatingMessage = "Выставка не работает в этот день"

// AvailabilityService считает свободные места по сеансам
type AvailabilityService struct {
	exhibitions ExhibitionStore
	bookings    BookingStore
}

func NewAvailabilityService(exhibitions ExhibitionStore, bookings BookingStore) *AvailabilityService {
	return &AvailabilityService{
		exhibitions: exhibitions,
		bookings:    bookings,
	}
}

// Availability возвращает загрузку всех сеансов выставки на дату.
// Результат это снимок на момент запроса и ничего не резервирует.
func (s *AvailabilityService) Availability(ctx context.Context, exhibitionID int64, date string) (*model.DayAvailability, error) {
	day, err := model.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	exhibition, err := s.exhibitions.GetActiveByID(ctx, exhibitionID)
	if err != nil {
		return nil, fmt.Errorf("get exhibition: %w", err)
	}
	if exhibition == nil {
		return nil, ErrExhibitionNotFound
	}

	result := &model.DayAvailability{
		ExhibitionID: exhibitionID,
		Date:         day.Format(model.DateLayout),
		Slots:        []model.SlotAvailability{},
	}

	if !exhibition.OperatesOn(day.Weekday()) {
		result.Message = notOperatingMessage
		return result, nil
	}
	result.Operating = true

	counts, err := s.bookings.CountActiveByTime(ctx, exhibitionID, day)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	for _, slotTime := range model.TimeSlots {
		booked := counts[slotTime]
		available := exhibition.Capacity - booked
		if available < 0 {
			available = 0
		}
		result.Slots = append(result.Slots, model.SlotAvailability{
			Time:        slotTime,
			Capacity:    exhibition.Capacity,
			Booked:      booked,
			Available:   available,
			IsAvailable: booked < exhibition.Capacity,
		})
	}

	return result, nil
}
