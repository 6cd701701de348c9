package api

import (
	"context"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) List(ctx context.Context) ([]*model.ExhibitionView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ExhibitionView), args.Error(1)
}

func (m *MockCatalog) Get(ctx context.Context, id int64) (*model.ExhibitionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExhibitionView), args.Error(1)
}

type MockAvailability struct{ mock.Mock }

func (m *MockAvailability) Availability(ctx context.Context, exhibitionID int64, date string) (*model.DayAvailability, error) {
	args := m.Called(ctx, exhibitionID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DayAvailability), args.Error(1)
}

type MockBookings struct{ mock.Mock }

func (m *MockBookings) Create(ctx context.Context, identity model.Identity, in service.CreateBookingInput) (*model.BookingView, error) {
	args := m.Called(ctx, identity, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingView), args.Error(1)
}

func (m *MockBookings) CancelOwn(ctx context.Context, identity model.Identity, bookingID int64) (*model.Booking, error) {
	args := m.Called(ctx, identity, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookings) ListMine(ctx context.Context, telegramID int64) ([]*model.BookingView, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BookingView), args.Error(1)
}

func (m *MockBookings) Reschedule(ctx context.Context, actorTelegramID, bookingID int64, date, slotTime string) (*model.Booking, error) {
	args := m.Called(ctx, actorTelegramID, bookingID, date, slotTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookings) SetStatus(ctx context.Context, actorTelegramID, bookingID int64, status string) (*model.Booking, error) {
	args := m.Called(ctx, actorTelegramID, bookingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookings) Delete(ctx context.Context, actorTelegramID, bookingID int64) error {
	return m.Called(ctx, actorTelegramID, bookingID).Error(0)
}

type MockUsers struct{ mock.Mock }

func (m *MockUsers) Register(ctx context.Context, identity model.Identity) (*model.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsers) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockAdmin struct{ mock.Mock }

func (m *MockAdmin) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	args := m.Called(ctx, telegramID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdmin) List(ctx context.Context, q service.BookingListQuery) ([]*model.BookingView, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BookingView), args.Error(1)
}

func (m *MockAdmin) Get(ctx context.Context, bookingID int64) (*model.BookingView, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingView), args.Error(1)
}

func (m *MockAdmin) History(ctx context.Context, bookingID int64) ([]*model.BookingEvent, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BookingEvent), args.Error(1)
}

func (m *MockAdmin) Stats(ctx context.Context) (*model.BookingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingStats), args.Error(1)
}
