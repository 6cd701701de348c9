package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/notification"
)

// Интерфейсы хранилищ, которые нужны сервисам. Реализуются пакетом repository.

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserStore interface {
	Upsert(ctx context.Context, identity model.Identity, phone *string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type ExhibitionStore interface {
	GetActiveByID(ctx context.Context, id int64) (*model.Exhibition, error)
	GetByID(ctx context.Context, id int64) (*model.Exhibition, error)
	ListActive(ctx context.Context) ([]*model.Exhibition, error)
}

type BookingStore interface {
	LockSlot(ctx context.Context, key model.SlotKey) error
	CountActiveInSlot(ctx context.Context, key model.SlotKey, excludeID int64) (int, error)
	CountActiveByTime(ctx context.Context, exhibitionID int64, date time.Time) (map[string]int, error)
	Create(ctx context.Context, booking *model.Booking) error
	GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error)
	UpdateSchedule(ctx context.Context, id int64, date time.Time, slotTime string) (*model.Booking, error)
	CancelByOwner(ctx context.Context, id, userID int64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListByTelegramID(ctx context.Context, telegramID int64, statuses []model.BookingStatus, limit int) ([]*model.BookingView, error)
	ListFiltered(ctx context.Context, filter model.BookingFilter) ([]*model.BookingView, error)
	GetView(ctx context.Context, id int64) (*model.BookingView, error)
	Stats(ctx context.Context, today time.Time) (*model.BookingStats, error)
	ClaimDueReminders(ctx context.Context, date time.Time) ([]model.ReminderTarget, error)
}

type BookingEventStore interface {
	Create(ctx context.Context, event *model.BookingEvent) error
	ListByBookingID(ctx context.Context, bookingID int64) ([]*model.BookingEvent, error)
}

type AdminStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Admin, error)
	Ensure(ctx context.Context, telegramIDs []int64) (int64, error)
}

// TaskQueue очередь фоновых задач (notification.Dispatcher)
type TaskQueue interface {
	Enqueue(name string, task notification.Task) bool
}
