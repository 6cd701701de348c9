package handlers

import (
	"context"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"go.uber.org/zap"
)

type UserRegistry interface {
	Register(ctx context.Context, identity model.Identity) (*model.User, error)
}

type BookingLister interface {
	ListRecent(ctx context.Context, telegramID int64) ([]*model.BookingView, error)
}

type ExhibitionCatalog interface {
	List(ctx context.Context) ([]*model.ExhibitionView, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	users       UserRegistry
	bookings    BookingLister
	catalog     ExhibitionCatalog
	frontendURL string
	logger      *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	users UserRegistry,
	bookings BookingLister,
	catalog ExhibitionCatalog,
	frontendURL string,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		users:       users,
		bookings:    bookings,
		catalog:     catalog,
		frontendURL: frontendURL,
		logger:      logger,
	}
}
