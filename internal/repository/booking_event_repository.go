package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingEventRepository struct {
	*base.Repository
}

func NewBookingEventRepository(pool *pgxpool.Pool) *BookingEventRepository {
	return &BookingEventRepository{Repository: base.NewRepository(pool)}
}

// Create добавляет запись в журнал изменений бронирования
func (r *BookingEventRepository) Create(ctx context.Context, event *model.BookingEvent) error {
	query := `
		INSERT INTO booking_events (booking_id, actor_telegram_id, action,
			from_status, to_status, from_date, from_time, to_date, to_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		event.BookingID,
		event.ActorTelegramID,
		event.Action,
		event.FromStatus,
		event.ToStatus,
		event.FromDate,
		event.FromTime,
		event.ToDate,
		event.ToTime,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("create booking event: %w", err)
	}

	return nil
}

// ListByBookingID получает историю бронирования, старые записи первыми
func (r *BookingEventRepository) ListByBookingID(ctx context.Context, bookingID int64) ([]*model.BookingEvent, error) {
	query := `
		SELECT id, booking_id, actor_telegram_id, action,
		       from_status, to_status, from_date, from_time, to_date, to_time, created_at
		FROM booking_events
		WHERE booking_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking events: %w", err)
	}
	defer rows.Close()

	events := make([]*model.BookingEvent, 0)
	for rows.Next() {
		var e model.BookingEvent
		err := rows.Scan(
			&e.ID,
			&e.BookingID,
			&e.ActorTelegramID,
			&e.Action,
			&e.FromStatus,
			&e.ToStatus,
			&e.FromDate,
			&e.FromTime,
			&e.ToDate,
			&e.ToTime,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking event: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking events: %w", err)
	}

	return events, nil
}
