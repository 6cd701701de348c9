package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `b.id, b.user_id, b.exhibition_id, b.booking_date, b.booking_time, b.status, b.phone, b.reminded_at, b.created_at, b.updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// LockSlot берёт транзакционную advisory-блокировку слота.
// Блокировка держится до COMMIT/ROLLBACK, поэтому вызывать только внутри транзакции.
func (r *BookingRepository) LockSlot(ctx context.Context, key model.SlotKey) error {
	_, err := r.Conn(ctx).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key.LockKey())
	if err != nil {
		return fmt.Errorf("lock slot %s: %w", key.LockKey(), err)
	}
	return nil
}

// CountActiveInSlot считает неотменённые бронирования слота, не учитывая excludeID
func (r *BookingRepository) CountActiveInSlot(ctx context.Context, key model.SlotKey, excludeID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE exhibition_id = $1 AND booking_date = $2 AND booking_time = $3
		  AND status <> 'cancelled' AND id <> $4
	`

	var count int
	if err := r.QueryRow(ctx, query, key.ExhibitionID, key.Date, key.Time, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count slot bookings: %w", err)
	}

	return count, nil
}

// CountActiveByTime возвращает число неотменённых бронирований по времени сеанса на дату
func (r *BookingRepository) CountActiveByTime(ctx context.Context, exhibitionID int64, date time.Time) (map[string]int, error) {
	query := `
		SELECT booking_time, COUNT(*)
		FROM bookings
		WHERE exhibition_id = $1 AND booking_date = $2 AND status <> 'cancelled'
		GROUP BY booking_time
	`

	rows, err := r.Query(ctx, query, exhibitionID, date)
	if err != nil {
		return nil, fmt.Errorf("count bookings by time: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			slotTime string
			booked   int
		)
		if err := rows.Scan(&slotTime, &booked); err != nil {
			return nil, fmt.Errorf("scan booking count: %w", err)
		}
		counts[slotTime] = booked
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking counts: %w", err)
	}

	return counts, nil
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (user_id, exhibition_id, booking_date, booking_time, phone, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.UserID,
		booking.ExhibitionID,
		booking.BookingDate,
		booking.BookingTime,
		booking.Phone,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByIDForUpdate получает бронирование с блокировкой строки до конца транзакции
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 FOR UPDATE`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking for update: %w", err)
	}

	return booking, nil
}

// UpdateSchedule переносит бронирование на другую дату и время
func (r *BookingRepository) UpdateSchedule(ctx context.Context, id int64, date time.Time, slotTime string) (*model.Booking, error) {
	query := `
		UPDATE bookings b
		SET booking_date = $1, booking_time = $2, updated_at = NOW()
		WHERE b.id = $3
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.QueryRow(ctx, query, date, slotTime, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update booking schedule: %w", err)
	}

	return booking, nil
}

// CancelByOwner отменяет бронирование владельца, если оно ещё не отменено и не завершено.
// Возвращает nil, если подходящей строки нет.
func (r *BookingRepository) CancelByOwner(ctx context.Context, id, userID int64) (*model.Booking, error) {
	query := `
		UPDATE bookings b
		SET status = 'cancelled', updated_at = NOW()
		WHERE b.id = $1 AND b.user_id = $2
		  AND b.status NOT IN ('cancelled', 'completed')
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.QueryRow(ctx, query, id, userID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	return booking, nil
}

// UpdateStatus устанавливает статус без проверки переходов
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	query := `
		UPDATE bookings b
		SET status = $1, updated_at = NOW()
		WHERE b.id = $2
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.QueryRow(ctx, query, status, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return booking, nil
}

// Delete удаляет бронирование. Возвращает false, если его не было.
func (r *BookingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}

	return affected > 0, nil
}

const bookingViewSelect = `
	SELECT ` + bookingColumns + `,
	       e.name, e.price,
	       u.telegram_id, u.first_name, u.username, u.phone
	FROM bookings b
	JOIN users u ON b.user_id = u.id
	JOIN exhibitions e ON b.exhibition_id = e.id
`

// ListByTelegramID получает бронирования пользователя, самые поздние первыми.
// Пустой statuses означает все статусы, limit <= 0 снимает ограничение.
func (r *BookingRepository) ListByTelegramID(ctx context.Context, telegramID int64, statuses []model.BookingStatus, limit int) ([]*model.BookingView, error) {
	query := bookingViewSelect + ` WHERE u.telegram_id = $1`
	args := []any{telegramID}

	if len(statuses) > 0 {
		args = append(args, statusStrings(statuses))
		query += fmt.Sprintf(` AND b.status = ANY($%d)`, len(args))
	}

	query += ` ORDER BY b.booking_date DESC, b.booking_time DESC`

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	return r.queryViews(ctx, query, args...)
}

// ListFiltered получает бронирования для оператора в хронологическом порядке
func (r *BookingRepository) ListFiltered(ctx context.Context, filter model.BookingFilter) ([]*model.BookingView, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("b.booking_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("b.booking_date <= $%d", len(args)))
	}
	if filter.ExhibitionID != nil {
		args = append(args, *filter.ExhibitionID)
		conditions = append(conditions, fmt.Sprintf("b.exhibition_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)))
	}

	query := bookingViewSelect
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY b.booking_date ASC, b.booking_time ASC`

	return r.queryViews(ctx, query, args...)
}

// GetView получает одно бронирование вместе с пользователем и выставкой
func (r *BookingRepository) GetView(ctx context.Context, id int64) (*model.BookingView, error) {
	views, err := r.queryViews(ctx, bookingViewSelect+` WHERE b.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, nil
	}
	return views[0], nil
}

// Stats считает агрегаты относительно переданной даты "сегодня"
func (r *BookingRepository) Stats(ctx context.Context, today time.Time) (*model.BookingStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE booking_date = $1),
			COUNT(*) FILTER (WHERE booking_date = $1 AND status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'confirmed' AND booking_date >= $1),
			COUNT(*) FILTER (WHERE status = 'completed')
		FROM bookings
	`

	var stats model.BookingStats
	err := r.QueryRow(ctx, query, today).Scan(
		&stats.TodayBookings,
		&stats.TodayConfirmed,
		&stats.UpcomingTotal,
		&stats.TotalCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}

	return &stats, nil
}

// ClaimDueReminders атомарно помечает подтверждённые бронирования на дату как
// напомненные и возвращает их. Повторный или параллельный вызов ничего не вернёт
// для уже захваченных строк.
func (r *BookingRepository) ClaimDueReminders(ctx context.Context, date time.Time) ([]model.ReminderTarget, error) {
	query := `
		UPDATE bookings b
		SET reminded_at = NOW()
		FROM users u, exhibitions e
		WHERE b.user_id = u.id AND b.exhibition_id = e.id
		  AND b.booking_date = $1
		  AND b.status = 'confirmed'
		  AND b.reminded_at IS NULL
		RETURNING b.id, u.telegram_id, e.name, b.booking_date, b.booking_time
	`

	rows, err := r.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("claim due reminders: %w", err)
	}
	defer rows.Close()

	var targets []model.ReminderTarget
	for rows.Next() {
		var t model.ReminderTarget
		if err := rows.Scan(&t.BookingID, &t.TelegramID, &t.ExhibitionName, &t.BookingDate, &t.BookingTime); err != nil {
			return nil, fmt.Errorf("scan reminder target: %w", err)
		}
		targets = append(targets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reminder targets: %w", err)
	}

	return targets, nil
}

func (r *BookingRepository) queryViews(ctx context.Context, query string, args ...any) ([]*model.BookingView, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	views := make([]*model.BookingView, 0)
	for rows.Next() {
		var v model.BookingView
		err := rows.Scan(
			&v.ID,
			&v.UserID,
			&v.ExhibitionID,
			&v.BookingDate,
			&v.BookingTime,
			&v.Status,
			&v.Phone,
			&v.RemindedAt,
			&v.CreatedAt,
			&v.UpdatedAt,
			&v.ExhibitionName,
			&v.ExhibitionPrice,
			&v.TelegramID,
			&v.FirstName,
			&v.Username,
			&v.UserPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking view: %w", err)
		}
		views = append(views, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return views, nil
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ExhibitionID,
		&booking.BookingDate,
		&booking.BookingTime,
		&booking.Status,
		&booking.Phone,
		&booking.RemindedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func statusStrings(statuses []model.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
