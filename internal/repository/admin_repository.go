package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	*base.Repository
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{Repository: base.NewRepository(pool)}
}

// GetByTelegramID получает оператора по Telegram ID, nil если не оператор
func (r *AdminRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Admin, error) {
	query := `SELECT telegram_id, admin_level, created_at FROM admins WHERE telegram_id = $1`

	var admin model.Admin
	err := r.QueryRow(ctx, query, telegramID).Scan(&admin.TelegramID, &admin.AdminLevel, &admin.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}

	return &admin, nil
}

// Ensure добавляет операторов, если их ещё нет. Уровень существующих не меняется.
func (r *AdminRepository) Ensure(ctx context.Context, telegramIDs []int64) (int64, error) {
	if len(telegramIDs) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO admins (telegram_id)
		SELECT unnest($1::bigint[])
		ON CONFLICT (telegram_id) DO NOTHING
	`

	added, err := r.ExecAffected(ctx, query, telegramIDs)
	if err != nil {
		return 0, fmt.Errorf("ensure admins: %w", err)
	}

	return added, nil
}
