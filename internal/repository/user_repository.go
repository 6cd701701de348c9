package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, telegram_id, username, first_name, last_name, language_code, is_premium, phone, created_at, updated_at`

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

// Upsert создаёт пользователя или обновляет профиль существующего по telegram_id.
// Телефон обновляется только если передан (nil сохраняет прежнее значение).
func (r *UserRepository) Upsert(ctx context.Context, identity model.Identity, phone *string) (*model.User, error) {
	query := `
		INSERT INTO users (telegram_id, first_name, last_name, username, language_code, is_premium, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (telegram_id) DO UPDATE SET
			first_name    = EXCLUDED.first_name,
			last_name     = EXCLUDED.last_name,
			username      = EXCLUDED.username,
			language_code = EXCLUDED.language_code,
			is_premium    = EXCLUDED.is_premium,
			phone         = COALESCE(EXCLUDED.phone, users.phone),
			updated_at    = NOW()
		RETURNING ` + userColumns

	languageCode := identity.LanguageCode
	if languageCode == "" {
		languageCode = "ru"
	}

	user, err := scanUser(r.QueryRow(
		ctx, query,
		identity.TelegramID,
		identity.FirstName,
		identity.LastName,
		identity.Username,
		languageCode,
		identity.IsPremium,
		phone,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`

	user, err := scanUser(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Пользователь не найден
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.LanguageCode,
		&user.IsPremium,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
