package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Register регистрирует пользователя или обновляет его профиль из Telegram.
// Телефон, сохранённый ранее при бронировании, не затирается.
func (s *UserService) Register(ctx context.Context, identity model.Identity) (*model.User, error) {
	user, err := s.users.Upsert(ctx, identity, nil)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", identity.TelegramID),
		zap.String("username", identity.Username),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
