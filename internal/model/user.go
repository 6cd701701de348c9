package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	IsPremium    bool      `json:"is_premium"`
	Phone        *string   `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity проверенные данные вызывающего из подписанного payload Telegram
type Identity struct {
	TelegramID   int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	IsPremium    bool
}

// Admin оператор с расширенными правами
type Admin struct {
	TelegramID int64     `json:"telegram_id"`
	AdminLevel int       `json:"admin_level"`
	CreatedAt  time.Time `json:"created_at"`
}
