package notification

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/gallery_booking/internal/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MessageSender часть API бота, нужная для отправки сообщений
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Venue контактные данные площадки для текстов сообщений
type Venue struct {
	Address string
	Phone   string
}

// TelegramNotifier отправляет уведомления личными сообщениями бота
type TelegramNotifier struct {
	sender MessageSender
	venue  Venue
	logger *zap.Logger
}

func NewTelegramNotifier(sender MessageSender, venue Venue, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender: sender,
		venue:  venue,
		logger: logger,
	}
}

// NotifyConfirmed отправляет подтверждение бронирования
func (n *TelegramNotifier) NotifyConfirmed(ctx context.Context, telegramID int64, details Details) error {
	text := fmt.Sprintf(
		"✅ <b>Бронирование подтверждено!</b>\n\n"+
			"🎭 <b>Выставка:</b> %s\n"+
			"📅 <b>Дата:</b> %s\n"+
			"⏰ <b>Время:</b> %s\n\n"+
			"📍 <b>Адрес:</b> %s\n"+
			"📞 <b>Контакт:</b> %s\n\n"+
			"Ждём вас! Напоминание придёт за день до визита.",
		html.EscapeString(details.ExhibitionName),
		formatting.FormatDateLong(details.Date),
		details.Time,
		html.EscapeString(n.venue.Address),
		html.EscapeString(n.venue.Phone),
	)

	if err := n.send(ctx, telegramID, text); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}

	n.logger.Info("Confirmation sent", zap.Int64("telegram_id", telegramID))
	return nil
}

// NotifyReminder отправляет напоминание о завтрашнем визите
func (n *TelegramNotifier) NotifyReminder(ctx context.Context, telegramID int64, details Details) error {
	text := fmt.Sprintf(
		"⏰ <b>Напоминание о визите!</b>\n\n"+
			"Завтра в <b>%s</b> у вас запись на выставку <b>«%s»</b>.\n\n"+
			"📍 <b>Адрес:</b> %s\n\n"+
			"Если планы изменились, позвоните: %s",
		details.Time,
		html.EscapeString(details.ExhibitionName),
		html.EscapeString(n.venue.Address),
		html.EscapeString(n.venue.Phone),
	)

	if err := n.send(ctx, telegramID, text); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}

	n.logger.Info("Reminder sent", zap.Int64("telegram_id", telegramID))
	return nil
}

func (n *TelegramNotifier) send(ctx context.Context, chatID int64, text string) error {
	_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return err
}
