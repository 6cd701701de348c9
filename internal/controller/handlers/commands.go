package handlers

import (
	"context"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.start(ctx, b, update)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.help(ctx, b, update)
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.myBookings(ctx, b, update)
}

// HandleExhibitions обрабатывает команду /exhibitions
func (h *Handlers) HandleExhibitions(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.exhibitions(ctx, b, update)
}

func (h *Handlers) start(ctx context.Context, b MessageSender, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From

	// Регистрируем пользователя, ошибка не мешает показать приветствие
	_, err := h.users.Register(ctx, model.Identity{
		TelegramID:   from.ID,
		FirstName:    from.FirstName,
		LastName:     from.LastName,
		Username:     from.Username,
		LanguageCode: from.LanguageCode,
		IsPremium:    from.IsPremium,
	})
	if err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
	}

	h.sendMessage(ctx, b, startMessage(update.Message.Chat.ID, from.FirstName, h.frontendURL))
}

func (h *Handlers) help(ctx context.Context, b MessageSender, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   textHelp,
	})
}

func (h *Handlers) myBookings(ctx context.Context, b MessageSender, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	bookings, err := h.bookings.ListRecent(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get bookings", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, chatID, textInternalError)
		return
	}

	h.sendMessage(ctx, b, myBookingsMessage(chatID, bookings))
}

func (h *Handlers) exhibitions(ctx context.Context, b MessageSender, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID

	exhibitions, err := h.catalog.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list exhibitions", zap.Error(err))
		h.sendError(ctx, b, chatID, textInternalError)
		return
	}

	h.sendMessage(ctx, b, exhibitionsMessage(chatID, exhibitions))
}
