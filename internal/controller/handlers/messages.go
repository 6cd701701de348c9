package handlers

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/gallery_booking/internal/formatting"
	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	textInternalError = "❌ Произошла ошибка. Попробуйте позже."
	textNoBookings    = "У вас пока нет записей. Нажмите /start чтобы записаться на выставку."
	textNoExhibitions = "Сейчас нет открытых выставок."

	textHelp = "📚 Справка по командам:\n\n" +
		"/start - Записаться на выставку\n" +
		"/exhibitions - Текущие выставки\n" +
		"/mybookings - Мои записи\n" +
		"/help - Показать эту справку"
)

// startMessage приветствие. Кнопка Web App добавляется только для https адреса,
// иначе Telegram её не откроет.
func startMessage(chatID int64, firstName, frontendURL string) *bot.SendMessageParams {
	if firstName == "" {
		firstName = "друг"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Привет, %s! 👋\n\n", html.EscapeString(firstName))
	sb.WriteString("Добро пожаловать в Галерею Путь — пространство психологических выставок в темноте.\n\n")

	msg := &bot.SendMessageParams{
		ChatID:    chatID,
		ParseMode: models.ParseModeHTML,
	}

	if strings.HasPrefix(frontendURL, "https://") {
		sb.WriteString("Нажмите кнопку ниже, чтобы записаться на выставку:")
		msg.ReplyMarkup = &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{{
				{Text: "📅 Записаться на выставку", WebApp: &models.WebAppInfo{URL: frontendURL}},
			}},
		}
	} else {
		fmt.Fprintf(&sb, "🔧 <b>Режим разработки</b>\nFrontend: %s\n\nДля записи нужен HTTPS URL.", html.EscapeString(frontendURL))
	}

	msg.Text = sb.String()
	return msg
}

func myBookingsMessage(chatID int64, bookings []*model.BookingView) *bot.SendMessageParams {
	if len(bookings) == 0 {
		return &bot.SendMessageParams{ChatID: chatID, Text: textNoBookings}
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Ваши записи:</b>\n\n")
	for i, b := range bookings {
		status := formatting.GetBookingStatusDisplay(b.Status)
		fmt.Fprintf(&sb, "%d. %s <b>%s</b>\n", i+1, status.Emoji, html.EscapeString(b.ExhibitionName))
		fmt.Fprintf(&sb, "   📅 %s в %s\n\n", formatting.FormatDate(b.BookingDate), b.BookingTime)
	}

	return &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      strings.TrimRight(sb.String(), "\n"),
		ParseMode: models.ParseModeHTML,
	}
}

func exhibitionsMessage(chatID int64, exhibitions []*model.ExhibitionView) *bot.SendMessageParams {
	if len(exhibitions) == 0 {
		return &bot.SendMessageParams{ChatID: chatID, Text: textNoExhibitions}
	}

	var sb strings.Builder
	sb.WriteString("🎭 <b>Выставки:</b>\n\n")
	for _, e := range exhibitions {
		fmt.Fprintf(&sb, "<b>%s</b>\n", html.EscapeString(e.Name))
		if e.Description != "" {
			fmt.Fprintf(&sb, "%s\n", html.EscapeString(e.Description))
		}
		fmt.Fprintf(&sb, "🗓 %s\n", e.ScheduleText)
		fmt.Fprintf(&sb, "⏱ %s · 👥 до %d человек · 💳 %s\n\n",
			formatting.FormatDuration(e.DurationMinutes), e.Capacity, formatting.FormatPrice(e.Price))
	}

	return &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      strings.TrimRight(sb.String(), "\n"),
		ParseMode: models.ParseModeHTML,
	}
}
