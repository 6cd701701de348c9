package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gallery_booking/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// command команда бота: обработчик и строка для меню
type command struct {
	name        string
	description string
	handler     bot.HandlerFunc
}

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	users handlers.UserRegistry,
	bookings handlers.BookingLister,
	catalog handlers.ExhibitionCatalog,
	frontendURL string,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: handlers.NewHandlers(users, bookings, catalog, frontendURL, logger),
		logger:   logger,
	}
}

func (c *BotController) commands() []command {
	return []command{
		{name: "start", description: "📅 Записаться на выставку", handler: c.handlers.HandleStart},
		{name: "exhibitions", description: "🎭 Текущие выставки", handler: c.handlers.HandleExhibitions},
		{name: "mybookings", description: "📋 Мои записи", handler: c.handlers.HandleMyBookings},
		{name: "help", description: "❓ Справка по командам", handler: c.handlers.HandleHelp},
	}
}

// RegisterHandlers регистрирует обработчики команд и выставляет меню
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	cmds := c.commands()
	menu := make([]models.BotCommand, 0, len(cmds))

	for _, cmd := range cmds {
		c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/"+cmd.name, bot.MatchTypeExact, cmd.handler)
		menu = append(menu, models.BotCommand{Command: cmd.name, Description: cmd.description})
	}

	if _, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: menu}); err != nil {
		return fmt.Errorf("set bot commands: %w", err)
	}

	c.logger.Info("Bot handlers registered", zap.Int("commands", len(cmds)))
	return nil
}

// Start запускает long polling и блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
	return nil
}
