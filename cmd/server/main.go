package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/Freeeeeet/gallery_booking/internal/app"
	"github.com/Freeeeeet/gallery_booking/internal/config"
	"github.com/Freeeeeet/gallery_booking/internal/controller"
	"github.com/Freeeeeet/gallery_booking/internal/controller/api"
	"github.com/Freeeeeet/gallery_booking/internal/notification"
	"github.com/Freeeeeet/gallery_booking/internal/repository"
	"github.com/Freeeeeet/gallery_booking/internal/repository/base"
	"github.com/Freeeeeet/gallery_booking/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := newPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	err = migrator.Run(ctx)
	migrator.Close() //nolint:errcheck
	if err != nil {
		return err
	}

	// Репозитории
	transactor := base.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	exhibitionRepo := repository.NewExhibitionRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	eventRepo := repository.NewBookingEventRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// Канал уведомлений: бот, если задан токен, иначе только лог
	var (
		botInstance *bot.Bot
		notifier    notification.Notifier = notification.NewLogNotifier(logger)
	)
	if cfg.TelegramToken != "" {
		botInstance, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		notifier = notification.NewTelegramNotifier(botInstance, notification.Venue{
			Address: cfg.VenueAddress,
			Phone:   cfg.VenuePhone,
		}, logger)
	} else {
		logger.Warn("TELEGRAM_TOKEN is not set, bot and notifications are disabled")
	}

	dispatcher := notification.NewDispatcher(cfg.NotifyWorkers, cfg.NotifyQueueSize, cfg.NotifyTimeout, logger)

	// Сервисы
	userService := service.NewUserService(userRepo, logger)
	catalogService := service.NewCatalogService(exhibitionRepo)
	availabilityService := service.NewAvailabilityService(exhibitionRepo, bookingRepo)
	bookingService := service.NewBookingService(
		transactor,
		userRepo,
		exhibitionRepo,
		bookingRepo,
		eventRepo,
		notifier,
		dispatcher,
		cfg.DBTxTimeout,
		logger,
	)
	adminService := service.NewAdminService(bookingRepo, eventRepo, adminRepo, cfg.Location(), logger)
	reminderService := service.NewReminderService(bookingRepo, notifier, cfg.Location(), logger)

	if err := adminService.EnsureAdmins(ctx, cfg.AdminTelegramIDs); err != nil {
		return fmt.Errorf("bootstrap admins: %w", err)
	}

	// HTTP API
	if cfg.SkipInitDataSignature() {
		logger.Warn("Init data signature check is disabled, ENV=development")
	}
	handler := api.NewHandler(catalogService, availabilityService, bookingService, userService, adminService, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		Auth: api.AuthConfig{
			BotToken:      cfg.TelegramToken,
			TTL:           cfg.InitDataTTL,
			SkipSignature: cfg.SkipInitDataSignature(),
		},
		CORSOrigins: cfg.CORSOrigins,
		Debug:       cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	scheduler := app.NewScheduler(reminderService, cfg.ReminderHour, cfg.Location(), logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, stopping HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	if botInstance != nil {
		botController := controller.NewBotController(botInstance, userService, bookingService, catalogService, cfg.FrontendURL, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands were not set", zap.Error(err))
		}

		g.Go(func() error {
			return botController.Start(gctx)
		})
	}

	err = g.Wait()

	// Уведомления, принятые до остановки, досылаются
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if drainErr := dispatcher.Close(drainCtx); drainErr != nil {
		logger.Error("Notification queue was not drained", zap.Error(drainErr))
	}

	return err
}

func newPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("parse DB_DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
