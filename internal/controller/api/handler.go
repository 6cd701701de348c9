package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/pkg/response"
	"github.com/Freeeeeet/gallery_booking/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Интерфейсы сервисов, которые использует HTTP-слой

type ExhibitionCatalog interface {
	List(ctx context.Context) ([]*model.ExhibitionView, error)
	Get(ctx context.Context, id int64) (*model.ExhibitionView, error)
}

type AvailabilityCalculator interface {
	Availability(ctx context.Context, exhibitionID int64, date string) (*model.DayAvailability, error)
}

type BookingManager interface {
	Create(ctx context.Context, identity model.Identity, in service.CreateBookingInput) (*model.BookingView, error)
	CancelOwn(ctx context.Context, identity model.Identity, bookingID int64) (*model.Booking, error)
	ListMine(ctx context.Context, telegramID int64) ([]*model.BookingView, error)
	Reschedule(ctx context.Context, actorTelegramID, bookingID int64, date, slotTime string) (*model.Booking, error)
	SetStatus(ctx context.Context, actorTelegramID, bookingID int64, status string) (*model.Booking, error)
	Delete(ctx context.Context, actorTelegramID, bookingID int64) error
}

type UserRegistry interface {
	Register(ctx context.Context, identity model.Identity) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
}

type AdminQueries interface {
	AdminChecker
	List(ctx context.Context, q service.BookingListQuery) ([]*model.BookingView, error)
	Get(ctx context.Context, bookingID int64) (*model.BookingView, error)
	History(ctx context.Context, bookingID int64) ([]*model.BookingEvent, error)
	Stats(ctx context.Context) (*model.BookingStats, error)
}

// Handler обработчики HTTP API
type Handler struct {
	catalog      ExhibitionCatalog
	availability AvailabilityCalculator
	bookings     BookingManager
	users        UserRegistry
	admin        AdminQueries
	logger       *zap.Logger
}

func NewHandler(
	catalog ExhibitionCatalog,
	availability AvailabilityCalculator,
	bookings BookingManager,
	users UserRegistry,
	admin AdminQueries,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		catalog:      catalog,
		availability: availability,
		bookings:     bookings,
		users:        users,
		admin:        admin,
		logger:       logger,
	}
}

// RouterConfig параметры HTTP-роутера
type RouterConfig struct {
	Auth        AuthConfig
	CORSOrigins []string
	Debug       bool
}

// NewRouter собирает gin-движок со всеми маршрутами API
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(h.logger), Recovery(h.logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.GET("/exhibitions", h.ListExhibitions)
		api.GET("/exhibitions/:id", h.GetExhibition)
		api.GET("/bookings/availability", h.GetAvailability)

		authed := api.Group("")
		authed.Use(TelegramAuth(cfg.Auth, h.logger))
		{
			authed.POST("/bookings", h.CreateBooking)
			authed.GET("/bookings/my", h.ListMyBookings)
			authed.PATCH("/bookings/:id/cancel", h.CancelBooking)

			authed.POST("/users", h.RegisterUser)
			authed.GET("/users/me", h.GetMe)
		}

		admin := api.Group("/admin")
		admin.Use(TelegramAuth(cfg.Auth, h.logger), AdminOnly(h.admin, h.logger))
		{
			admin.GET("/bookings", h.AdminListBookings)
			admin.GET("/bookings/:id", h.AdminGetBooking)
			admin.GET("/bookings/:id/history", h.AdminBookingHistory)
			admin.PATCH("/bookings/:id/status", h.AdminUpdateStatus)
			admin.PATCH("/bookings/:id/reschedule", h.AdminReschedule)
			admin.DELETE("/bookings/:id", h.AdminDeleteBooking)
			admin.GET("/stats", h.AdminStats)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", InitDataHeader, RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}
