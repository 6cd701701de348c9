package api

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	initdata "github.com/telegram-mini-apps/init-data-golang"
	"go.uber.org/zap"
)

const (
	InitDataHeader  = "X-Telegram-Init-Data"
	RequestIDHeader = "X-Request-ID"

	ctxIdentity  = "identity"
	ctxRequestID = "request_id"
)

// RequestLogger присваивает запросу ID и пишет access-лог
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if identity, ok := identityFrom(c); ok {
			fields = append(fields, zap.Int64("telegram_id", identity.TelegramID))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// Recovery превращает панику обработчика в 500 с общим сообщением
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Handler panicked",
					zap.String("request_id", c.GetString(ctxRequestID)),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			}
		}()

		c.Next()
	}
}

// AuthConfig параметры проверки Telegram initData
type AuthConfig struct {
	BotToken string
	TTL      time.Duration
	// SkipSignature отключает проверку подписи, только для локальной разработки
	SkipSignature bool
}

// TelegramAuth проверяет подписанный payload Mini App и кладёт личность в контекст
func TelegramAuth(cfg AuthConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(InitDataHeader)
		if raw == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing "+InitDataHeader+" header")
			return
		}

		if !cfg.SkipSignature {
			if err := initdata.Validate(raw, cfg.BotToken, cfg.TTL); err != nil {
				logger.Warn("Invalid init data",
					zap.String("request_id", c.GetString(ctxRequestID)),
					zap.Error(err),
				)
				response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Invalid Telegram init data")
				return
			}
		}

		data, err := initdata.Parse(raw)
		if err != nil {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Invalid Telegram init data")
			return
		}

		if data.User.ID == 0 {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not found in init data")
			return
		}

		c.Set(ctxIdentity, model.Identity{
			TelegramID:   data.User.ID,
			FirstName:    data.User.FirstName,
			LastName:     data.User.LastName,
			Username:     data.User.Username,
			LanguageCode: data.User.LanguageCode,
			IsPremium:    data.User.IsPremium,
		})

		c.Next()
	}
}

// AdminOnly пропускает только операторов из реестра admins
func AdminOnly(admins AdminChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFrom(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		isAdmin, err := admins.IsAdmin(c.Request.Context(), identity.TelegramID)
		if err != nil {
			logger.Error("Failed to check admin",
				zap.String("request_id", c.GetString(ctxRequestID)),
				zap.Int64("telegram_id", identity.TelegramID),
				zap.Error(err),
			)
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
			return
		}

		if !isAdmin {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}

		c.Next()
	}
}

func identityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}
