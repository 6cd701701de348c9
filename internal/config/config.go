package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"production"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// База данных
	DBDSN       string        `envconfig:"DB_DSN" required:"true"`
	DBMaxConns  int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBTxTimeout time.Duration `envconfig:"DB_TX_TIMEOUT" default:"5s"`

	// Telegram
	TelegramToken string        `envconfig:"TELEGRAM_TOKEN"`
	FrontendURL   string        `envconfig:"FRONTEND_URL"`
	InitDataTTL   time.Duration `envconfig:"INIT_DATA_TTL" default:"24h"`

	// Площадка
	Timezone     string `envconfig:"TIMEZONE" default:"Europe/Moscow"`
	ReminderHour int    `envconfig:"REMINDER_HOUR" default:"10"`
	VenueAddress string `envconfig:"VENUE_ADDRESS" default:"СПб, ул. Гороховая 49 лит Б, пространство \"SENO\", 2 этаж"`
	VenuePhone   string `envconfig:"VENUE_PHONE" default:"+7 981 124 5511"`

	AdminTelegramIDs []int64 `envconfig:"ADMIN_TELEGRAM_IDS"`

	// Очередь уведомлений
	NotifyWorkers   int           `envconfig:"NOTIFY_WORKERS" default:"2"`
	NotifyQueueSize int           `envconfig:"NOTIFY_QUEUE_SIZE" default:"256"`
	NotifyTimeout   time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	location *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию только из переменных окружения
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Environment == "" {
		c.Environment = EnvProduction
	}

	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}

	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", c.ReminderHour)
	}

	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("load TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	return nil
}

// IsDevelopment включает консольные логи и отладочный режим gin
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// SkipInitDataSignature отключает проверку подписи initData.
// Только при явном ENV=development, по умолчанию подпись проверяется.
func (c *Config) SkipInitDataSignature() bool {
	return c.IsDevelopment()
}

// Location часовой пояс площадки
func (c *Config) Location() *time.Location {
	return c.location
}

// WebAppEnabled Telegram открывает Web App только по https
func (c *Config) WebAppEnabled() bool {
	return strings.HasPrefix(c.FrontendURL, "https://")
}
