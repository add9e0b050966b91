package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // TIMEZONE работает и без системной базы зон

	"github.com/joho/godotenv"
)

type Config struct {
	Environment      string
	LogLevel         string
	HTTPAddr         string
	APIBaseURL       string
	APITimeout       time.Duration
	DBDSN            string
	Location         *time.Location
	TelegramToken    string
	TelegramChatID   int64
	ServiceToken     string
	AutoFillInterval time.Duration
}

// Load читает конфигурацию. Файл .env необязателен, переменные окружения
// имеют приоритет над ним. Второе значение сообщает, был ли найден .env.
func Load(files ...string) (*Config, bool, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	// godotenv.Load не перезаписывает уже заданные переменные
	loadedEnv := godotenv.Load(files...) == nil

	cfg := &Config{
		Environment:   getenv("ENV", "development"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		DBDSN:         os.Getenv("DB_DSN"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		ServiceToken:  os.Getenv("SERVICE_TOKEN"),
	}

	var errs []error

	// Проверяем обязательные поля
	if cfg.APIBaseURL == "" {
		errs = append(errs, errors.New("API_BASE_URL is required but not set"))
	}
	if cfg.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required but not set"))
	}

	loc, err := time.LoadLocation(getenv("TIMEZONE", "Local"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	cfg.Location = loc

	if cfg.APITimeout, err = duration("API_TIMEOUT", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.AutoFillInterval, err = duration("AUTOFILL_INTERVAL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	} else if cfg.AutoFillInterval <= 0 {
		errs = append(errs, errors.New("AUTOFILL_INTERVAL must be positive"))
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			errs = append(errs, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err))
		}
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set"))
	}

	if len(errs) > 0 {
		return nil, loadedEnv, errors.Join(errs...)
	}
	return cfg, loadedEnv, nil
}

// NotificationsEnabled - уведомления в Telegram настроены
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramToken != ""
}

// AutoFillEnabled - есть учётные данные для фонового автозаполнения
func (c *Config) AutoFillEnabled() bool {
	return c.ServiceToken != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
