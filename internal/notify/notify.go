package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/model"
)

// Notifier получает событие о созданном бронировании
type Notifier interface {
	BookingCreated(ctx context.Context, b model.Booking) error
}

// Nop используется, когда уведомления не настроены
type Nop struct{}

func (Nop) BookingCreated(context.Context, model.Booking) error { return nil }

// sender - часть *bot.Bot, которая нужна для отправки
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram отправляет сводку бронирования в чат координаторов
type Telegram struct {
	bot    sender
	chatID int64
	logger *zap.Logger
}

// NewTelegram создаёт бота без запроса getMe: токен проверится при первой отправке
func NewTelegram(token string, chatID int64, logger *zap.Logger, opts ...bot.Option) (*Telegram, error) {
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: b, chatID: chatID, logger: logger}, nil
}

func (t *Telegram) BookingCreated(ctx context.Context, b model.Booking) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   Summary(b),
	})
	if err != nil {
		return fmt.Errorf("send booking notification: %w", err)
	}

	t.logger.Debug("Booking notification sent",
		zap.String("booking_id", b.ID),
		zap.Int64("chat_id", t.chatID))
	return nil
}

// Summary форматирует бронирование простым текстом
func Summary(b model.Booking) string {
	var sb strings.Builder
	sb.WriteString("📅 New booking\n\n")

	if b.SessionType.Valid() {
		fmt.Fprintf(&sb, "Session: %s\n", b.SessionType.Label())
	}
	fmt.Fprintf(&sb, "Mode: %s\n", b.Mode)
	fmt.Fprintf(&sb, "Date: %s\n", b.Slot.Date)
	fmt.Fprintf(&sb, "Time: %s\n", b.Slot.Time)
	if who := personName(b.Student); who != "" {
		fmt.Fprintf(&sb, "Student: %s\n", who)
	}
	if who := personName(b.Mentor); who != "" {
		fmt.Fprintf(&sb, "With: %s\n", who)
	}
	if agenda := strings.TrimSpace(b.Agenda); agenda != "" {
		fmt.Fprintf(&sb, "\nAgenda: %s", agenda)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func personName(r model.UserRef) string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

var (
	_ Notifier = Nop{}
	_ Notifier = (*Telegram)(nil)
)
