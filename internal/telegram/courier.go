package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kemuni/TimeInData/internal/notify"
)

// Courier delivers reminders over the Telegram Bot API, translating its
// failures into the dispatcher's taxonomy.
type Courier struct {
	bot *tgbotapi.BotAPI
}

func NewCourier(bot *tgbotapi.BotAPI) *Courier {
	return &Courier{bot: bot}
}

// SendReminder implements notify.Courier.
func (c *Courier) SendReminder(ctx context.Context, userID int64, text string) error {
	// The bot API client has no context support; honor cancellation at
	// the boundary instead.
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.bot.Send(tgbotapi.NewMessage(userID, text))
	return mapSendError(err)
}

func mapSendError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err // transport trouble, worth a retry
	}
	switch {
	case apiErr.Code == 403:
		return notify.ErrBlocked
	case apiErr.Code == 429:
		return &notify.RateLimitedError{
			RetryAfter: time.Duration(apiErr.ResponseParameters.RetryAfter) * time.Second,
		}
	case apiErr.Code == 400 && strings.Contains(strings.ToLower(apiErr.Message), "not found"):
		return notify.ErrNotFound
	default:
		return err
	}
}
