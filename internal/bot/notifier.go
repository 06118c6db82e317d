package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

// Notifier pushes alerts and digests to the configured caregiver chats.
type Notifier struct {
	api     menus.Sender
	chatIDs []int64
	log     *slog.Logger
}

func NewNotifier(api menus.Sender, chatIDs []int64) *Notifier {
	return &Notifier{api: api, chatIDs: chatIDs, log: logger.Component("telegram_notifier")}
}

var _ domain.AlertNotifier = (*Notifier)(nil)

// NotifyAlerts sends one message per chat. A failing chat does not stop the
// others; all failures are returned together.
func (n *Notifier) NotifyAlerts(ctx context.Context, reading domain.Reading, alerts []domain.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	return n.broadcast(ctx, menus.FormatAlertNotification(reading, alerts))
}

// SendDigest sends the periodic insight summary.
func (n *Notifier) SendDigest(ctx context.Context, summary *domain.InsightSummary) error {
	return n.broadcast(ctx, "🗓 Daily digest\n\n"+menus.FormatInsights(summary))
}

func (n *Notifier) broadcast(ctx context.Context, text string) error {
	var errs []error
	for _, chatID := range n.chatIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := n.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.log.Warn("Failed to send message", "chat_id", chatID, "error", err)
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}
