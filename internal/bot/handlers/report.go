package handlers

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

const genericFailure = "Something went wrong. Please try again later."

// reporter runs the service calls shared by commands, callbacks and text
// replies and sends the result to the chat.
type reporter struct {
	api  Sender
	deps Dependencies
	now  func() time.Time
}

func newReporter(api Sender, deps Dependencies) *reporter {
	return &reporter{api: api, deps: deps, now: time.Now}
}

func (r *reporter) sendInsights(ctx context.Context, chatID int64, days int) error {
	if days == 0 {
		days = r.deps.DefaultWindowDays
	}
	summary, err := r.deps.InsightSvc.Summarize(ctx, days)
	if err != nil {
		return r.sendFailure(chatID, "insights", err)
	}

	text := menus.FormatInsights(summary)
	if narrative, err := r.deps.InsightSvc.Narrate(ctx, summary); err != nil {
		logger.Warn("Narrative generation failed", "chat_id", chatID, "error", err)
	} else if narrative != "" {
		text += "\n\n📝 " + narrative
	}
	return r.send(chatID, text, keyboards.InsightsWindowMenu())
}

func (r *reporter) sendLatest(ctx context.Context, chatID int64) error {
	latest, err := r.deps.VitalsSvc.Latest(ctx)
	if err != nil {
		return r.sendFailure(chatID, "latest", err)
	}
	if latest == nil {
		return r.send(chatID, "No readings recorded yet.", keyboards.MainMenu())
	}
	return r.send(chatID, menus.FormatReading(*latest), keyboards.MainMenu())
}

func (r *reporter) recordReading(ctx context.Context, chatID int64, text string) error {
	_, err := r.tryRecord(ctx, chatID, text)
	return err
}

// tryRecord parses and records a reading typed into the chat. It reports
// whether the reading was stored.
func (r *reporter) tryRecord(ctx context.Context, chatID int64, text string) (bool, error) {
	in, err := ParseReading(text, r.now())
	if err != nil {
		return false, r.send(chatID, err.Error()+"\n\n"+readingFormatHelp, keyboards.BackMenu())
	}

	reading, alerts, err := r.deps.VitalsSvc.Record(ctx, in)
	if err != nil {
		return false, r.sendFailure(chatID, "record", err)
	}

	text = "✅ Reading saved"
	if len(alerts) > 0 {
		text += "\n\n" + menus.FormatReading(domain.ReadingWithAlerts{Reading: *reading, Alerts: alerts})
	}
	return true, r.send(chatID, text, keyboards.MainMenu())
}

// sendFailure shows validation messages to the user and hides anything else.
func (r *reporter) sendFailure(chatID int64, operation string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
		return r.send(chatID, "⚠️ "+appErr.Message, keyboards.BackMenu())
	}
	logger.Error("Bot operation failed", "operation", operation, "chat_id", chatID, "error", err)
	return r.send(chatID, genericFailure, keyboards.BackMenu())
}

func (r *reporter) send(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := r.api.Send(msg)
	return err
}
