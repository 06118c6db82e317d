package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/state"
)

// TextHandler handles text messages
type TextHandler struct {
	api          Sender
	reports      *reporter
	stateManager state.StateManager
}

func NewTextHandler(api Sender, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		reports:      newReporter(api, deps),
		stateManager: stateManager,
	}
}

// Handle processes a text message according to the chat state
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID

	switch h.stateManager.GetUserState(chatID) {
	case state.WaitingForWindowDays:
		days, err := parseWindowDays(message.Text)
		if err != nil {
			return h.reports.send(chatID, err.Error(), keyboards.BackMenu())
		}
		h.stateManager.SetUserState(chatID, state.None)
		return h.reports.sendInsights(ctx, chatID, days)

	case state.WaitingForReading:
		saved, err := h.reports.tryRecord(ctx, chatID, message.Text)
		if saved {
			h.stateManager.SetUserState(chatID, state.None)
		}
		return err

	default:
		return h.reports.send(chatID, "Please use the menu or /help to choose an action.", keyboards.MainMenu())
	}
}
