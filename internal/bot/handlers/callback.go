package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/state"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          Sender
	reports      *reporter
	stateManager state.StateManager
}

func NewCallbackHandler(api Sender, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		reports:      newReporter(api, deps),
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Answer first so the client stops showing the loading state
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	chatID := query.Message.Chat.ID
	switch query.Data {
	case keyboards.CallbackMainMenu:
		h.stateManager.SetUserState(chatID, state.None)
		return menus.SendMainMenu(h.api, chatID)
	case keyboards.CallbackInsights:
		return h.send(chatID, "Choose the insight window:", keyboards.InsightsWindowMenu())
	case keyboards.CallbackInsightsWeek:
		return h.reports.sendInsights(ctx, chatID, 7)
	case keyboards.CallbackInsightsMonth:
		return h.reports.sendInsights(ctx, chatID, 30)
	case keyboards.CallbackInsightsCustom:
		h.stateManager.SetUserState(chatID, state.WaitingForWindowDays)
		return h.send(chatID, "How many days should the insights cover?", keyboards.BackMenu())
	case keyboards.CallbackLatest:
		return h.reports.sendLatest(ctx, chatID)
	case keyboards.CallbackRecord:
		h.stateManager.SetUserState(chatID, state.WaitingForReading)
		return h.send(chatID, readingFormatHelp, keyboards.BackMenu())
	case keyboards.CallbackHelp:
		return h.send(chatID, helpText, keyboards.BackMenu())
	default:
		return h.send(chatID, "Unknown action. Use /start to open the menu.", keyboards.BackMenu())
	}
}

func (h *CallbackHandler) send(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := h.api.Send(msg)
	return err
}
