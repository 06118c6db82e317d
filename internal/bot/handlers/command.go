package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/state"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

const helpText = `Available commands:
/start - Show the main menu
/help - Show this message
/insights [days] - Trends and recommendations, 30 days by default
/latest - The most recent reading and its alerts
/record [values] - Record a reading

` + readingFormatHelp

// CommandHandler handles bot commands
type CommandHandler struct {
	api          Sender
	reports      *reporter
	stateManager state.StateManager
}

func NewCommandHandler(api Sender, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		reports:      newReporter(api, deps),
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	logger.Info("Handling command", "command", message.Command(), "chat_id", chatID)

	args := strings.TrimSpace(message.CommandArguments())
	switch message.Command() {
	case "start":
		h.stateManager.SetUserState(chatID, state.None)
		return menus.SendMainMenu(h.api, chatID)
	case "help":
		return h.send(chatID, helpText)
	case "insights":
		days := 0
		if args != "" {
			var err error
			if days, err = parseWindowDays(args); err != nil {
				return h.send(chatID, err.Error())
			}
		}
		return h.reports.sendInsights(ctx, chatID, days)
	case "latest":
		return h.reports.sendLatest(ctx, chatID)
	case "record":
		if args == "" {
			h.stateManager.SetUserState(chatID, state.WaitingForReading)
			return h.send(chatID, readingFormatHelp)
		}
		return h.reports.recordReading(ctx, chatID, args)
	default:
		return h.send(chatID, "Unknown command. Use /help to see the available commands.")
	}
}

func (h *CommandHandler) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.BackMenu()
	_, err := h.api.Send(msg)
	return err
}
