package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data values
const (
	CallbackMainMenu       = "main_menu"
	CallbackInsights       = "insights"
	CallbackInsightsWeek   = "insights_7"
	CallbackInsightsMonth  = "insights_30"
	CallbackInsightsCustom = "insights_custom"
	CallbackLatest         = "latest"
	CallbackRecord         = "record"
	CallbackHelp           = "help"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Insights", CallbackInsights),
			tgbotapi.NewInlineKeyboardButtonData("🩺 Latest reading", CallbackLatest),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Record reading", CallbackRecord),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", CallbackHelp),
		),
	)
}

// InsightsWindowMenu lets the user pick the insight window
func InsightsWindowMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("7 days", CallbackInsightsWeek),
			tgbotapi.NewInlineKeyboardButtonData("30 days", CallbackInsightsMonth),
			tgbotapi.NewInlineKeyboardButtonData("Other…", CallbackInsightsCustom),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}

// BackMenu has a single button returning to the main menu
func BackMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}
