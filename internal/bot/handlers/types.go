package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/vitals-tracker/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	VitalsSvc         interfaces.VitalsServiceInterface
	InsightSvc        interfaces.InsightServiceInterface
	DefaultWindowDays int
}

// Sender is the part of *tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
