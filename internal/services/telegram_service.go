package services

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramService pushes schedule notifications to a user's linked chat.
// A nil service (no bot token configured) silently drops everything.
type TelegramService struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramService(botToken string) (*TelegramService, error) {
	if botToken == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init failed: %w", err)
	}
	log.Printf("[tg] authorized as @%s", bot.Self.UserName)
	return &TelegramService{bot: bot}, nil
}

func (t *TelegramService) SendMessage(chatID int64, text string) error {
	if t == nil || t.bot == nil || chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg][send][err] chatID=%d: %v", chatID, err)
		return err
	}
	return nil
}

func (t *TelegramService) NotifyWaitlisted(chatID int64, title string) {
	text := fmt.Sprintf("⏳ <b>%s</b> lost its slot and is waitlisted. It will be rescheduled automatically when time frees up.", title)
	if err := t.SendMessage(chatID, text); err != nil {
		log.Printf("[tg][waitlist][err] chatID=%d title=%q: %v", chatID, title, err)
	}
}

func (t *TelegramService) NotifyMoved(chatID int64, title string, start time.Time) {
	text := fmt.Sprintf("📅 <b>%s</b> was moved to %s.", title, start.Format("Mon, 2 Jan 15:04"))
	if err := t.SendMessage(chatID, text); err != nil {
		log.Printf("[tg][moved][err] chatID=%d title=%q: %v", chatID, title, err)
	}
}

func (t *TelegramService) NotifyReminder(chatID int64, title string, at time.Time) {
	text := fmt.Sprintf("🔔 <b>%s</b> — %s", title, at.Format("Mon, 2 Jan 15:04"))
	if err := t.SendMessage(chatID, text); err != nil {
		log.Printf("[tg][reminder][err] chatID=%d title=%q: %v", chatID, title, err)
	}
}
