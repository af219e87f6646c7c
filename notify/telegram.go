package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends snapshots as photo messages to a single chat.
// The bot token and chat ID are pre-provisioned; no session management
// happens here.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authorizes the bot with the given token. The
// token is validated against the Telegram API, so this fails fast on
// bad credentials instead of failing on the first motion event.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Send uploads the JPEG snapshot with the caption attached. One
// attempt only; the caller decides what a failure means.
func (t *TelegramNotifier) Send(image []byte, caption string) error {
	photo := tgbotapi.NewPhoto(t.chatID, tgbotapi.FileBytes{
		Name:  "snapshot.jpg",
		Bytes: image,
	})
	photo.Caption = caption

	if _, err := t.bot.Send(photo); err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	return nil
}
