package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramProvider posts plain-text messages to one chat.
// Plain text because chunk boundaries would break MarkdownV2 escapes.
type TelegramProvider struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramProvider(token string, chatID int64) (*TelegramProvider, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//api.Debug = true

	return &TelegramProvider{
		api:    api,
		chatID: chatID,
	}, nil
}

func (t *TelegramProvider) Send(ctx context.Context, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	msg := tgbotapi.NewMessage(t.chatID, body)
	msg.DisableWebPagePreview = true
	sent, err := t.api.Send(msg)
	if err != nil {
		return "", fmt.Errorf("telegram send: %w", err)
	}
	return strconv.Itoa(sent.MessageID), nil
}
