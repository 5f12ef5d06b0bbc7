package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vm-affekt/fbdl/internal/logging"
)

type reqUserProvider struct {
	bot  *tgbotapi.BotAPI
	from *tgbotapi.User
}

func NewReqUserProvider(bot *tgbotapi.BotAPI, from *tgbotapi.User) *reqUserProvider {
	return &reqUserProvider{
		bot:  bot,
		from: from,
	}
}

func (rup *reqUserProvider) User() *tgbotapi.User {
	return rup.from
}

// SendReplyf sends an HTML message; replyToMsgID of zero sends it without quoting.
func (rup *reqUserProvider) SendReplyf(ctx context.Context, replyToMsgID int, text string, args ...interface{}) (int, error) {
	msg := makeTextMsgf(rup.from.ID, text, args...)
	msg.ReplyToMessageID = replyToMsgID
	return rup.sendMessage(ctx, msg)
}

func makeTextMsgf(chatID int64, text string, args ...interface{}) tgbotapi.MessageConfig {
	m := tgbotapi.NewMessage(chatID, fmt.Sprintf(text, args...))
	m.ParseMode = tgbotapi.ModeHTML
	m.DisableWebPagePreview = true
	return m
}

func (rup *reqUserProvider) sendMessage(ctx context.Context, msg tgbotapi.MessageConfig) (messageID int, err error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context is done while sending message: %w", ctx.Err())
	default:
	}

	logging.FromContextS(ctx).Infow("Sending message to user...",
		"text", msg.Text)

	sentMsg, err := rup.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send message to user with telegram_id=%d: %w", rup.from.ID, err)
	}
	return sentMsg.MessageID, nil
}
