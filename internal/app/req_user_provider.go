package app

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ReqUserProvider interface {
	User() *tgbotapi.User

	SendReplyf(ctx context.Context, replyToMsgID int, text string, args ...interface{}) (messageID int, err error)
}

func SendMessagef(ctx context.Context, rup ReqUserProvider, text string, args ...interface{}) (messageID int, err error) {
	return rup.SendReplyf(ctx, 0, text, args...)
}
