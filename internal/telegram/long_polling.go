package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (p *MsgProcessor) StartLongPolling(updTimeout int) error {
	if err := p.connect(); err != nil {
		return fmt.Errorf("failed to connect Telegram server: %w", err)
	}
	updCfg := tgbotapi.NewUpdate(0)
	updCfg.Timeout = updTimeout

	p.updates = p.bot.GetUpdatesChan(updCfg)
	p.startDispatcher()

	return nil
}

// Stop stops receiving updates and waits until the listener exits or ctx is done.
// Messages that are already being handled finish on their own timeouts.
func (p *MsgProcessor) Stop(ctx context.Context) error {
	if p.bot == nil {
		return nil
	}
	p.bot.StopReceivingUpdates()
	p.cancelDispatcher()
	select {
	case <-p.dispatcherDone:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("telegram listener didn't stop: %w", ctx.Err())
	}
}
