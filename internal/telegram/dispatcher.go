package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/vm-affekt/fbdl/internal/app"
	"github.com/vm-affekt/fbdl/internal/logging"
)

const msgInternalError = "An error occurred while processing your message. Try again later. Request ID: %v"

func (p *MsgProcessor) startDispatcher() {
	ctx := context.Background()
	ctx, p.cancelDispatcher = context.WithCancel(ctx)
	p.dispatcherDone = make(chan struct{})
	go p.startUpdListener(ctx)
}

func (p *MsgProcessor) startUpdListener(gCtx context.Context) {
	defer close(p.dispatcherDone)
	log := logging.FromContextS(gCtx)
	log.Info("Message receiver started... The bot is ready to process new messages!")
	for {
		var upd tgbotapi.Update
		select {
		case <-gCtx.Done():
			log.Info("Message receiver stopped.")
			return
		case u, ok := <-p.updates:
			if !ok {
				log.Info("Updates channel closed. Message receiver stopped.")
				return
			}
			upd = u
		}
		if upd.Message == nil || upd.Message.From == nil {
			continue
		}
		go p.handleMessage(upd.Message)
	}
}

func (p *MsgProcessor) handleMessage(msg *tgbotapi.Message) {
	from := msg.From
	// Parent of this context is Background, not the listener's one: stopping the listener shouldn't interrupt message handling.
	ctx, cancel := context.WithTimeout(context.Background(), p.handleTimeout)
	defer cancel()

	unlock := p.lockUser(from.ID) // we can handle only one message from certain user at once
	defer unlock()

	start := time.Now()
	rqID := genRequestID()
	ctx, log := logging.NewContextSL(ctx,
		"request_id", rqID,
		"user_tg_id", from.ID,
		"user_name", from.UserName,
	)
	log.Infof("Received message %q", msg.Text)

	rup := NewReqUserProvider(p.bot, from)
	runDialog(ctx, rup, p.container.CreateDialog(rup), msg.Text, msg.MessageID, rqID)
	log.Infow("Query is proceeded.",
		"total_elapsed_time", time.Since(start),
	)
}

// runDialog passes the message to d and tells the user when it fails:
// a UserError is replied with its message, anything else (a panic included) with the request id.
func runDialog(ctx context.Context, rup app.ReqUserProvider, d app.Dialog, text string, msgID int, rqID string) {
	log := logging.FromContextS(ctx)
	defer func() {
		if r := recover(); r != nil {
			log.With("recovered_obj", r).Error("!!! A PANIC occurred while handling query !!! See recovered object in recovered_obj!")
			_, _ = app.SendMessagef(ctx, rup, msgInternalError, rqID)
		}
	}()

	if err := d.OnMessage(ctx, text, msgID); err != nil {
		log.Errorf("Failed to process message: %v", err)
		var usrErr *app.UserError
		if errors.As(err, &usrErr) {
			_, _ = rup.SendReplyf(ctx, msgID, "%s", usrErr.UserMessage)
		} else {
			_, _ = rup.SendReplyf(ctx, msgID, msgInternalError, rqID)
		}
	}
}

func genRequestID() string {
	rid, _ := uuid.NewRandom()
	return rid.String()
}
