package maind

import (
	"context"
	"strings"

	"github.com/vm-affekt/fbdl/internal/app"
	"github.com/vm-affekt/fbdl/internal/downloader"
	"github.com/vm-affekt/fbdl/internal/logging"
	"github.com/vm-affekt/fbdl/internal/render"
)

const (
	msgGreeting = "Send me a link to a Facebook video and I will reply with its download links."
	msgSendLink = "Send a link to a Facebook video to get download links."
)

type dialog struct {
	rup             app.ReqUserProvider
	downloadService app.DownloadService
}

func New(rup app.ReqUserProvider, downloadService app.DownloadService) app.Dialog {
	return &dialog{
		rup:             rup,
		downloadService: downloadService,
	}
}

func (d *dialog) OnMessage(ctx context.Context, text string, msgID int) error {
	link := strings.TrimSpace(text)
	if link == "/start" || link == "/help" {
		_, err := app.SendMessagef(ctx, d.rup, "%s", msgGreeting)
		return err
	}
	if err := downloader.ValidateLink(link); err != nil {
		return app.NewUserError(app.KindInvalidInput, msgSendLink).WithCause(err)
	}

	log := logging.FromContextS(ctx)
	log.Infof("Fetching download links for %q", link)
	payload, err := d.downloadService.FetchLinks(ctx, link)
	if err != nil {
		msg := app.UserMessageOf(err)
		if msg == "" {
			msg = "unknown error"
		}
		return app.NewUserError(app.KindOf(err), "Error: error processing request: "+escape(msg)).WithCause(err)
	}

	view := render.FromEnvelope(app.SuccessEnvelope(payload))
	for _, text := range FormatView(view) {
		if _, err := d.rup.SendReplyf(ctx, msgID, "%s", text); err != nil {
			return err
		}
	}
	return nil
}
