package httptransport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vm-affekt/fbdl/internal/app"
	"github.com/vm-affekt/fbdl/internal/downloader"
	"github.com/vm-affekt/fbdl/internal/logging"
	"github.com/vm-affekt/fbdl/internal/render"
	"github.com/vm-affekt/fbdl/internal/stats"
)

const errProcessingPrefix = "error processing request: "

type Handler struct {
	service    app.DownloadService
	relayStats *stats.Relay
}

func NewHandler(service app.DownloadService, relayStats *stats.Relay) *Handler {
	if relayStats == nil {
		relayStats = stats.NewRelay()
	}
	return &Handler{
		service:    service,
		relayStats: relayStats,
	}
}

// download serves POST /api/download.
func (h *Handler) download(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		c.JSON(http.StatusMethodNotAllowed, app.ErrorEnvelope("method not allowed"))
		return
	}

	var req app.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logging.FromContextS(c.Request.Context()).Infof("Failed to decode request body: %v", err)
		c.JSON(http.StatusBadRequest, app.ErrorEnvelope("invalid request body"))
		return
	}

	status, env := h.relay(c.Request.Context(), req.VideoURL)
	c.JSON(status, env)
}

// relay runs one validated call to the extraction API and maps the outcome onto an envelope.
func (h *Handler) relay(ctx context.Context, link string) (int, app.Envelope) {
	h.relayStats.RecordRequest()
	status, env := h.doRelay(ctx, link)
	h.relayStats.RecordResult(env.Success)
	return status, env
}

func (h *Handler) doRelay(ctx context.Context, link string) (int, app.Envelope) {
	if err := downloader.ValidateLink(link); err != nil {
		return http.StatusBadRequest, app.ErrorEnvelope(app.UserMessageOf(err))
	}

	payload, err := h.service.FetchLinks(ctx, link)
	if err != nil {
		if app.KindOf(err) == app.KindInvalidInput {
			return http.StatusBadRequest, app.ErrorEnvelope(app.UserMessageOf(err))
		}
		logging.FromContextS(ctx).Errorf("Error processing request: %v", err)
		msg := app.UserMessageOf(err)
		if msg == "" {
			msg = "unknown error"
		}
		return http.StatusInternalServerError, app.ErrorEnvelope(errProcessingPrefix + msg)
	}
	return http.StatusOK, app.SuccessEnvelope(payload)
}

// index serves the form page.
func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "page", render.Page{})
}

// submit handles the form post: the same checks a browser script would do,
// then the relay, then rendering of the resulting envelope.
func (h *Handler) submit(c *gin.Context) {
	link := strings.TrimSpace(c.PostForm("videoUrl"))
	page := render.Page{VideoURL: link}
	switch {
	case link == "":
		page.View = render.Status(render.StatusError, render.MsgEnterURL)
	case !downloader.IsFacebookURL(link):
		page.View = render.Status(render.StatusError, render.MsgNotFacebookURL)
	default:
		_, env := h.relay(c.Request.Context(), link)
		page.View = render.FromEnvelope(env)
	}
	c.HTML(http.StatusOK, "page", page)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"relay":  h.relayStats.Snapshot(),
		"system": stats.GetSystemInfo(),
	})
}
