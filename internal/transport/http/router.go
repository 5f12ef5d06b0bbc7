package httptransport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vm-affekt/fbdl/internal/render"
)

func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Logging(), Recovery())
	router.SetHTMLTemplate(render.Templates())

	api := router.Group("/api", CORS())
	api.Any("/download", h.download)

	router.GET("/", h.index)
	router.POST("/", h.submit)
	router.GET("/health", h.health)

	return router
}

// NewServer returns a server whose write timeout leaves room for an upstream call of upstreamTimeout.
func NewServer(addr string, handler http.Handler, upstreamTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      upstreamTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
