package httptransport

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vm-affekt/fbdl/internal/app"
	"github.com/vm-affekt/fbdl/internal/logging"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates one, and attaches
// a logger carrying it to the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)
		c.Set(requestIDKey, requestID)

		ctx := logging.NewContextS(c.Request.Context(),
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		log := logging.FromContextS(c.Request.Context())
		log.Debug("Request received")
		c.Next()
		log.Infow("Request is proceeded.",
			"status", c.Writer.Status(),
			"total_elapsed_time", time.Since(start),
		)
	}
}

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log := logging.FromContextS(c.Request.Context())
				log.With("recovered_obj", r).Errorf("!!! A PANIC occurred while handling request !!!\n%s", debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, app.ErrorEnvelope(errProcessingPrefix+"internal error"))
			}
		}()
		c.Next()
	}
}

// CORS allows any origin to call the relay from a browser.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Next()
	}
}
