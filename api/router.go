package api

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Context: func(c *gin.Context) []zap.Field {
			return []zap.Field{zap.String("request_id", c.GetString(requestIDHeader))}
		},
	}))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	if h.Metrics != nil {
		router.Use(h.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	router.POST(TodoBoardCallbackPath, h.TodoBoardHandler)
	router.HEAD(TodoBoardCallbackPath, h.OkHandler)
	router.HEAD("/", h.OkHandler)
	router.GET("/health", h.HealthCheckHandler)

	return router
}

// RequestID tags each request with the caller's X-Request-ID or a fresh uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Set(requestIDHeader, reqID)
		c.Writer.Header().Set(requestIDHeader, reqID)

		c.Next()
	}
}
