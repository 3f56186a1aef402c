package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "smallcase/internal/errors"
	"smallcase/internal/logger"
)

// PipelineKeyHeader carries the shared key of the price feed jobs.
const PipelineKeyHeader = "X-API-Key"

// PipelineAuthMiddleware guards the endpoints the price feed jobs use to
// register instruments and push prices. An empty apiKey disables them.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			WriteError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader(PipelineKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			logger.Get().Warnw("rejected pipeline request",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP(),
				"request_id", RequestID(c),
			)
			WriteError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
