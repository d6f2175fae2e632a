package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/hint/pkg/logger"
	"github.com/d60-Lab/hint/pkg/response"
)

// Recovery panic 兜底：上报 sentry（已初始化时），对外统一 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub.Recover(r)
				}
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{Message: "internal server error"})
			}
		}()
		c.Next()
	}
}
