package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "restaurant-forum/internal/transport/http/response"
)

// Timeout 给整条请求链设 deadline；service 通过 *gin.Context 拿到同一个 ctx
func Timeout(d time.Duration, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			l.Warn("request timed out",
				zap.String("rid", c.GetString(KeyRequestID)),
				zap.String("route", c.FullPath()),
				zap.Duration("limit", d),
			)
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTimeout, "timeout"))
			}
		}
	}
}
