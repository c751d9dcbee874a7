package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"photo-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Timeout 為每個請求設置截止時間。
// 下游呼叫會因 context 到期而失敗，現有的食譜處理器會自行寫出 200 或 502；
// 504 只在處理器到期後仍未寫出任何響應時才會出現，作為之後新增路由的保底。
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Writer.Written() {
			return
		}

		common.LogError("Request timeout",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.Writer.Header().Get("X-Request-ID")),
			zap.Duration("timeout", d),
		)
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
			Code:    common.ErrCodeRequestTimeout,
			Message: "Request timeout",
			Details: "timeout after " + d.String(),
		})
	}
}
