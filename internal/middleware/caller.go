package middleware

import (
	"edusync_backend/internal/service"
	"edusync_backend/internal/util"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// CallerMiddleware 根据 JWT 声明与 Accept-Language、tz 参数构造请求方上下文。
// 须放在 AuthMiddleware 之后；未登录时不设置。
func CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			caller := &service.CallerContext{
				UserID:      claims.UserID,
				DisplayName: claims.Name,
				Role:        claims.Role,
				Locale:      service.ParseLocale(c.GetHeader("Accept-Language")),
			}
			if tz := c.Query("tz"); tz != "" {
				// 非法时区忽略，按默认 UTC 展示
				if loc, err := time.LoadLocation(tz); err == nil {
					caller.Location = loc
				}
			}
			c.Set(callerKey, caller)
		}
		c.Next()
	}
}

// GetCaller 未经过 CallerMiddleware 或未登录时返回 nil
func GetCaller(c *gin.Context) *service.CallerContext {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*service.CallerContext)
	return caller
}
