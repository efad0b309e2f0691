package gintool

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/to404hanga/ctf_checker/constants"
)

// RequestIDMiddleware 请求未携带 X-Request-ID 时生成一个, 并写回响应头
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestIDKey)
		if requestID == "" {
			requestID = uuid.NewString()
			c.Request.Header.Set(constants.HeaderRequestIDKey, requestID)
		}
		c.Header(constants.HeaderRequestIDKey, requestID)
		c.Next()
	}
}

// ContextMiddleware 上下文中间件, 需要在 RequestIDMiddleware 之后
func ContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(GinContextToLoggerContext(c))
		c.Next()
	}
}
