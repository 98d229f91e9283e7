package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"study-strata/pkg/response"
)

// BodyLimit 请求体大小限制
// 声明了 Content-Length 且超限的请求直接返回 413；
// 未声明长度的请求由 MaxBytesReader 截断，绑定阶段报错
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.RequestTooLarge(c)
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
