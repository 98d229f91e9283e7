package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"study-strata/pkg/jwt"
	"study-strata/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token，
// 通过后向上下文注入 student_id 与 role
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}
		if claims.StudentID == "" {
			response.Unauthorized(c, 10002, "Token 缺少学生标识")
			c.Abort()
			return
		}

		c.Set("student_id", claims.StudentID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
