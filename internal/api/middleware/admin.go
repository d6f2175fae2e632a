package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

// AdminAuth 校验 /api/admin/login 签发的 JWT
func AdminAuth(admin service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "unauthorized")
			return
		}
		if err := admin.VerifyToken(strings.TrimPrefix(auth, "Bearer ")); err != nil {
			response.Unauthorized(c, "unauthorized")
			return
		}
		c.Next()
	}
}
