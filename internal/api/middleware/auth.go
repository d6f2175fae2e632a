package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/response"
)

const (
	// CtxUserID 登录用户 id 在 gin context 里的键
	CtxUserID = "userID"
	// CtxSessionToken 当前会话 token（登出时要用）
	CtxSessionToken = "sessionToken"
)

// sessionToken 先取 cookie，再退回 Authorization: Bearer（客户端库用后者）
func sessionToken(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// AuthRequired 会话门卫：无有效会话直接 401，不产生任何副作用
func AuthRequired(auth service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			response.Unauthorized(c, "unauthorized")
			return
		}
		userID, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "unauthorized")
			return
		}
		c.Set(CtxUserID, userID)
		c.Set(CtxSessionToken, token)
		c.Next()
	}
}

// AuthOptional feed 等公开端点用：有会话就带上 viewer 身份，没有照常放行
func AuthOptional(auth service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token != "" {
			if userID, err := auth.Resolve(c.Request.Context(), token); err == nil {
				c.Set(CtxUserID, userID)
				c.Set(CtxSessionToken, token)
			}
		}
		c.Next()
	}
}

// UserID 从 context 取登录用户 id；空串表示未登录
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
